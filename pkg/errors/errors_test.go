package errors

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	pkgapp "github.com/haierkeys/dev-toolbox-service/pkg/app"
	"github.com/haierkeys/dev-toolbox-service/pkg/code"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, production bool, err error) (int, pkgapp.ErrRes) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(pkgapp.ProductionKey, production)

	ErrorResponse(c, err)

	var res pkgapp.ErrRes
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &res))
	return w.Code, res
}

func TestErrorResponseClientError(t *testing.T) {
	status, res := render(t, true, code.ErrorValidation.WithMessage("JSON input is required").WithField("json"))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation Error", res.Error)
	assert.Equal(t, "JSON input is required", res.Message)
	assert.Equal(t, "json", res.Field)
}

func TestErrorResponseHidesDetailsInProduction(t *testing.T) {
	err := NewAppError(code.ErrorPersistence, stderrors.New("database is locked"))

	status, res := render(t, false, err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal Server Error", res.Error)
	assert.Equal(t, "database is locked", res.Details)

	status, res = render(t, true, err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Something went wrong", res.Message)
	assert.Empty(t, res.Details)
}

func TestErrorResponseUnknownError(t *testing.T) {
	status, res := render(t, false, stderrors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "boom", res.Details)
}

func TestAppErrorIs(t *testing.T) {
	err := NewAppError(code.ErrorHistoryNotFound, nil)
	assert.True(t, stderrors.Is(err, code.ErrorHistoryNotFound))
	assert.True(t, IsAppError(err))
}
