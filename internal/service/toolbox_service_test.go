package service

import (
	"context"
	"testing"

	"github.com/haierkeys/dev-toolbox-service/internal/dto"
	"github.com/haierkeys/dev-toolbox-service/pkg/code"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatJSONPersists(t *testing.T) {
	repo := newMemRepo(fixedNow)
	reg := prometheus.NewRegistry()
	svc := NewToolboxService(repo, nil, NewMetrics(reg))

	res, err := svc.FormatJSON(context.Background(), &dto.FormatJSONRequest{
		JSON:          `{"name":"John","age":30}`,
		OriginAddress: "127.0.0.1",
		ClientAgent:   "curl/8.0",
	})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"John\",\n  \"age\": 30\n}", res.Formatted)
	assert.GreaterOrEqual(t, res.ProcessingTime, int64(0))

	list, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, `{"name":"John","age":30}`, list[0].OriginalJSON)
	assert.Equal(t, res.Formatted, list[0].FormattedJSON)
	assert.Equal(t, "127.0.0.1", list[0].OriginAddress)
	assert.Equal(t, "curl/8.0", list[0].ClientAgent)

	assert.Equal(t, 1.0, counterValue(t, reg, "toolbox_history_created_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "toolbox_operations_total"))
}

func TestFormatJSONMalformedSkipsStore(t *testing.T) {
	repo := newMemRepo(fixedNow)
	svc := NewToolboxService(repo, nil, nil)

	_, err := svc.FormatJSON(context.Background(), &dto.FormatJSONRequest{JSON: "{invalid json}", OriginAddress: "127.0.0.1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, code.ErrorMalformedJSON)

	c, ok := err.(*code.Code)
	require.True(t, ok)
	assert.True(t, c.HaveDetails())
	assert.Zero(t, repo.calls["Create"])
}

func TestFormatJSONStoreFailure(t *testing.T) {
	repo := newMemRepo(fixedNow)
	repo.fail = errStoreDown
	svc := NewToolboxService(repo, nil, nil)

	_, err := svc.FormatJSON(context.Background(), &dto.FormatJSONRequest{JSON: `[1,2]`, OriginAddress: "127.0.0.1"})
	assert.ErrorIs(t, err, code.ErrorPersistence)
}

func TestValidateJSON(t *testing.T) {
	svc := NewToolboxService(newMemRepo(fixedNow), nil, nil)

	res := svc.ValidateJSON(context.Background(), `{"a":[1,2,3]}`)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Details)

	res = svc.ValidateJSON(context.Background(), `{"a":`)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Details)
}

func TestEncodeDecode(t *testing.T) {
	svc := NewToolboxService(newMemRepo(fixedNow), nil, nil)

	enc := svc.Encode(context.Background(), "Hello World")
	assert.Equal(t, "Hello World", enc.Original)
	assert.Equal(t, "SGVsbG8gV29ybGQ=", enc.Encoded)

	dec, err := svc.Decode(context.Background(), "SGVsbG8gV29ybGQ=")
	require.NoError(t, err)
	assert.Equal(t, "SGVsbG8gV29ybGQ=", dec.Original)
	assert.Equal(t, "Hello World", dec.Decoded)

	_, err = svc.Decode(context.Background(), "not base64!")
	assert.ErrorIs(t, err, code.ErrorInvalidBase64)
}
