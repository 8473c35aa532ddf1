package service

import (
	"errors"

	"github.com/haierkeys/dev-toolbox-service/internal/domain"
	"github.com/haierkeys/dev-toolbox-service/pkg/code"
	apperrors "github.com/haierkeys/dev-toolbox-service/pkg/errors"
	pkglogger "github.com/haierkeys/dev-toolbox-service/pkg/logger"

	"go.uber.org/zap"
)

// storeError maps a repository failure to its response code.
// A rejected integrity check means a transform produced bad JSON, so it is logged loudly.
// storeError 将仓储错误映射为错误码，完整性校验失败说明格式化结果异常，记录错误日志
func storeError(logger *zap.Logger, op string, err error) error {
	if errors.Is(err, domain.ErrInvalidJSONData) {
		logger.Error("history integrity check rejected record", zap.String(pkglogger.FieldAction, op), zap.Error(err))
		return apperrors.NewAppError(code.ErrorDataIntegrity, err)
	}
	return apperrors.NewAppError(code.ErrorPersistence, err)
}
