package service

import (
	"context"
	"errors"
	"time"

	"github.com/haierkeys/dev-toolbox-service/internal/domain"
	"github.com/haierkeys/dev-toolbox-service/internal/dto"
	"github.com/haierkeys/dev-toolbox-service/pkg/code"
	pkglogger "github.com/haierkeys/dev-toolbox-service/pkg/logger"
	"github.com/haierkeys/dev-toolbox-service/pkg/transform"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

// ToolboxService defines the transform pipeline service interface
// ToolboxService 定义转换流水线服务接口
type ToolboxService interface {
	// FormatJSON formats the input, times it and persists a history record
	// FormatJSON 格式化输入、计时并写入历史记录
	FormatJSON(ctx context.Context, params *dto.FormatJSONRequest) (*dto.FormatJSONResponse, error)

	// ValidateJSON reports validity; never fails
	// ValidateJSON 返回 JSON 是否合法，不会失败
	ValidateJSON(ctx context.Context, input string) *dto.ValidateJSONResponse

	// Encode Base64 encodes text
	// Encode Base64 编码
	Encode(ctx context.Context, text string) *dto.EncodeResponse

	// Decode Base64 decodes encoded
	// Decode Base64 解码
	Decode(ctx context.Context, encoded string) (*dto.DecodeResponse, error)
}

// toolboxService implementation of ToolboxService interface
// toolboxService 实现 ToolboxService 接口
type toolboxService struct {
	repo    domain.JSONHistoryRepository // History repository // 历史记录仓库
	logger  *zap.Logger                  // Logger // 日志对象
	metrics *Metrics
}

// NewToolboxService creates ToolboxService instance
// NewToolboxService 创建 ToolboxService 实例
func NewToolboxService(repo domain.JSONHistoryRepository, logger *zap.Logger, metrics *Metrics) ToolboxService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &toolboxService{repo: repo, logger: logger, metrics: metrics}
}

// FormatJSON 格式化 JSON 并写入历史记录
func (s *toolboxService) FormatJSON(ctx context.Context, params *dto.FormatJSONRequest) (*dto.FormatJSONResponse, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ToolboxService.FormatJSON")
	defer span.Finish()

	start := time.Now()
	formatted, err := transform.FormatJSON(params.JSON)
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.observeOperation(OpFormatJSON, false)
		var malformed *transform.MalformedInputError
		if errors.As(err, &malformed) {
			return nil, code.ErrorMalformedJSON.WithDetails(malformed.Diagnostic)
		}
		return nil, err
	}
	s.metrics.observeFormat(elapsed.Seconds())

	// 客户端断开不影响已开始的写入
	_, err = s.repo.Create(context.WithoutCancel(ctx), &domain.JSONHistory{
		OriginalJSON:   params.JSON,
		FormattedJSON:  formatted,
		OriginAddress:  params.OriginAddress,
		ClientAgent:    params.ClientAgent,
		ProcessingTime: elapsed.Milliseconds(),
	})
	if err != nil {
		s.metrics.observeOperation(OpFormatJSON, false)
		return nil, storeError(s.logger, "format_json", err)
	}
	s.metrics.addCreated(1)
	s.metrics.observeOperation(OpFormatJSON, true)

	s.logger.Debug("json formatted",
		zap.String(pkglogger.FieldIP, params.OriginAddress),
		zap.Int(pkglogger.FieldSize, len(params.JSON)),
		zap.Duration(pkglogger.FieldDuration, elapsed))

	return &dto.FormatJSONResponse{
		Formatted:      formatted,
		ProcessingTime: elapsed.Milliseconds(),
	}, nil
}

// ValidateJSON 校验 JSON
func (s *toolboxService) ValidateJSON(ctx context.Context, input string) *dto.ValidateJSONResponse {
	valid, diagnostic := transform.ValidateJSON(input)
	s.metrics.observeOperation(OpValidateJSON, true)
	return &dto.ValidateJSONResponse{Valid: valid, Details: diagnostic}
}

// Encode Base64 编码
func (s *toolboxService) Encode(ctx context.Context, text string) *dto.EncodeResponse {
	s.metrics.observeOperation(OpEncode, true)
	return &dto.EncodeResponse{Original: text, Encoded: transform.Encode(text)}
}

// Decode Base64 解码
func (s *toolboxService) Decode(ctx context.Context, encoded string) (*dto.DecodeResponse, error) {
	decoded, err := transform.Decode(encoded)
	if err != nil {
		s.metrics.observeOperation(OpDecode, false)
		if errors.Is(err, transform.ErrInvalidEncoding) {
			return nil, code.ErrorInvalidBase64
		}
		return nil, err
	}
	s.metrics.observeOperation(OpDecode, true)
	return &dto.DecodeResponse{Original: encoded, Decoded: decoded}, nil
}
