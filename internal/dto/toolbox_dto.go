// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import (
	pkgapp "github.com/haierkeys/dev-toolbox-service/pkg/app"
)

// FormatJSONResponse response of POST /api/format-json
// FormatJSONResponse 格式化 JSON 响应
type FormatJSONResponse struct {
	pkgapp.Res
	Formatted      string `json:"formatted"`      // Two-space indented JSON // 两空格缩进的 JSON
	ProcessingTime int64  `json:"processingTime"` // Elapsed ms // 处理耗时（毫秒）
}

// ValidateJSONResponse response of POST /api/validate-json
// ValidateJSONResponse 校验 JSON 响应
type ValidateJSONResponse struct {
	pkgapp.Res
	Valid   bool   `json:"valid"`
	Details string `json:"details,omitempty"` // Parser diagnostic // 解析器诊断信息
}

// SetHeader mirrors Valid into success; the status stays 200 either way.
// SetHeader success 与 Valid 保持一致，HTTP 状态始终为 200
func (r *ValidateJSONResponse) SetHeader(_ bool, message string) {
	r.Res.SetHeader(r.Valid, message)
}

// EncodeResponse response of POST /api/encode
type EncodeResponse struct {
	pkgapp.Res
	Original string `json:"original"`
	Encoded  string `json:"encoded"`
}

// DecodeResponse response of POST /api/decode
type DecodeResponse struct {
	pkgapp.Res
	Original string `json:"original"`
	Decoded  string `json:"decoded"`
}

// HealthResponse response of GET /health
// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// FormatJSONRequest input of the format pipeline
// FormatJSONRequest 格式化流水线输入
type FormatJSONRequest struct {
	JSON          string `json:"json"`
	OriginAddress string `json:"-"` // Client IP // 客户端 IP
	ClientAgent   string `json:"-"` // User-Agent header // User-Agent 请求头
}
