package code

import "net/http"

// Error kinds rendered in the "error" field of the envelope.
// 错误信封中 error 字段的取值
const (
	KindValidation      = "Validation Error"
	KindMalformedJSON   = "Invalid JSON"
	KindInvalidBase64   = "Invalid Base64"
	KindNotFound        = "Not Found"
	KindRouteNotFound   = "Route not found"
	KindTooManyRequests = "Too Many Requests"
	KindPayloadTooLarge = "Payload Too Large"
	KindNotImplemented  = "Not Implemented"
	KindInternal        = "Internal Server Error"
)

// 成功
var (
	SuccessFormatJSON     = NewSuss(1, lang{en: "JSON formatted successfully", zh_cn: "JSON 格式化成功"})
	SuccessJSONValid      = NewSuss(2, lang{en: "JSON is valid", zh_cn: "JSON 有效"})
	SuccessJSONInvalid    = NewSuss(3, lang{en: "JSON is invalid", zh_cn: "JSON 无效"})
	SuccessEncode         = NewSuss(4, lang{en: "Text encoded successfully", zh_cn: "文本编码成功"})
	SuccessDecode         = NewSuss(5, lang{en: "Base64 decoded successfully", zh_cn: "Base64 解码成功"})
	SuccessHistoryList    = NewSuss(6, lang{en: "History retrieved successfully", zh_cn: "历史记录获取成功"})
	SuccessHistoryStats   = NewSuss(7, lang{en: "Statistics retrieved successfully", zh_cn: "统计信息获取成功"})
	SuccessHistoryCleanup = NewSuss(8, lang{en: "Old records cleaned up successfully", zh_cn: "旧记录清理成功"})
	SuccessHistoryGet     = NewSuss(9, lang{en: "Record retrieved successfully", zh_cn: "记录获取成功"})
	SuccessHistoryDelete  = NewSuss(10, lang{en: "Record deleted successfully", zh_cn: "记录删除成功"})
)

// 客户端错误
var (
	ErrorValidation      = NewError(400, http.StatusBadRequest, KindValidation, lang{en: "Invalid request parameters", zh_cn: "请求参数错误"})
	ErrorMalformedJSON   = NewError(401, http.StatusBadRequest, KindMalformedJSON, lang{en: "The provided input is not valid JSON", zh_cn: "输入内容不是合法的 JSON"})
	ErrorInvalidBase64   = NewError(402, http.StatusBadRequest, KindInvalidBase64, lang{en: "The provided input is not valid Base64 encoded string", zh_cn: "输入内容不是合法的 Base64 编码字符串"})
	ErrorHistoryNotFound = NewError(404, http.StatusNotFound, KindNotFound, lang{en: "History record not found", zh_cn: "历史记录不存在"})
	ErrorNotFoundAPI     = NewError(405, http.StatusNotFound, KindRouteNotFound, lang{en: "The requested route does not exist", zh_cn: "请求的路由不存在"})
	ErrorPayloadTooLarge = NewError(413, http.StatusRequestEntityTooLarge, KindPayloadTooLarge, lang{en: "Request body is too large", zh_cn: "请求体过大"})
	ErrorTooManyRequests = NewError(429, http.StatusTooManyRequests, KindTooManyRequests, lang{en: "Too many requests from this IP, please try again later.", zh_cn: "该 IP 请求过于频繁，请稍后再试"})
)

// 服务端错误
var (
	ErrorServerInternal = NewError(500, http.StatusInternalServerError, KindInternal, lang{en: "Something went wrong", zh_cn: "服务器内部错误"})
	ErrorDataIntegrity  = NewError(501, http.StatusInternalServerError, KindInternal, lang{en: "Invalid JSON data", zh_cn: "JSON 数据无效"})
	ErrorPersistence    = NewError(502, http.StatusInternalServerError, KindInternal, lang{en: "Failed to access history storage", zh_cn: "历史记录存储访问失败"})
	ErrorNotImplemented = NewError(503, http.StatusNotImplemented, KindNotImplemented, lang{en: "File encoding feature is not yet implemented", zh_cn: "文件编码功能尚未实现"})
)
