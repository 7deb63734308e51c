package common

// ============================================================================
// 业务状态码
// ============================================================================

const (
	// CodeSuccess 成功
	CodeSuccess = 0
	// CodeInvalidRequest 请求参数错误
	CodeInvalidRequest = 40000
	// CodeUnauthorized 未认证
	CodeUnauthorized = 40100
	// CodeForbidden 无权限
	CodeForbidden = 40300
	// CodeNotFound 资源不存在
	CodeNotFound = 40400
	// CodeConflict 资源冲突（如邮箱已注册）
	CodeConflict = 40900
	// CodeInternalError 服务器内部错误
	CodeInternalError = 50000
	// CodeUpstreamError 上游服务错误（AI 生成、自动化平台）
	CodeUpstreamError = 50200
)

// ============================================================================
// 通用响应类型
// ============================================================================

// APIResponse 统一API响应格式
type APIResponse struct {
	Success bool   `json:"success"`           // 是否成功
	Data    any    `json:"data,omitempty"`    // 响应数据
	Message string `json:"message,omitempty"` // 提示信息
	Code    int    `json:"code"`              // 业务状态码
}

// SuccessResponse 成功响应
func SuccessResponse(data any) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
		Code:    CodeSuccess,
	}
}

// SuccessMessageResponse 成功响应（带消息）
func SuccessMessageResponse(message string, data any) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
		Message: message,
		Code:    CodeSuccess,
	}
}

// ErrorResponse 错误响应
func ErrorResponse(code int, message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
		Code:    code,
	}
}
