package sop

import "errors"

// ErrGenerationUnavailable 上游 AI 服务不可用（已耗尽重试）
var ErrGenerationUnavailable = errors.New("AI 生成服务暂时不可用")

// ErrMalformedGeneration 上游返回了无法解析的内容（不重试）
var ErrMalformedGeneration = errors.New("AI 返回内容格式不正确")
