package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/config"
)

// ErrProviderUnavailable 自动化平台不可达或凭证缺失
var ErrProviderUnavailable = errors.New("自动化平台不可用")

// Provider 自动化平台能力接口
// 实现有 n8n、Zapier 和本地模拟，按配置选择
type Provider interface {
	// Name 提供商标识
	Name() string
	// CheckConnection 健康检查，平台不可达返回 ErrProviderUnavailable
	CheckConnection(ctx context.Context) error
	// CreateWorkflow 在平台上创建工作流，返回外部工作流 ID
	CreateWorkflow(ctx context.Context, name string, steps []string) (string, error)
}

// NewProvider 根据配置创建自动化平台客户端
func NewProvider(cfg *config.AutomationConfig) (Provider, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	switch cfg.Provider {
	case "n8n":
		return NewN8NProvider(cfg.BaseURL, cfg.APIKey, timeout, cfg.MaxRetries), nil
	case "zapier":
		return NewZapierProvider(cfg.BaseURL, cfg.APIKey, timeout, cfg.MaxRetries), nil
	case "simulated", "":
		return NewSimulatedProvider(), nil
	default:
		return nil, fmt.Errorf("不支持的自动化平台类型: %s", cfg.Provider)
	}
}
