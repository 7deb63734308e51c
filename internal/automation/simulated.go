package automation

import (
	"context"

	"github.com/google/uuid"
)

// SimulatedProvider 本地模拟的自动化平台
// 不依赖任何外部服务，默认配置下使用；工作流 ID 本地生成
type SimulatedProvider struct{}

// NewSimulatedProvider 创建模拟平台客户端
func NewSimulatedProvider() *SimulatedProvider {
	return &SimulatedProvider{}
}

// Name 提供商标识
func (p *SimulatedProvider) Name() string {
	return "simulated"
}

// CheckConnection 模拟平台始终可用
func (p *SimulatedProvider) CheckConnection(ctx context.Context) error {
	return nil
}

// CreateWorkflow 生成本地占位工作流 ID
func (p *SimulatedProvider) CreateWorkflow(ctx context.Context, name string, steps []string) (string, error) {
	return "sim-" + uuid.New().String(), nil
}
