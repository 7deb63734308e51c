package automation

import (
	"context"
	"fmt"
	"time"

	"backend/pkg/httputil"
)

// N8NProvider n8n 平台客户端
// API Key 通过 X-N8N-API-KEY 请求头传递
type N8NProvider struct {
	client  *httputil.Client
	baseURL string
	apiKey  string
}

// NewN8NProvider 创建 n8n 客户端
func NewN8NProvider(baseURL, apiKey string, timeout time.Duration, maxRetries int) *N8NProvider {
	client := httputil.NewClient(
		httputil.WithTimeout(timeout),
		httputil.WithRetries(maxRetries),
		httputil.WithHeaders(map[string]string{
			"X-N8N-API-KEY": apiKey,
		}),
	)

	return &N8NProvider{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Name 提供商标识
func (p *N8NProvider) Name() string {
	return "n8n"
}

// CheckConnection 拉取工作流列表验证连通性和凭证
func (p *N8NProvider) CheckConnection(ctx context.Context) error {
	if p.apiKey == "" || p.baseURL == "" {
		return fmt.Errorf("%w: n8n 凭证未配置", ErrProviderUnavailable)
	}

	if err := p.client.GetJSON(ctx, p.baseURL+"/workflows", nil); err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	return nil
}

// n8nWorkflowRequest n8n 创建工作流请求体
type n8nWorkflowRequest struct {
	Name     string      `json:"name"`
	Nodes    []n8nNode   `json:"nodes"`
	Settings n8nSettings `json:"settings"`
	Active   bool        `json:"active"`
}

type n8nNode struct {
	Name       string                 `json:"name"`
	Type       string                 `json:"type"`
	Position   [2]int                 `json:"position"`
	Parameters map[string]interface{} `json:"parameters"`
}

type n8nSettings struct {
	ExecutionOrder string `json:"executionOrder"`
}

type n8nWorkflowResponse struct {
	ID string `json:"id"`
}

// CreateWorkflow 创建工作流，每个 SOP 步骤生成一个占位节点
func (p *N8NProvider) CreateWorkflow(ctx context.Context, name string, steps []string) (string, error) {
	nodes := make([]n8nNode, 0, len(steps)+1)
	nodes = append(nodes, n8nNode{
		Name:       "Start",
		Type:       "n8n-nodes-base.manualTrigger",
		Position:   [2]int{250, 300},
		Parameters: map[string]interface{}{},
	})
	for i, step := range steps {
		nodes = append(nodes, n8nNode{
			Name:     fmt.Sprintf("Step %d", i+1),
			Type:     "n8n-nodes-base.noOp",
			Position: [2]int{250 + (i+1)*200, 300},
			Parameters: map[string]interface{}{
				"notes": step,
			},
		})
	}

	req := n8nWorkflowRequest{
		Name:     name,
		Nodes:    nodes,
		Settings: n8nSettings{ExecutionOrder: "v1"},
		Active:   false,
	}

	var resp n8nWorkflowResponse
	if err := p.client.PostJSON(ctx, p.baseURL+"/workflows", req, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	return resp.ID, nil
}
