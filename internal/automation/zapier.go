package automation

import (
	"context"
	"fmt"
	"time"

	"backend/pkg/httputil"
)

// ZapierProvider Zapier 平台客户端，Bearer Token 认证
type ZapierProvider struct {
	client  *httputil.Client
	baseURL string
	apiKey  string
}

// NewZapierProvider 创建 Zapier 客户端
func NewZapierProvider(baseURL, apiKey string, timeout time.Duration, maxRetries int) *ZapierProvider {
	client := httputil.NewClient(
		httputil.WithTimeout(timeout),
		httputil.WithRetries(maxRetries),
		httputil.WithHeaders(map[string]string{
			"Authorization": "Bearer " + apiKey,
		}),
	)

	return &ZapierProvider{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Name 提供商标识
func (p *ZapierProvider) Name() string {
	return "zapier"
}

// CheckConnection 访问 /exposed 验证连通性和凭证
func (p *ZapierProvider) CheckConnection(ctx context.Context) error {
	if p.apiKey == "" || p.baseURL == "" {
		return fmt.Errorf("%w: Zapier 凭证未配置", ErrProviderUnavailable)
	}

	if err := p.client.GetJSON(ctx, p.baseURL+"/exposed", nil); err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	return nil
}

// zapierCreateRequest Zapier 创建 Zap 请求体
type zapierCreateRequest struct {
	Title string   `json:"title"`
	Steps []string `json:"steps"`
}

type zapierCreateResponse struct {
	ID string `json:"id"`
}

// CreateWorkflow 创建 Zap，返回其 ID 作为外部工作流标识
func (p *ZapierProvider) CreateWorkflow(ctx context.Context, name string, steps []string) (string, error) {
	req := zapierCreateRequest{
		Title: name,
		Steps: steps,
	}

	var resp zapierCreateResponse
	if err := p.client.PostJSON(ctx, p.baseURL+"/zaps/create", req, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	return resp.ID, nil
}
