package sop

import (
	"context"
	"fmt"
	"strings"
	"time"

	"backend/internal/config"
	"backend/internal/logger"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// 生成请求的固定提示词：要求模型按 Title/Description/Steps 文本格式输出，
// 便于确定性解析
const systemPrompt = `You are an expert at creating detailed Standard Operating Procedures (SOPs).
Generate a comprehensive SOP with the following format:
Title: [A clear, concise title for the SOP]
Description: [A brief overview of what this SOP accomplishes]
Steps:
1. [First step]
2. [Second step]
etc.`

// maxBackoff 重试间隔上限
const maxBackoff = 10 * time.Second

// GeneratedSOP 生成结果（未持久化）
type GeneratedSOP struct {
	Title       string
	Description string
	Steps       []string
}

// completionClient 对话补全能力，便于测试注入
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Generator SOP 生成器
type Generator struct {
	client     completionClient
	model      string
	maxRetries int
}

// NewGenerator 创建 SOP 生成器
func NewGenerator(cfg *config.OpenAIConfig) *Generator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &Generator{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      cfg.Model,
		maxRetries: maxRetries,
	}
}

// NewGeneratorWithClient 使用给定客户端创建生成器（测试用）
func NewGeneratorWithClient(client completionClient, model string, maxRetries int) *Generator {
	return &Generator{client: client, model: model, maxRetries: maxRetries}
}

// Generate 根据任务描述生成 SOP
// 瞬时失败按指数退避重试（上限 maxRetries 次，间隔封顶 10 秒），
// 内容解析失败不重试，直接返回 ErrMalformedGeneration
func (g *Generator) Generate(ctx context.Context, task string) (*GeneratedSOP, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Create a detailed SOP for the following finance task: %s", task)},
		},
		Temperature: 0.7,
	}

	// 调用 API（带重试）
	var resp openai.ChatCompletionResponse
	var err error
	for i := 0; i <= g.maxRetries; i++ {
		resp, err = g.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}

		// 判断是否可重试
		if !isRetryableError(err) {
			break
		}

		// 指数退避
		if i < g.maxRetries {
			backoff := time.Duration(1<<uint(i)) * time.Second
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	if err != nil {
		logger.Error("AI 生成请求失败", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		logger.Error("AI 返回空响应")
		return nil, ErrMalformedGeneration
	}

	generated, err := ParseCompletion(resp.Choices[0].Message.Content)
	if err != nil {
		// 原始内容只进日志，不返回给客户端
		logger.Error("AI 返回内容解析失败",
			zap.Error(err),
			zap.String("content", resp.Choices[0].Message.Content),
		)
		return nil, err
	}

	return generated, nil
}

// isRetryableError 判断错误是否可重试
func isRetryableError(err error) bool {
	// 简化判断：网络错误和服务器错误可重试
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "connection") ||
		strings.Contains(errMsg, "rate limit") ||
		strings.Contains(errMsg, "429") ||
		strings.Contains(errMsg, "500") ||
		strings.Contains(errMsg, "502") ||
		strings.Contains(errMsg, "503") ||
		strings.Contains(errMsg, "504")
}
