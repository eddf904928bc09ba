// Package openai 提供 OpenAI Chat Completions 供应商实现。
// 摘要与实体识别均通过对话补全完成，实体结果要求模型输出 JSON。
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kart-io/docsum/pkg/llm"
	"github.com/kart-io/docsum/pkg/utils/json"
)

// ProviderName 是 OpenAI 供应商的名称标识符
const ProviderName = "openai"

func init() {
	llm.RegisterProvider(ProviderName, NewProvider)
}

// Config OpenAI 供应商配置。
type Config struct {
	// BaseURL API 基础地址，留空使用官方地址。
	BaseURL string `json:"base_url" mapstructure:"base_url"`

	// APIKey OpenAI API Key。
	APIKey string `json:"api_key" mapstructure:"api_key"`

	// SummaryModel 用于摘要的模型。
	SummaryModel string `json:"summary_model" mapstructure:"summary_model"`

	// EntityModel 用于实体识别的模型。
	EntityModel string `json:"entity_model" mapstructure:"entity_model"`

	// Timeout 请求超时时间。
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries 最大重试次数。
	MaxRetries int `json:"max_retries" mapstructure:"max_retries"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() *Config {
	return &Config{
		SummaryModel: "gpt-4o-mini",
		EntityModel:  "gpt-4o-mini",
		Timeout:      120 * time.Second,
		MaxRetries:   3,
	}
}

// Provider OpenAI 供应商实现。
type Provider struct {
	config *Config
	client *goopenai.Client
}

// NewProvider 从配置 map 创建 OpenAI 供应商。
func NewProvider(configMap map[string]any) (llm.Provider, error) {
	cfg := DefaultConfig()

	if v, ok := configMap["base_url"].(string); ok && v != "" {
		cfg.BaseURL = v
	}
	if v, ok := configMap["api_key"].(string); ok && v != "" {
		cfg.APIKey = v
	}
	if v, ok := configMap["summary_model"].(string); ok && v != "" {
		cfg.SummaryModel = v
	}
	if v, ok := configMap["entity_model"].(string); ok && v != "" {
		cfg.EntityModel = v
	}
	if v, ok := configMap["timeout"].(time.Duration); ok && v > 0 {
		cfg.Timeout = v
	}
	if v, ok := configMap["max_retries"].(int); ok && v > 0 {
		cfg.MaxRetries = v
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api_key 是必需的")
	}

	return NewProviderWithConfig(cfg), nil
}

// NewProviderWithConfig 使用结构化配置创建 OpenAI 供应商。
func NewProviderWithConfig(cfg *Config) *Provider {
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Provider{
		config: cfg,
		client: goopenai.NewClientWithConfig(clientCfg),
	}
}

// Name 返回供应商名称。
func (p *Provider) Name() string {
	return ProviderName
}

// Summarize 为一段文本生成长度受限的摘要。
func (p *Provider) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	systemPrompt := fmt.Sprintf(
		"You are a summarization assistant. Summarize the user's text in between %d and %d tokens. Return only the summary.",
		minLength, maxLength)

	resp, err := p.createChatCompletion(ctx, p.config.SummaryModel, systemPrompt, text)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(resp), nil
}

// entityResult 实体抽取的 JSON 响应结构。
type entityResult struct {
	Entities []llm.Entity `json:"entities"`
}

// ExtractEntities 从文本中抽取命名实体。
// 模型被要求按出现顺序返回实体 JSON 数组。
func (p *Provider) ExtractEntities(ctx context.Context, text string) ([]llm.Entity, error) {
	systemPrompt := `You are a named entity recognition assistant. Extract named entities from the user's text in order of appearance. Respond with ONLY a JSON object: {"entities": [{"type": "<PER|ORG|LOC|MISC>", "text": "<entity text>"}]}. No additional text.`

	content, err := p.createChatCompletion(ctx, p.config.EntityModel, systemPrompt, text)
	if err != nil {
		return nil, err
	}

	var result entityResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("解析实体响应失败: %w", err)
	}

	return result.Entities, nil
}

func (p *Provider) createChatCompletion(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Second * time.Duration(attempt)):
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
		resp, err := p.client.CreateChatCompletion(reqCtx, goopenai.ChatCompletionRequest{
			Model: model,
			Messages: []goopenai.ChatCompletionMessage{
				{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: goopenai.ChatMessageRoleUser, Content: userPrompt},
			},
			Temperature: 0.3,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			continue
		}

		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("chat completion failed after %d attempts: %w", p.config.MaxRetries+1, lastErr)
}
