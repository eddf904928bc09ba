// Package huggingface 提供 HuggingFace Inference API 供应商实现。
// 支持 HuggingFace Hub 上的模型进行摘要和命名实体识别。
package huggingface

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kart-io/docsum/pkg/llm"
	"github.com/kart-io/docsum/pkg/utils/httpclient"
	"github.com/kart-io/docsum/pkg/utils/json"
)

// ProviderName 是 HuggingFace 供应商的名称标识符
const ProviderName = "huggingface"

func init() {
	llm.RegisterProvider(ProviderName, NewProvider)
}

// Config HuggingFace 供应商配置。
type Config struct {
	// BaseURL API 基础地址。
	BaseURL string `json:"base_url" mapstructure:"base_url"`

	// APIKey HuggingFace API Token。
	APIKey string `json:"api_key" mapstructure:"api_key"`

	// SummaryModel 用于摘要的模型 ID。
	SummaryModel string `json:"summary_model" mapstructure:"summary_model"`

	// EntityModel 用于实体识别的模型 ID。
	EntityModel string `json:"entity_model" mapstructure:"entity_model"`

	// Timeout 请求超时时间。
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries 最大重试次数。
	MaxRetries int `json:"max_retries" mapstructure:"max_retries"`

	// WaitForModel 如果模型正在加载，是否等待。
	WaitForModel bool `json:"wait_for_model" mapstructure:"wait_for_model"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      "https://api-inference.huggingface.co",
		SummaryModel: "facebook/bart-large-cnn",
		EntityModel:  "dslim/bert-base-NER",
		Timeout:      120 * time.Second,
		MaxRetries:   3,
		WaitForModel: true,
	}
}

// Provider HuggingFace 供应商实现。
type Provider struct {
	config *Config
	client *httpclient.Client
}

// NewProvider 从配置 map 创建 HuggingFace 供应商。
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
	if v, ok := configMap["wait_for_model"].(bool); ok {
		cfg.WaitForModel = v
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("huggingface: api_key 是必需的")
	}

	return NewProviderWithConfig(cfg), nil
}

// NewProviderWithConfig 使用结构化配置创建 HuggingFace 供应商。
func NewProviderWithConfig(cfg *Config) *Provider {
	return &Provider{
		config: cfg,
		client: httpclient.NewClient(cfg.Timeout, cfg.MaxRetries),
	}
}

// Name 返回供应商名称。
func (p *Provider) Name() string {
	return ProviderName
}

// summaryRequest HuggingFace Summarization API 请求体。
type summaryRequest struct {
	Inputs     string          `json:"inputs"`
	Parameters *summaryParams  `json:"parameters,omitempty"`
	Options    *requestOptions `json:"options,omitempty"`
}

type summaryParams struct {
	MinLength int `json:"min_length,omitempty"`
	MaxLength int `json:"max_length,omitempty"`
}

type requestOptions struct {
	WaitForModel bool `json:"wait_for_model,omitempty"`
}

// summaryResponse HuggingFace Summarization API 响应体。
type summaryResponse struct {
	SummaryText string `json:"summary_text"`
}

// Summarize 为一段文本生成长度受限的摘要。
func (p *Provider) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	reqBody := summaryRequest{
		Inputs: text,
		Parameters: &summaryParams{
			MinLength: minLength,
			MaxLength: maxLength,
		},
	}
	if p.config.WaitForModel {
		reqBody.Options = &requestOptions{WaitForModel: true}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("序列化请求失败: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", p.config.BaseURL, p.config.SummaryModel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}
	p.setHeaders(req)

	var responses []summaryResponse
	if err := p.client.DoJSON(req, &responses); err != nil {
		return "", err
	}

	if len(responses) == 0 {
		return "", fmt.Errorf("未返回摘要内容")
	}

	return responses[0].SummaryText, nil
}

// entityRequest HuggingFace Token Classification API 请求体。
type entityRequest struct {
	Inputs  string          `json:"inputs"`
	Options *requestOptions `json:"options,omitempty"`
}

// entityResponse Token Classification API 返回的单个实体。
// aggregation 后 entity_group 字段携带实体类别。
type entityResponse struct {
	EntityGroup string  `json:"entity_group"`
	Word        string  `json:"word"`
	Score       float64 `json:"score"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
}

// ExtractEntities 从文本中抽取命名实体。
// HuggingFace 按出现位置返回实体，顺序原样保留。
func (p *Provider) ExtractEntities(ctx context.Context, text string) ([]llm.Entity, error) {
	reqBody := entityRequest{
		Inputs: text,
	}
	if p.config.WaitForModel {
		reqBody.Options = &requestOptions{WaitForModel: true}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("序列化请求失败: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", p.config.BaseURL, p.config.EntityModel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	p.setHeaders(req)

	var responses []entityResponse
	if err := p.client.DoJSON(req, &responses); err != nil {
		return nil, err
	}

	entities := make([]llm.Entity, 0, len(responses))
	for _, r := range responses {
		entities = append(entities, llm.Entity{
			Type: r.EntityGroup,
			Text: r.Word,
		})
	}

	return entities, nil
}

// setHeaders 设置请求头。
func (p *Provider) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
}
