// Package llm provides model provider configuration options.
package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
)

// Options 定义模型供应商配置。同一供应商同时承担摘要与实体识别，
// 两个任务使用各自的模型名。
type Options struct {
	// Provider 供应商名称（huggingface, openai）。
	Provider string `json:"provider" mapstructure:"provider"`

	// BaseURL API 基础地址。
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey API 密钥。优先使用环境变量 LLM_API_KEY。
	APIKey string `json:"-" mapstructure:"api-key"`

	// SummaryModel 摘要模型名称。
	SummaryModel string `json:"summary-model" mapstructure:"summary-model"`

	// EntityModel 实体识别模型名称。
	EntityModel string `json:"entity-model" mapstructure:"entity-model"`

	// Timeout 单次请求超时时间。
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries 最大重试次数。
	MaxRetries int `json:"max-retries" mapstructure:"max-retries"`

	// WaitForModel 模型冷启动时是否等待加载完成（Hugging Face 专用）。
	WaitForModel bool `json:"wait-for-model" mapstructure:"wait-for-model"`
}

// NewOptions 创建默认模型供应商配置。
func NewOptions() *Options {
	return &Options{
		Provider:     "huggingface",
		BaseURL:      "https://api-inference.huggingface.co",
		SummaryModel: "facebook/bart-large-cnn",
		EntityModel:  "dslim/bert-base-NER",
		Timeout:      120 * time.Second,
		MaxRetries:   3,
		WaitForModel: true,
	}
}

// ToConfigMap 转换为配置 map，用于供应商工厂。
func (o *Options) ToConfigMap() map[string]any {
	return map[string]any{
		"base_url":       o.BaseURL,
		"api_key":        o.APIKey,
		"summary_model":  o.SummaryModel,
		"entity_model":   o.EntityModel,
		"timeout":        o.Timeout,
		"max_retries":    o.MaxRetries,
		"wait_for_model": o.WaitForModel,
	}
}

// AddFlags adds flags for model provider options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Provider, "llm.provider", o.Provider, "Model provider (huggingface, openai)")
	fs.StringVar(&o.BaseURL, "llm.base-url", o.BaseURL, "Model API base URL")
	fs.StringVar(&o.APIKey, "llm.api-key", o.APIKey, "Model API key (DEPRECATED: use LLM_API_KEY env var instead)")
	fs.StringVar(&o.SummaryModel, "llm.summary-model", o.SummaryModel, "Summarization model name")
	fs.StringVar(&o.EntityModel, "llm.entity-model", o.EntityModel, "Named entity recognition model name")
	fs.DurationVar(&o.Timeout, "llm.timeout", o.Timeout, "Model request timeout")
	fs.IntVar(&o.MaxRetries, "llm.max-retries", o.MaxRetries, "Maximum number of request retries")
	fs.BoolVar(&o.WaitForModel, "llm.wait-for-model", o.WaitForModel, "Wait for cold models to load (Hugging Face only)")
}

// Complete reads sensitive values from the environment.
func (o *Options) Complete() error {
	if o.APIKey == "" {
		o.APIKey = os.Getenv("LLM_API_KEY")
	}
	return nil
}

// Validate validates the model provider options.
func (o *Options) Validate() error {
	if o.Provider == "" {
		return fmt.Errorf("llm.provider is required")
	}
	if o.SummaryModel == "" {
		return fmt.Errorf("llm.summary-model is required")
	}
	if o.EntityModel == "" {
		return fmt.Errorf("llm.entity-model is required")
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive")
	}
	return nil
}
