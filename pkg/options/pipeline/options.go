// Package pipeline provides summarization pipeline configuration options.
package pipeline

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Options 定义摘要流水线的分块与长度参数。
type Options struct {
	// MaxTokens 单个分块允许的最大 token 数。
	MaxTokens int `json:"max-tokens" mapstructure:"max-tokens"`

	// MinLength 摘要的最小长度（token 数）。
	MinLength int `json:"min-length" mapstructure:"min-length"`

	// MaxLength 摘要的最大长度（token 数）。
	MaxLength int `json:"max-length" mapstructure:"max-length"`

	// SummarizeTimeout 整个摘要阶段的超时时间。
	SummarizeTimeout time.Duration `json:"summarize-timeout" mapstructure:"summarize-timeout"`
}

// NewOptions 创建默认流水线配置。
func NewOptions() *Options {
	return &Options{
		MaxTokens:        512,
		MinLength:        30,
		MaxLength:        150,
		SummarizeTimeout: 120 * time.Second,
	}
}

// AddFlags adds flags for pipeline options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.MaxTokens, "pipeline.max-tokens", o.MaxTokens, "Maximum tokens per chunk")
	fs.IntVar(&o.MinLength, "pipeline.min-length", o.MinLength, "Minimum summary length in tokens")
	fs.IntVar(&o.MaxLength, "pipeline.max-length", o.MaxLength, "Maximum summary length in tokens")
	fs.DurationVar(&o.SummarizeTimeout, "pipeline.summarize-timeout", o.SummarizeTimeout, "Timeout for the summarization stage")
}

// Complete completes the pipeline options with defaults.
func (o *Options) Complete() error {
	return nil
}

// Validate validates the pipeline options.
func (o *Options) Validate() error {
	if o.MaxTokens <= 0 {
		return fmt.Errorf("pipeline.max-tokens must be positive")
	}
	if o.MinLength <= 0 {
		return fmt.Errorf("pipeline.min-length must be positive")
	}
	if o.MaxLength < o.MinLength {
		return fmt.Errorf("pipeline.max-length must be >= pipeline.min-length")
	}
	if o.SummarizeTimeout <= 0 {
		return fmt.Errorf("pipeline.summarize-timeout must be positive")
	}
	return nil
}
