// Package ocr provides OCR service configuration options.
package ocr

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
)

// Options 定义 OCR 文本提取服务配置。
type Options struct {
	// Endpoint OCR 服务地址。
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`

	// APIKey 服务密钥。优先使用环境变量 OCR_API_KEY。
	APIKey string `json:"-" mapstructure:"api-key"`

	// Language 识别语言提示（如 eng, chi_sim）。
	Language string `json:"language" mapstructure:"language"`

	// Timeout 单次提取超时时间。
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries 最大重试次数。
	MaxRetries int `json:"max-retries" mapstructure:"max-retries"`
}

// NewOptions 创建默认 OCR 配置。
func NewOptions() *Options {
	return &Options{
		Endpoint:   "http://localhost:8884/tesseract",
		Language:   "eng",
		Timeout:    60 * time.Second,
		MaxRetries: 3,
	}
}

// AddFlags adds flags for OCR options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Endpoint, "ocr.endpoint", o.Endpoint, "OCR service endpoint URL")
	fs.StringVar(&o.APIKey, "ocr.api-key", o.APIKey, "OCR service API key (DEPRECATED: use OCR_API_KEY env var instead)")
	fs.StringVar(&o.Language, "ocr.language", o.Language, "OCR recognition language hint")
	fs.DurationVar(&o.Timeout, "ocr.timeout", o.Timeout, "OCR extraction timeout")
	fs.IntVar(&o.MaxRetries, "ocr.max-retries", o.MaxRetries, "Maximum number of OCR request retries")
}

// Complete reads sensitive values from the environment.
func (o *Options) Complete() error {
	if o.APIKey == "" {
		o.APIKey = os.Getenv("OCR_API_KEY")
	}
	return nil
}

// Validate validates the OCR options.
func (o *Options) Validate() error {
	if o.Endpoint == "" {
		return fmt.Errorf("ocr.endpoint is required")
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("ocr.timeout must be positive")
	}
	return nil
}
