// Package ocr 提供扫描文档的文本提取能力。
// 默认实现调用外部 OCR HTTP 服务（如 tesseract-server）。
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/kart-io/docsum/pkg/utils/httpclient"
	"github.com/kart-io/docsum/pkg/utils/json"
)

// TextExtractor 从原始文档字节中提取文本。
type TextExtractor interface {
	// Extract 识别 data 中的文字并返回原始提取文本。
	Extract(ctx context.Context, data []byte) (string, error)
}

// Config OCR HTTP 客户端配置。
type Config struct {
	// Endpoint OCR 服务地址。
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`

	// APIKey 服务密钥，可选。
	APIKey string `json:"api_key" mapstructure:"api_key"`

	// Language 识别语言提示。
	Language string `json:"language" mapstructure:"language"`

	// Timeout 单次请求超时时间。
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries 最大重试次数。
	MaxRetries int `json:"max_retries" mapstructure:"max_retries"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() *Config {
	return &Config{
		Endpoint:   "http://localhost:8884/tesseract",
		Language:   "eng",
		Timeout:    60 * time.Second,
		MaxRetries: 3,
	}
}

// HTTPExtractor 通过 HTTP OCR 服务提取文本。
type HTTPExtractor struct {
	config *Config
	client *httpclient.Client
}

// NewHTTPExtractor 创建 HTTP OCR 客户端。
func NewHTTPExtractor(cfg *Config) *HTTPExtractor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &HTTPExtractor{
		config: cfg,
		client: httpclient.NewClient(cfg.Timeout, cfg.MaxRetries),
	}
}

// ocrResponse OCR 服务响应体（tesseract-server 风格）。
type ocrResponse struct {
	Data struct {
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
	} `json:"data"`
}

// Extract 将文档字节以 multipart 形式提交给 OCR 服务。
func (e *HTTPExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("ocr: 文档内容为空")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", "document")
	if err != nil {
		return "", fmt.Errorf("构造 multipart 请求失败: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("写入文档内容失败: %w", err)
	}

	opts := map[string]any{"languages": []string{e.config.Language}}
	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return "", fmt.Errorf("序列化 OCR 选项失败: %w", err)
	}
	if err := w.WriteField("options", string(optsJSON)); err != nil {
		return "", fmt.Errorf("写入 OCR 选项失败: %w", err)
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("关闭 multipart 请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.config.Endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if e.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.config.APIKey)
	}

	resp, err := e.client.DoRequest(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("OCR 请求失败，状态码 %d: %s", resp.StatusCode, string(bodyBytes))
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取响应失败: %w", err)
	}

	var ocrResp ocrResponse
	if err := json.Unmarshal(bodyBytes, &ocrResp); err != nil {
		return "", fmt.Errorf("解析响应失败: %w", err)
	}

	return ocrResp.Data.Stdout, nil
}
