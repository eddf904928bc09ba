// Package llm 提供统一的模型供应商抽象层。
// 摘要和实体识别可以使用不同供应商的模型。
package llm

import (
	"context"
	"fmt"
	"sync"
)

// SummaryProvider 定义摘要供应商接口。
type SummaryProvider interface {
	// Summarize 为一段文本生成长度受限的摘要。
	// minLength 和 maxLength 以 token 数为单位。
	Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error)

	// Name 返回供应商名称。
	Name() string
}

// EntityProvider 定义命名实体识别供应商接口。
type EntityProvider interface {
	// ExtractEntities 从文本中抽取命名实体，保持出现顺序。
	ExtractEntities(ctx context.Context, text string) ([]Entity, error)

	// Name 返回供应商名称。
	Name() string
}

// Entity 表示一个命名实体。
type Entity struct {
	// Type 实体类别标签（如 PER, ORG, LOC）。
	Type string `json:"type" bson:"type"`

	// Text 实体在原文中的文本。
	Text string `json:"text" bson:"text"`
}

// Provider 同时支持摘要和实体识别的完整供应商。
type Provider interface {
	SummaryProvider
	EntityProvider
}

// ProviderFactory 供应商工厂函数类型。
type ProviderFactory func(config map[string]any) (Provider, error)

// SummaryProviderFactory 摘要供应商工厂函数类型。
type SummaryProviderFactory func(config map[string]any) (SummaryProvider, error)

// EntityProviderFactory 实体识别供应商工厂函数类型。
type EntityProviderFactory func(config map[string]any) (EntityProvider, error)

// registry 供应商注册表。
var registry = &providerRegistry{
	providers:        make(map[string]ProviderFactory),
	summaryProviders: make(map[string]SummaryProviderFactory),
	entityProviders:  make(map[string]EntityProviderFactory),
}

type providerRegistry struct {
	mu               sync.RWMutex
	providers        map[string]ProviderFactory
	summaryProviders map[string]SummaryProviderFactory
	entityProviders  map[string]EntityProviderFactory
}

// RegisterProvider 注册完整供应商工厂。
func RegisterProvider(name string, factory ProviderFactory) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.providers[name] = factory
}

// RegisterSummaryProvider 注册摘要供应商工厂。
func RegisterSummaryProvider(name string, factory SummaryProviderFactory) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.summaryProviders[name] = factory
}

// RegisterEntityProvider 注册实体识别供应商工厂。
func RegisterEntityProvider(name string, factory EntityProviderFactory) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.entityProviders[name] = factory
}

// NewProvider 根据名称创建完整供应商实例。
func NewProvider(name string, config map[string]any) (Provider, error) {
	registry.mu.RLock()
	factory, ok := registry.providers[name]
	registry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}

	return factory(config)
}

// NewSummaryProvider 根据名称创建摘要供应商实例。
// 优先查找专用摘要工厂，其次查找完整供应商工厂。
func NewSummaryProvider(name string, config map[string]any) (SummaryProvider, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	if factory, ok := registry.summaryProviders[name]; ok {
		return factory(config)
	}

	if factory, ok := registry.providers[name]; ok {
		return factory(config)
	}

	return nil, fmt.Errorf("unknown summary provider: %s", name)
}

// NewEntityProvider 根据名称创建实体识别供应商实例。
// 优先查找专用实体工厂，其次查找完整供应商工厂。
func NewEntityProvider(name string, config map[string]any) (EntityProvider, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	if factory, ok := registry.entityProviders[name]; ok {
		return factory(config)
	}

	if factory, ok := registry.providers[name]; ok {
		return factory(config)
	}

	return nil, fmt.Errorf("unknown entity provider: %s", name)
}

// ListProviders 列出所有已注册的供应商名称。
func ListProviders() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	seen := make(map[string]bool)
	var names []string

	for name := range registry.providers {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for name := range registry.summaryProviders {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for name := range registry.entityProviders {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	return names
}
