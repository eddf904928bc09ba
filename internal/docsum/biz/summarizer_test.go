package biz

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kart-io/docsum/pkg/utils/errors"
)

// mockSummaryProvider 模拟摘要供应商，记录每次调用的输入。
type mockSummaryProvider struct {
	inputs    []string
	responses map[string]string
	err       error
	delay     time.Duration
}

func (m *mockSummaryProvider) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(m.delay):
		}
	}
	if m.err != nil {
		return "", m.err
	}
	m.inputs = append(m.inputs, text)
	if resp, ok := m.responses[text]; ok {
		return resp, nil
	}
	return "summary of " + text, nil
}

func (m *mockSummaryProvider) Name() string { return "mock" }

// TestSummarizer_SingleChunk 测试单分块只调用模型一次，
// 其输出直接作为最终摘要。
func TestSummarizer_SingleChunk(t *testing.T) {
	provider := &mockSummaryProvider{}
	s := NewHierarchicalSummarizer(provider, 30, 150, time.Minute)

	final, chunkSummaries, err := s.Summarize(context.Background(), []string{"only chunk"})
	if err != nil {
		t.Fatalf("Summarize() 返回错误: %v", err)
	}

	if len(provider.inputs) != 1 {
		t.Fatalf("期望调用模型 1 次, 实际 %d 次", len(provider.inputs))
	}
	if final != "summary of only chunk" {
		t.Errorf("期望直接返回模型输出, 实际 %q", final)
	}
	if len(chunkSummaries) != 1 || chunkSummaries[0] != final {
		t.Errorf("单分块的中间摘要应等于最终摘要, 实际 %v", chunkSummaries)
	}
}

// TestSummarizer_MultiChunk 测试多分块两层归约。
// 3 个分块应触发 4 次模型调用：逐块 3 次加合并 1 次，
// 合并输入为各块摘要按原始顺序以单个空格连接。
func TestSummarizer_MultiChunk(t *testing.T) {
	provider := &mockSummaryProvider{
		responses: map[string]string{
			"chunk a": "sa",
			"chunk b": "sb",
			"chunk c": "sc",
			"sa sb sc": "final summary",
		},
	}
	s := NewHierarchicalSummarizer(provider, 30, 150, time.Minute)

	final, chunkSummaries, err := s.Summarize(context.Background(), []string{"chunk a", "chunk b", "chunk c"})
	if err != nil {
		t.Fatalf("Summarize() 返回错误: %v", err)
	}

	if len(provider.inputs) != 4 {
		t.Fatalf("期望调用模型 4 次, 实际 %d 次", len(provider.inputs))
	}
	if got := provider.inputs[3]; got != "sa sb sc" {
		t.Errorf("合并输入期望 %q, 实际 %q", "sa sb sc", got)
	}
	if final != "final summary" {
		t.Errorf("期望最终摘要 %q, 实际 %q", "final summary", final)
	}
	if strings.Join(chunkSummaries, " ") != "sa sb sc" {
		t.Errorf("中间摘要顺序被打乱: %v", chunkSummaries)
	}
}

// TestSummarizer_OrderPreserved 测试不同的分块顺序产生不同的
// 合并输入，摘要器不得悄悄重排。
func TestSummarizer_OrderPreserved(t *testing.T) {
	run := func(chunks []string) string {
		provider := &mockSummaryProvider{}
		s := NewHierarchicalSummarizer(provider, 30, 150, time.Minute)
		if _, _, err := s.Summarize(context.Background(), chunks); err != nil {
			t.Fatalf("Summarize() 返回错误: %v", err)
		}
		return provider.inputs[len(provider.inputs)-1]
	}

	forward := run([]string{"x", "y"})
	reversed := run([]string{"y", "x"})
	if forward == reversed {
		t.Errorf("颠倒分块顺序后合并输入不应相同: %q", forward)
	}
}

// TestSummarizer_Timeout 测试超时以 ErrSummarizeTimeout 上报，
// 与普通失败可区分。
func TestSummarizer_Timeout(t *testing.T) {
	provider := &mockSummaryProvider{delay: 200 * time.Millisecond}
	s := NewHierarchicalSummarizer(provider, 30, 150, 20*time.Millisecond)

	_, _, err := s.Summarize(context.Background(), []string{"slow chunk"})
	if err == nil {
		t.Fatal("期望超时错误, 实际成功")
	}

	var e *errors.Errno
	if !stderrors.As(err, &e) || e.Code != errors.ErrSummarizeTimeout.Code {
		t.Errorf("期望 ErrSummarizeTimeout, 实际 %v", err)
	}
}

// TestSummarizer_FailureAborts 测试任一分块失败即整体失败，
// 不保留部分结果。
func TestSummarizer_FailureAborts(t *testing.T) {
	provider := &mockSummaryProvider{err: fmt.Errorf("model unavailable")}
	s := NewHierarchicalSummarizer(provider, 30, 150, time.Minute)

	final, chunkSummaries, err := s.Summarize(context.Background(), []string{"a", "b"})
	if err == nil {
		t.Fatal("期望错误, 实际成功")
	}

	var e *errors.Errno
	if !stderrors.As(err, &e) || e.Code != errors.ErrSummarizeFailed.Code {
		t.Errorf("期望 ErrSummarizeFailed, 实际 %v", err)
	}
	if final != "" || chunkSummaries != nil {
		t.Errorf("失败时不应返回部分结果: final=%q chunks=%v", final, chunkSummaries)
	}
}

// TestSummarizer_EmptyChunks 测试空分块序列直接拒绝。
func TestSummarizer_EmptyChunks(t *testing.T) {
	s := NewHierarchicalSummarizer(&mockSummaryProvider{}, 30, 150, time.Minute)

	if _, _, err := s.Summarize(context.Background(), nil); err == nil {
		t.Fatal("期望错误, 实际成功")
	}
}
