package biz

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/kart-io/logger"

	"github.com/kart-io/docsum/pkg/llm"
	"github.com/kart-io/docsum/pkg/utils/errors"
)

// HierarchicalSummarizer 用两层归约把多个分块压缩为一条摘要。
//
// 单个分块时直接调用一次模型。多个分块时先按原始顺序逐块摘要，
// 把各块摘要用单个空格连接为中间文本，再对中间文本做最后一次
// 摘要。中间文本本身超出模型输入上限时不再二次分块，这是两层
// 设计的已知边界。
type HierarchicalSummarizer struct {
	provider  llm.SummaryProvider
	minLength int
	maxLength int
	timeout   time.Duration
}

// NewHierarchicalSummarizer 创建层级摘要器。
// minLength/maxLength 约束每次模型调用的输出长度，
// timeout 约束整个摘要阶段（所有模型调用合计）。
func NewHierarchicalSummarizer(provider llm.SummaryProvider, minLength, maxLength int, timeout time.Duration) *HierarchicalSummarizer {
	return &HierarchicalSummarizer{
		provider:  provider,
		minLength: minLength,
		maxLength: maxLength,
		timeout:   timeout,
	}
}

// Summarize 为有序分块序列生成最终摘要，并返回各块的中间摘要。
// 任何一次模型调用失败即整体失败，不保留部分结果。
// 超时以 ErrSummarizeTimeout 上报，与普通失败区分。
func (s *HierarchicalSummarizer) Summarize(ctx context.Context, chunks []string) (string, []string, error) {
	if len(chunks) == 0 {
		return "", nil, errors.ErrInvalidContent.WithMessage("no chunks to summarize")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if len(chunks) == 1 {
		summary, err := s.provider.Summarize(ctx, chunks[0], s.minLength, s.maxLength)
		if err != nil {
			return "", nil, s.wrapErr(ctx, err)
		}
		return summary, []string{summary}, nil
	}

	chunkSummaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		summary, err := s.provider.Summarize(ctx, chunk, s.minLength, s.maxLength)
		if err != nil {
			logger.Errorw("chunk summarization failed",
				"chunk_index", i,
				"chunk_count", len(chunks),
				"error", err.Error(),
			)
			return "", nil, s.wrapErr(ctx, err)
		}
		chunkSummaries = append(chunkSummaries, summary)
	}

	combined := strings.Join(chunkSummaries, " ")
	final, err := s.provider.Summarize(ctx, combined, s.minLength, s.maxLength)
	if err != nil {
		return "", nil, s.wrapErr(ctx, err)
	}

	return final, chunkSummaries, nil
}

// wrapErr 区分超时与普通失败。模型调用被阶段超时打断时，
// 底层错误通常包装了 context.DeadlineExceeded。
func (s *HierarchicalSummarizer) wrapErr(ctx context.Context, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.ErrSummarizeTimeout.WithCause(err)
	}
	return errors.ErrSummarizeFailed.WithCause(err)
}
