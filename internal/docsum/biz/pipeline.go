package biz

import (
	"context"

	"github.com/kart-io/logger"

	"github.com/kart-io/docsum/internal/docsum/store"
	"github.com/kart-io/docsum/internal/model"
	"github.com/kart-io/docsum/pkg/llm"
	"github.com/kart-io/docsum/pkg/ocr"
	"github.com/kart-io/docsum/pkg/utils/errors"
)

// Stage 表示流水线运行所处的阶段。
type Stage string

const (
	StageSubmitted          Stage = "submitted"
	StageExtracting         Stage = "extracting"
	StageCleaning           Stage = "cleaning"
	StageChunking           Stage = "chunking"
	StageSummarizing        Stage = "summarizing"
	StageExtractingEntities Stage = "extracting_entities"
	StagePersisting         Stage = "persisting"
	StageCompleted          Stage = "completed"
	StageFailed             Stage = "failed"
)

// PipelineRun 携带一次运行的中间状态，仅存活于单次编排调用内，
// 不落库。失败时所有中间产物随之丢弃。
type PipelineRun struct {
	RunID  string
	FileID string
	Stage  Stage

	RawText        string
	CleanText      string
	Chunks         []string
	ChunkSummaries []string
	Summary        string
	Entities       []model.Entity
}

// PipelineResult 是一次成功运行的产出。
type PipelineResult struct {
	FileID   string         `json:"file_id"`
	Title    string         `json:"title"`
	Summary  string         `json:"summary"`
	Entities []model.Entity `json:"entities"`
}

// Pipeline 驱动单个文档的端到端处理：
// 提取 → 清洗 → 分块 → 摘要 → 实体识别 → 持久化。
// 各阶段严格串行，任一阶段失败立即终止，不回滚已提交文档。
// 同一文档跑两次会完整执行两遍并追加两条摘要记录。
type Pipeline struct {
	extractor  ocr.TextExtractor
	chunker    *Chunker
	summarizer *HierarchicalSummarizer
	entities   llm.EntityProvider
	summaries  store.SummaryStore
	runID      func() string
}

// NewPipeline 组装流水线。runID 生成器为 nil 时运行不带追踪 ID。
func NewPipeline(
	extractor ocr.TextExtractor,
	chunker *Chunker,
	summarizer *HierarchicalSummarizer,
	entities llm.EntityProvider,
	summaries store.SummaryStore,
	runID func() string,
) *Pipeline {
	if runID == nil {
		runID = func() string { return "" }
	}
	return &Pipeline{
		extractor:  extractor,
		chunker:    chunker,
		summarizer: summarizer,
		entities:   entities,
		summaries:  summaries,
		runID:      runID,
	}
}

// Run 对一份已入库文档执行完整流水线。
// 成功时恰好写入一条摘要记录并返回组装结果；
// 失败时返回携带阶段信息的错误，已提交的文档保持原样。
func (p *Pipeline) Run(ctx context.Context, doc *model.Document) (*PipelineResult, error) {
	run := &PipelineRun{
		RunID:  p.runID(),
		FileID: doc.FileID,
		Stage:  StageSubmitted,
	}

	logger.Infow("pipeline run started",
		"run_id", run.RunID,
		"file_id", run.FileID,
		"content_bytes", len(doc.Content),
	)

	// 1. 提取
	run.Stage = StageExtracting
	rawText, err := p.extractor.Extract(ctx, doc.Content)
	if err != nil {
		return nil, p.fail(run, errors.ErrExtractionFailed.WithCause(err))
	}
	run.RawText = rawText

	// 2. 清洗
	run.Stage = StageCleaning
	run.CleanText = NormalizeText(run.RawText)
	if run.CleanText == "" {
		return nil, p.fail(run, errors.ErrInvalidContent.WithMessage("document yielded no text"))
	}

	// 3. 分块
	run.Stage = StageChunking
	run.Chunks = p.chunker.Chunk(run.CleanText)
	if len(run.Chunks) == 0 {
		return nil, p.fail(run, errors.ErrInvalidContent.WithMessage("document yielded no chunks"))
	}

	// 4. 摘要
	run.Stage = StageSummarizing
	summary, chunkSummaries, err := p.summarizer.Summarize(ctx, run.Chunks)
	if err != nil {
		return nil, p.fail(run, err)
	}
	run.Summary = summary
	run.ChunkSummaries = chunkSummaries

	// 5. 实体识别，仅作用于最终摘要文本
	run.Stage = StageExtractingEntities
	rawEntities, err := p.entities.ExtractEntities(ctx, run.Summary)
	if err != nil {
		return nil, p.fail(run, errors.ErrEntityExtractFailed.WithCause(err))
	}
	run.Entities = convertEntities(rawEntities)

	// 6. 持久化
	run.Stage = StagePersisting
	rec := &model.SummaryRecord{
		FileID:    run.FileID,
		Summary:   run.Summary,
		Entities:  run.Entities,
		CreatedAt: nowFunc(),
	}
	if err := p.summaries.Create(ctx, rec); err != nil {
		return nil, p.fail(run, errors.ErrStorageFailed.WithCause(err))
	}

	run.Stage = StageCompleted
	logger.Infow("pipeline run completed",
		"run_id", run.RunID,
		"file_id", run.FileID,
		"chunks", len(run.Chunks),
		"entities", len(run.Entities),
	)

	return &PipelineResult{
		FileID:   run.FileID,
		Title:    doc.Title,
		Summary:  run.Summary,
		Entities: run.Entities,
	}, nil
}

// fail 记录失败阶段并保持原错误不变。
func (p *Pipeline) fail(run *PipelineRun, err error) error {
	failedAt := run.Stage
	run.Stage = StageFailed

	logger.Errorw("pipeline run failed",
		"run_id", run.RunID,
		"file_id", run.FileID,
		"stage", string(failedAt),
		"error", err.Error(),
	)
	return err
}

// convertEntities 把供应商实体映射为存储模型，保持原始顺序，
// 不去重不排序。
func convertEntities(in []llm.Entity) []model.Entity {
	out := make([]model.Entity, 0, len(in))
	for _, e := range in {
		out = append(out, model.Entity{Type: e.Type, Text: e.Text})
	}
	return out
}
