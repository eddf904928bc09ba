// Package biz 实现文档摘要服务的业务逻辑：
// 文本清洗、token 分块、层级摘要以及端到端流水线编排。
package biz

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/kart-io/docsum/internal/docsum/store"
	"github.com/kart-io/docsum/internal/model"
	"github.com/kart-io/docsum/pkg/id"
	"github.com/kart-io/docsum/pkg/utils/errors"
)

// nowFunc 便于测试中固定时间。
var nowFunc = time.Now

// PurgeResult 汇报批量清理在两个集合各自删除的记录数。
// 两个集合的删除不在同一事务内，可能出现部分删除。
type PurgeResult struct {
	DocumentsDeleted int64 `json:"documents_deleted"`
	SummariesDeleted int64 `json:"summaries_deleted"`
}

// Service 是对外暴露的业务门面。提交走完整流水线，
// 查询直接读两个存储，不触发流水线。
type Service struct {
	documents store.DocumentStore
	summaries store.SummaryStore
	pipeline  *Pipeline
	idGen     *id.UUIDGenerator
}

// NewService 创建业务门面。
func NewService(factory store.Factory, pipeline *Pipeline) *Service {
	return &Service{
		documents: factory.Documents(),
		summaries: factory.Summaries(),
		pipeline:  pipeline,
		idGen:     id.NewUUIDGenerator(),
	}
}

// SubmitDocument 入库文档并同步执行完整流水线。
// 文件 ID 在入库时分配，永不复用。重复提交相同内容不做去重，
// 每次提交都会追加新的文档与摘要记录。
func (s *Service) SubmitDocument(ctx context.Context, content []byte, title string) (*PipelineResult, error) {
	if len(content) == 0 {
		return nil, errors.ErrInvalidContent.WithMessage("uploaded file is empty")
	}
	if title == "" {
		title = model.DefaultTitle
	}

	doc := &model.Document{
		FileID:    s.idGen.Generate(),
		Title:     title,
		Content:   content,
		CreatedAt: nowFunc(),
	}

	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, errors.ErrStorageFailed.WithCause(err)
	}

	return s.pipeline.Run(ctx, doc)
}

// GetDocument 按文件 ID 取原始文档。
func (s *Service) GetDocument(ctx context.Context, fileID string) (*model.Document, error) {
	doc, err := s.documents.Get(ctx, fileID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.ErrDocumentNotFound
		}
		return nil, errors.ErrStorageFailed.WithCause(err)
	}
	return doc, nil
}

// GetSummary 按文件 ID 取摘要记录。存在多条时返回最早的一条。
func (s *Service) GetSummary(ctx context.Context, fileID string) (*model.SummaryRecord, error) {
	rec, err := s.summaries.Get(ctx, fileID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.ErrSummaryNotFound
		}
		return nil, errors.ErrStorageFailed.WithCause(err)
	}
	return rec, nil
}

// ListSummaries 列出全部摘要的 {file_id, summary} 投影。
func (s *Service) ListSummaries(ctx context.Context) ([]model.SummaryListItem, error) {
	items, err := s.summaries.ListAll(ctx)
	if err != nil {
		return nil, errors.ErrStorageFailed.WithCause(err)
	}
	return items, nil
}

// PurgeAll 删除两个集合的全部记录。先删文档后删摘要，
// 非事务操作，摘要删除失败时文档已被删除。
func (s *Service) PurgeAll(ctx context.Context) (*PurgeResult, error) {
	docs, err := s.documents.PurgeAll(ctx)
	if err != nil {
		return nil, errors.ErrPurgeFailed.WithCause(err)
	}

	sums, err := s.summaries.PurgeAll(ctx)
	if err != nil {
		return nil, errors.ErrPurgeFailed.WithCause(err)
	}

	return &PurgeResult{
		DocumentsDeleted: docs,
		SummariesDeleted: sums,
	}, nil
}
