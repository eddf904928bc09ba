package biz

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/kart-io/docsum/internal/model"
	"github.com/kart-io/docsum/pkg/llm"
	"github.com/kart-io/docsum/pkg/utils/errors"
)

// mockExtractor 模拟 OCR 适配器。
type mockExtractor struct {
	text string
	err  error
}

func (m *mockExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// mockEntityProvider 模拟实体识别供应商。
type mockEntityProvider struct {
	entities []llm.Entity
	err      error
}

func (m *mockEntityProvider) ExtractEntities(ctx context.Context, text string) ([]llm.Entity, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entities, nil
}

func (m *mockEntityProvider) Name() string { return "mock" }

// memSummaryStore 内存摘要存储，记录写入次数。
type memSummaryStore struct {
	records []*model.SummaryRecord
	err     error
}

func (s *memSummaryStore) Create(ctx context.Context, rec *model.SummaryRecord) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *memSummaryStore) Get(ctx context.Context, fileID string) (*model.SummaryRecord, error) {
	for _, rec := range s.records {
		if rec.FileID == fileID {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (s *memSummaryStore) ListAll(ctx context.Context) ([]model.SummaryListItem, error) {
	items := make([]model.SummaryListItem, 0, len(s.records))
	for _, rec := range s.records {
		items = append(items, model.SummaryListItem{FileID: rec.FileID, Summary: rec.Summary})
	}
	return items, nil
}

func (s *memSummaryStore) PurgeAll(ctx context.Context) (int64, error) {
	n := int64(len(s.records))
	s.records = nil
	return n, nil
}

func newTestPipeline(extractor *mockExtractor, summaries *memSummaryStore, entities *mockEntityProvider, summaryProvider llm.SummaryProvider) *Pipeline {
	chunker := NewChunker(nil, 512)
	summarizer := NewHierarchicalSummarizer(summaryProvider, 30, 150, time.Minute)
	return NewPipeline(extractor, chunker, summarizer, entities, summaries, nil)
}

// TestPipeline_Completed 测试完整成功路径：恰好写入一条摘要记录，
// 返回组装结果。
func TestPipeline_Completed(t *testing.T) {
	extractor := &mockExtractor{text: "raw\n\ntext from ocr"}
	summaries := &memSummaryStore{}
	entities := &mockEntityProvider{entities: []llm.Entity{
		{Type: "ORG", Text: "Acme"},
		{Type: "PER", Text: "Smith"},
	}}
	p := newTestPipeline(extractor, summaries, entities, &mockSummaryProvider{})

	doc := &model.Document{FileID: "f1", Title: "report", Content: []byte("bytes")}
	result, err := p.Run(context.Background(), doc)
	if err != nil {
		t.Fatalf("Run() 返回错误: %v", err)
	}

	if result.FileID != "f1" || result.Title != "report" {
		t.Errorf("结果字段不符: %+v", result)
	}
	if result.Summary == "" {
		t.Error("期望非空摘要")
	}
	if len(summaries.records) != 1 {
		t.Fatalf("期望写入 1 条摘要记录, 实际 %d", len(summaries.records))
	}
	if summaries.records[0].FileID != "f1" {
		t.Errorf("记录 file_id 不符: %q", summaries.records[0].FileID)
	}
}

// TestPipeline_EntityOrderPreserved 测试实体顺序原样保留，
// 不去重不排序。
func TestPipeline_EntityOrderPreserved(t *testing.T) {
	raw := []llm.Entity{
		{Type: "LOC", Text: "Paris"},
		{Type: "PER", Text: "Ada"},
		{Type: "LOC", Text: "Paris"},
	}
	summaries := &memSummaryStore{}
	p := newTestPipeline(&mockExtractor{text: "some text"}, summaries, &mockEntityProvider{entities: raw}, &mockSummaryProvider{})

	result, err := p.Run(context.Background(), &model.Document{FileID: "f1", Content: []byte("x")})
	if err != nil {
		t.Fatalf("Run() 返回错误: %v", err)
	}

	if len(result.Entities) != 3 {
		t.Fatalf("期望 3 个实体, 实际 %d", len(result.Entities))
	}
	for i, e := range raw {
		if result.Entities[i].Type != e.Type || result.Entities[i].Text != e.Text {
			t.Errorf("实体 %d 顺序或内容不符: %+v", i, result.Entities[i])
		}
	}
}

// TestPipeline_ExtractionFailure 测试提取失败立即终止，
// 不写入摘要记录。
func TestPipeline_ExtractionFailure(t *testing.T) {
	summaries := &memSummaryStore{}
	p := newTestPipeline(
		&mockExtractor{err: fmt.Errorf("corrupt input")},
		summaries,
		&mockEntityProvider{},
		&mockSummaryProvider{},
	)

	_, err := p.Run(context.Background(), &model.Document{FileID: "f1", Content: []byte("x")})
	if err == nil {
		t.Fatal("期望错误, 实际成功")
	}

	var e *errors.Errno
	if !stderrors.As(err, &e) || e.Code != errors.ErrExtractionFailed.Code {
		t.Errorf("期望 ErrExtractionFailed, 实际 %v", err)
	}
	if len(summaries.records) != 0 {
		t.Errorf("失败时不应写入摘要记录, 实际 %d 条", len(summaries.records))
	}
}

// TestPipeline_SummarizeFailureNoPersist 测试摘要失败时
// 不落库任何中间产物。
func TestPipeline_SummarizeFailureNoPersist(t *testing.T) {
	summaries := &memSummaryStore{}
	p := newTestPipeline(
		&mockExtractor{text: "some text"},
		summaries,
		&mockEntityProvider{},
		&mockSummaryProvider{err: fmt.Errorf("model down")},
	)

	_, err := p.Run(context.Background(), &model.Document{FileID: "f1", Content: []byte("x")})
	if err == nil {
		t.Fatal("期望错误, 实际成功")
	}
	if len(summaries.records) != 0 {
		t.Errorf("失败时不应写入摘要记录, 实际 %d 条", len(summaries.records))
	}
}

// TestPipeline_EmptyText 测试 OCR 输出清洗后为空时报内容无效。
func TestPipeline_EmptyText(t *testing.T) {
	p := newTestPipeline(
		&mockExtractor{text: "\n\n@#$%\n"},
		&memSummaryStore{},
		&mockEntityProvider{},
		&mockSummaryProvider{},
	)

	_, err := p.Run(context.Background(), &model.Document{FileID: "f1", Content: []byte("x")})
	if err == nil {
		t.Fatal("期望错误, 实际成功")
	}

	var e *errors.Errno
	if !stderrors.As(err, &e) || e.Code != errors.ErrInvalidContent.Code {
		t.Errorf("期望 ErrInvalidContent, 实际 %v", err)
	}
}

// TestPipeline_StorageFailure 测试持久化失败以存储错误上报。
func TestPipeline_StorageFailure(t *testing.T) {
	p := newTestPipeline(
		&mockExtractor{text: "some text"},
		&memSummaryStore{err: fmt.Errorf("connection reset")},
		&mockEntityProvider{},
		&mockSummaryProvider{},
	)

	_, err := p.Run(context.Background(), &model.Document{FileID: "f1", Content: []byte("x")})
	if err == nil {
		t.Fatal("期望错误, 实际成功")
	}

	var e *errors.Errno
	if !stderrors.As(err, &e) || e.Code != errors.ErrStorageFailed.Code {
		t.Errorf("期望 ErrStorageFailed, 实际 %v", err)
	}
}
