package handler

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/docsum/internal/docsum/biz"
	"github.com/kart-io/docsum/internal/docsum/store"
	"github.com/kart-io/docsum/internal/model"
	"github.com/kart-io/docsum/pkg/llm"
	"github.com/kart-io/docsum/pkg/utils/json"
)

// memFactory 内存存储工厂，供端到端 handler 测试使用。
type memFactory struct {
	docs *memDocumentStore
	sums *memSummaryStore
}

func newMemFactory() *memFactory {
	return &memFactory{
		docs: &memDocumentStore{},
		sums: &memSummaryStore{},
	}
}

func (f *memFactory) Documents() store.DocumentStore { return f.docs }
func (f *memFactory) Summaries() store.SummaryStore  { return f.sums }
func (f *memFactory) Close() error                   { return nil }

type memDocumentStore struct {
	docs []*model.Document
}

func (s *memDocumentStore) Create(ctx context.Context, doc *model.Document) error {
	s.docs = append(s.docs, doc)
	return nil
}

func (s *memDocumentStore) Get(ctx context.Context, fileID string) (*model.Document, error) {
	for _, d := range s.docs {
		if d.FileID == fileID {
			return d, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memDocumentStore) PurgeAll(ctx context.Context) (int64, error) {
	n := int64(len(s.docs))
	s.docs = nil
	return n, nil
}

type memSummaryStore struct {
	records []*model.SummaryRecord
}

func (s *memSummaryStore) Create(ctx context.Context, rec *model.SummaryRecord) error {
	s.records = append(s.records, rec)
	return nil
}

func (s *memSummaryStore) Get(ctx context.Context, fileID string) (*model.SummaryRecord, error) {
	for _, rec := range s.records {
		if rec.FileID == fileID {
			return rec, nil
		}
	}
	return nil, store.ErrNotFound
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

// stubExtractor 固定返回同一段文本。
type stubExtractor struct {
	text string
	err  error
}

func (e *stubExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return e.text, nil
}

// stubProvider 同时充当摘要和实体供应商。
type stubProvider struct {
	summary  string
	entities []llm.Entity
}

func (p *stubProvider) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	return p.summary, nil
}

func (p *stubProvider) ExtractEntities(ctx context.Context, text string) ([]llm.Entity, error) {
	return p.entities, nil
}

func (p *stubProvider) Name() string { return "stub" }

// envelope 响应信封的测试视图。
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T, factory *memFactory, extractor *stubExtractor, provider *stubProvider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	chunker := biz.NewChunker(nil, 512)
	summarizer := biz.NewHierarchicalSummarizer(provider, 30, 150, time.Minute)
	pipeline := biz.NewPipeline(extractor, chunker, summarizer, provider, factory.Summaries(), nil)
	service := biz.NewService(factory, pipeline)

	h := NewDocumentHandler(service, 32<<20)

	engine := gin.New()
	engine.POST("/documents/", h.Submit)
	engine.GET("/documents/:file_id", h.Fetch)
	engine.GET("/summary/:file_id", h.FetchSummary)
	engine.GET("/summaries/", h.ListSummaries)
	engine.DELETE("/clean/", h.Purge)
	return engine
}

func multipartUpload(t *testing.T, content []byte, title string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "scan.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	if title != "" {
		require.NoError(t, w.WriteField("title", title))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestSubmit_Success(t *testing.T) {
	factory := newMemFactory()
	provider := &stubProvider{
		summary: "short summary",
		entities: []llm.Entity{
			{Type: "ORG", Text: "Acme"},
		},
	}
	engine := newTestRouter(t, factory, &stubExtractor{text: "extracted text"}, provider)

	body, contentType := multipartUpload(t, []byte("fake image bytes"), "quarterly report")
	req := httptest.NewRequest(http.MethodPost, "/documents/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, 0, env.Code)

	var result biz.PipelineResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.NotEmpty(t, result.FileID)
	assert.Equal(t, "quarterly report", result.Title)
	assert.Equal(t, "short summary", result.Summary)
	require.Len(t, result.Entities, 1)
	assert.Equal(t, "Acme", result.Entities[0].Text)

	// 文档与摘要都已落库
	assert.Len(t, factory.docs.docs, 1)
	assert.Len(t, factory.sums.records, 1)
}

func TestSubmit_DefaultTitle(t *testing.T) {
	factory := newMemFactory()
	engine := newTestRouter(t, factory, &stubExtractor{text: "extracted"}, &stubProvider{summary: "s"})

	body, contentType := multipartUpload(t, []byte("bytes"), "")
	req := httptest.NewRequest(http.MethodPost, "/documents/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, factory.docs.docs, 1)
	assert.Equal(t, model.DefaultTitle, factory.docs.docs[0].Title)
}

func TestSubmit_MissingFile(t *testing.T) {
	engine := newTestRouter(t, newMemFactory(), &stubExtractor{text: "x"}, &stubProvider{summary: "s"})

	req := httptest.NewRequest(http.MethodPost, "/documents/", bytes.NewBufferString(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=none")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmit_ExtractionFailure(t *testing.T) {
	factory := newMemFactory()
	engine := newTestRouter(t, factory, &stubExtractor{err: fmt.Errorf("unsupported format")}, &stubProvider{summary: "s"})

	body, contentType := multipartUpload(t, []byte("bytes"), "t")
	req := httptest.NewRequest(http.MethodPost, "/documents/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// 文档已入库但摘要未写入
	assert.Len(t, factory.docs.docs, 1)
	assert.Len(t, factory.sums.records, 0)
}

func TestFetch_Attachment(t *testing.T) {
	factory := newMemFactory()
	factory.docs.docs = append(factory.docs.docs, &model.Document{
		FileID:  "f1",
		Title:   "report.pdf",
		Content: []byte("raw bytes"),
	})
	engine := newTestRouter(t, factory, &stubExtractor{}, &stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/documents/f1", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "raw bytes", rec.Body.String())
	assert.Equal(t, "attachment; filename=f1.pdf", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
}

func TestFetch_NotFound(t *testing.T) {
	engine := newTestRouter(t, newMemFactory(), &stubExtractor{}, &stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/documents/missing", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFetch_EmptyContent(t *testing.T) {
	factory := newMemFactory()
	factory.docs.docs = append(factory.docs.docs, &model.Document{FileID: "f1", Title: "t"})
	engine := newTestRouter(t, factory, &stubExtractor{}, &stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/documents/f1", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFetchSummary(t *testing.T) {
	factory := newMemFactory()
	factory.sums.records = append(factory.sums.records, &model.SummaryRecord{
		FileID:  "f1",
		Summary: "the summary",
		Entities: []model.Entity{
			{Type: "PER", Text: "Ada"},
		},
		CreatedAt: time.Now(),
	})
	engine := newTestRouter(t, factory, &stubExtractor{}, &stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/summary/f1", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	var got model.SummaryRecord
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "f1", got.FileID)
	assert.Equal(t, "the summary", got.Summary)
	require.Len(t, got.Entities, 1)
}

func TestFetchSummary_NotFound(t *testing.T) {
	engine := newTestRouter(t, newMemFactory(), &stubExtractor{}, &stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/summary/missing", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSummaries_Projection(t *testing.T) {
	factory := newMemFactory()
	factory.sums.records = append(factory.sums.records,
		&model.SummaryRecord{FileID: "f1", Summary: "s1", Entities: []model.Entity{{Type: "ORG", Text: "Acme"}}},
		&model.SummaryRecord{FileID: "f2", Summary: "s2"},
	)
	engine := newTestRouter(t, factory, &stubExtractor{}, &stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/summaries/", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	var items []model.SummaryListItem
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "f1", items[0].FileID)
	assert.Equal(t, "s1", items[0].Summary)
	// 投影不包含实体字段
	assert.NotContains(t, string(env.Data), "entities")
}

func TestPurge_ThenFetchNotFound(t *testing.T) {
	factory := newMemFactory()
	factory.docs.docs = append(factory.docs.docs, &model.Document{FileID: "f1", Content: []byte("x")})
	factory.sums.records = append(factory.sums.records, &model.SummaryRecord{FileID: "f1", Summary: "s"})
	engine := newTestRouter(t, factory, &stubExtractor{}, &stubProvider{})

	req := httptest.NewRequest(http.MethodDelete, "/clean/", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	var purge biz.PurgeResult
	require.NoError(t, json.Unmarshal(env.Data, &purge))
	assert.Equal(t, int64(1), purge.DocumentsDeleted)
	assert.Equal(t, int64(1), purge.SummariesDeleted)

	// 清理后原有 file_id 不可再取
	req = httptest.NewRequest(http.MethodGet, "/documents/f1", nil)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
