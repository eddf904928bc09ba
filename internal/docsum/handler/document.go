// Package handler provides HTTP handlers for the docsum service.
package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/docsum/internal/docsum/biz"
	"github.com/kart-io/docsum/pkg/middleware"
	"github.com/kart-io/docsum/pkg/utils/errors"
	"github.com/kart-io/docsum/pkg/utils/response"
)

// DocumentHandler handles document submission and retrieval requests.
type DocumentHandler struct {
	service       *biz.Service
	maxUploadSize int64
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(service *biz.Service, maxUploadSize int64) *DocumentHandler {
	return &DocumentHandler{
		service:       service,
		maxUploadSize: maxUploadSize,
	}
}

// Submit handles POST /documents/.
// 接收 multipart 上传（file 必填，title 选填），同步执行完整
// 流水线后返回 {file_id, title, summary, entities}。
func (h *DocumentHandler) Submit(c *gin.Context) {
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.writeError(c, errors.ErrInvalidRequest.WithCause(err))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.writeError(c, errors.ErrInvalidRequest.WithCause(err))
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		h.writeError(c, errors.ErrInvalidRequest.WithCause(err))
		return
	}

	title := c.PostForm("title")

	// 客户端断开不终止流水线，运行到完成或失败并尽量落库
	ctx := context.WithoutCancel(c.Request.Context())

	result, err := h.service.SubmitDocument(ctx, content, title)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeSuccess(c, result)
}

// Fetch handles GET /documents/:file_id.
// 以附件形式返回原始文档字节；存储内容为空时报 400。
func (h *DocumentHandler) Fetch(c *gin.Context) {
	fileID := c.Param("file_id")

	doc, err := h.service.GetDocument(c.Request.Context(), fileID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if len(doc.Content) == 0 {
		h.writeError(c, errors.ErrInvalidContent.WithMessage("stored document content is empty"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", fileID))
	c.Data(http.StatusOK, "application/pdf", doc.Content)
}

// FetchSummary handles GET /summary/:file_id.
func (h *DocumentHandler) FetchSummary(c *gin.Context) {
	fileID := c.Param("file_id")

	rec, err := h.service.GetSummary(c.Request.Context(), fileID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeSuccess(c, rec)
}

// ListSummaries handles GET /summaries/.
// 返回 {file_id, summary} 投影列表，省略实体与时间戳。
func (h *DocumentHandler) ListSummaries(c *gin.Context) {
	items, err := h.service.ListSummaries(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeSuccess(c, items)
}

// Purge handles DELETE /clean/.
func (h *DocumentHandler) Purge(c *gin.Context) {
	result, err := h.service.PurgeAll(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeSuccess(c, result)
}

func (h *DocumentHandler) writeSuccess(c *gin.Context, data interface{}) {
	resp := response.Success(data).WithRequestID(middleware.GetRequestID(c))
	c.JSON(http.StatusOK, resp)
}

func (h *DocumentHandler) writeError(c *gin.Context, err error) {
	e := errors.FromError(err, errors.ErrInternal)
	resp := response.Err(e).WithRequestID(middleware.GetRequestID(c))
	c.JSON(e.HTTPStatus(), resp)
}
