package errors

import "google.golang.org/grpc/codes"

// Docsum 服务代码: 21 (业务服务范围 20-79)
// 错误码格式: AABBCCC
// - AA: 21 (docsum 服务)
// - BB: 类别代码
// - CCC: 序号

var (
	// 请求参数错误 (类别 01)
	ErrInvalidRequest = Register(New(MakeCode(ServiceDocsum, CategoryRequest, 1), 400, codes.InvalidArgument, "Invalid request parameters", "请求参数无效"))
	ErrInvalidContent = Register(New(MakeCode(ServiceDocsum, CategoryRequest, 2), 400, codes.InvalidArgument, "Invalid document content", "文档内容无效"))

	// 资源错误 (类别 04)
	ErrDocumentNotFound = Register(New(MakeCode(ServiceDocsum, CategoryResource, 1), 404, codes.NotFound, "Document not found", "文档不存在"))
	ErrSummaryNotFound  = Register(New(MakeCode(ServiceDocsum, CategoryResource, 2), 404, codes.NotFound, "Summary not found", "摘要不存在"))

	// 流水线阶段错误
	ErrExtractionFailed    = Register(New(MakeCode(ServiceDocsum, CategoryInternal, 1), 500, codes.Internal, "Text extraction failed", "文本提取失败"))
	ErrSummarizeFailed     = Register(New(MakeCode(ServiceDocsum, CategoryInternal, 2), 500, codes.Internal, "Failed to summarize text", "文本摘要生成失败"))
	ErrEntityExtractFailed = Register(New(MakeCode(ServiceDocsum, CategoryInternal, 3), 500, codes.Internal, "Entity extraction failed", "实体抽取失败"))

	// 摘要模型超时与普通失败区分上报，调用方据此判断"稍后重试"还是"输入有问题"
	ErrSummarizeTimeout = Register(New(MakeCode(ServiceDocsum, CategoryTimeout, 1), 504, codes.DeadlineExceeded, "Summarization service timed out", "摘要服务超时"))

	// 存储错误 (类别 08)
	ErrStorageFailed = Register(New(MakeCode(ServiceDocsum, CategoryDatabase, 1), 500, codes.Internal, "Storage operation failed", "存储操作失败"))
	ErrPurgeFailed   = Register(New(MakeCode(ServiceDocsum, CategoryDatabase, 2), 500, codes.Internal, "Failed to clean collections", "清理集合失败"))
)
