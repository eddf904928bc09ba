package errors

import "google.golang.org/grpc/codes"

// 通用错误码: 服务代码 00，与具体服务无关。
var (
	// OK 表示成功，Code 为 0。
	OK = New(0, 200, codes.OK, "OK", "成功")

	ErrUnknown  = Register(New(MakeCode(ServiceCommon, CategoryInternal, 1), 500, codes.Unknown, "Unknown error", "未知错误"))
	ErrInternal = Register(New(MakeCode(ServiceCommon, CategoryInternal, 2), 500, codes.Internal, "Internal server error", "服务内部错误"))
	ErrDatabase = Register(New(MakeCode(ServiceCommon, CategoryDatabase, 1), 500, codes.Internal, "Database error", "数据库错误"))
)
