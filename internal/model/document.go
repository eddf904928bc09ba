// Package model defines the persistent data structures of the docsum service.
package model

import "time"

// DefaultTitle 是上传时未提供标题的文档的默认标题。
const DefaultTitle = "Untitled Document"

// Document 表示一份已上传的原始文档。
// 创建后不可变，仅由批量清理操作删除。
type Document struct {
	// FileID 是文档的唯一标识符，创建时分配，永不复用。
	FileID string `json:"file_id" bson:"file_id"`

	// Title 是文档标题，缺省为 DefaultTitle。
	Title string `json:"title" bson:"title"`

	// Content 是原始文档字节。
	Content []byte `json:"-" bson:"content"`

	// CreatedAt 是文档入库时间。
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// SummaryRecord 表示一次完整流水线运行产出的摘要记录。
// 追加写入，从不原地更新；同一 FileID 的第二次运行会追加第二条记录。
type SummaryRecord struct {
	// FileID 指向对应的 Document。软引用，存储层不做外键约束。
	FileID string `json:"file_id" bson:"file_id"`

	// Summary 是最终摘要文本。
	Summary string `json:"summary" bson:"summary"`

	// Entities 是从最终摘要中抽取的命名实体，保持适配器返回顺序。
	Entities []Entity `json:"entities" bson:"entities"`

	// CreatedAt 是记录写入时间。
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Entity 是摘要文本中的一个带标签的命名实体。
// 顺序即检测顺序，重复项不合并。
type Entity struct {
	// Type 是实体类别标签，如 PER、ORG、LOC。
	Type string `json:"type" bson:"type"`

	// Text 是实体在摘要中的表面形式。
	Text string `json:"text" bson:"text"`
}

// SummaryListItem 是摘要列表接口的投影，按契约省略实体与时间戳。
type SummaryListItem struct {
	FileID  string `json:"file_id" bson:"file_id"`
	Summary string `json:"summary" bson:"summary"`
}
