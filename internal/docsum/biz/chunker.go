package biz

import "strings"

// Tokenizer 将文本切分为有序 token 序列，并能从 token 序列还原文本。
// 分块器只依赖这两个操作，便于替换为模型族专用的分词实现。
type Tokenizer interface {
	// Tokenize 返回文本的有序 token 序列。
	Tokenize(text string) []string

	// Detokenize 把 token 序列还原为文本。
	Detokenize(tokens []string) string
}

// WhitespaceTokenizer 按空白切分的默认分词器。
// 与摘要模型按词计数的粒度对齐，token 内不含空白。
type WhitespaceTokenizer struct{}

// Tokenize 按任意空白切分文本。
func (WhitespaceTokenizer) Tokenize(text string) []string {
	return strings.Fields(text)
}

// Detokenize 用单个空格连接 token。
func (WhitespaceTokenizer) Detokenize(tokens []string) string {
	return strings.Join(tokens, " ")
}

// Chunker 把归一化文本切分为 token 数受限的有序分块。
type Chunker struct {
	tokenizer Tokenizer
	maxTokens int
}

// NewChunker 创建分块器。tokenizer 为 nil 时使用 WhitespaceTokenizer。
func NewChunker(tokenizer Tokenizer, maxTokens int) *Chunker {
	if tokenizer == nil {
		tokenizer = WhitespaceTokenizer{}
	}
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &Chunker{
		tokenizer: tokenizer,
		maxTokens: maxTokens,
	}
}

// MaxTokens 返回单个分块允许的最大 token 数。
func (c *Chunker) MaxTokens() int {
	return c.maxTokens
}

// Chunk 按 token 预算切分文本。
//
// 总 token 数不超过预算时整段文本原样作为唯一分块返回，不经过
// Detokenize 还原，保留原始排版。超出预算时按顺序累积 token，
// 每满 maxTokens 个关闭一个分块，结尾的不完整分块同样输出。
// 分块数恒等于 ceil(N/maxTokens)，token 顺序不变。
func (c *Chunker) Chunk(text string) []string {
	tokens := c.tokenizer.Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	if len(tokens) <= c.maxTokens {
		return []string{text}
	}

	chunks := make([]string, 0, (len(tokens)+c.maxTokens-1)/c.maxTokens)
	for start := 0; start < len(tokens); start += c.maxTokens {
		end := start + c.maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, c.tokenizer.Detokenize(tokens[start:end]))
	}

	return chunks
}

// CountTokens 返回文本的 token 数。
func (c *Chunker) CountTokens(text string) int {
	return len(c.tokenizer.Tokenize(text))
}
