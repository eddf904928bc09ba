package biz

import (
	"regexp"
	"strings"
)

// 文本归一化的三个替换按固定顺序执行：
// 先折叠连续换行，再把换行替换为空格，最后过滤非法字符。
// 顺序敏感，调整顺序会改变输出。
var (
	newlineRunRE   = regexp.MustCompile(`\n+`)
	disallowedRE   = regexp.MustCompile(`[^a-zA-Z0-9\s.,!?'"-]`)
	newlineLiteral = "\n"
)

// NormalizeText 清洗 OCR 提取出的原始文本。
// 连续换行折叠为单个换行，换行替换为空格，删除允许集之外的
// 字符（字母、数字、空白及 . , ! ? ' " - 标点），首尾去空白。
func NormalizeText(text string) string {
	text = newlineRunRE.ReplaceAllString(text, newlineLiteral)
	text = strings.ReplaceAll(text, newlineLiteral, " ")
	text = disallowedRE.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
