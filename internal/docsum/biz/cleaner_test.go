package biz

import "testing"

// TestNormalizeText_NewlineCollapsing 测试换行折叠与替换。
func TestNormalizeText_NewlineCollapsing(t *testing.T) {
	got := NormalizeText("first line\n\n\nsecond line\nthird line")
	want := "first line second line third line"
	if got != want {
		t.Errorf("期望 %q, 实际 %q", want, got)
	}
}

// TestNormalizeText_DisallowedCharacters 测试非法字符过滤。
// 允许集：字母、数字、空白以及 . , ! ? ' " - 标点。
func TestNormalizeText_DisallowedCharacters(t *testing.T) {
	got := NormalizeText(`Report #42: profit = $1,000 (up 5%) — "good"!`)
	want := `Report 42 profit  1,000 up 5  "good"!`
	if got != want {
		t.Errorf("期望 %q, 实际 %q", want, got)
	}
}

// TestNormalizeText_OrderSensitive 测试替换顺序。
// 换行折叠先于字符过滤执行；若顺序颠倒，换行会先被过滤规则
// 当作空白保留，折叠步骤失去意义。
func TestNormalizeText_OrderSensitive(t *testing.T) {
	got := NormalizeText("a\n\nb")
	want := "a b"
	if got != want {
		t.Errorf("期望 %q, 实际 %q", want, got)
	}
}

// TestNormalizeText_Trim 测试首尾空白去除。
func TestNormalizeText_Trim(t *testing.T) {
	got := NormalizeText("  \n hello world \n  ")
	if got != "hello world" {
		t.Errorf("期望 %q, 实际 %q", "hello world", got)
	}
}

// TestNormalizeText_Empty 测试空输入与纯噪声输入。
func TestNormalizeText_Empty(t *testing.T) {
	if got := NormalizeText(""); got != "" {
		t.Errorf("空输入期望空输出, 实际 %q", got)
	}
	if got := NormalizeText("\n\n\n"); got != "" {
		t.Errorf("纯换行输入期望空输出, 实际 %q", got)
	}
	if got := NormalizeText("@#$%^&*"); got != "" {
		t.Errorf("纯非法字符输入期望空输出, 实际 %q", got)
	}
}
