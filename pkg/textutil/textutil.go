// Package textutil 提供文本裁剪、空白归一化与日期解析等基础工具。
package textutil

import (
	"regexp"
	"strings"
	"time"
)

var (
	spaceRe = regexp.MustCompile(`\s+`)
	// 文件名内嵌时间戳：YYYY-MM-DD 或 YYYY/MM/DD，后接分隔符与 HH:MM:SS 或 HH.MM.SS
	fileStampRe = regexp.MustCompile(`(\d{4})[-/](\d{2})[-/](\d{2})[ _T.-]+(\d{2})[:.](\d{2})[:.](\d{2})`)
)

// Clip 截断字符串至最多 max 个字符（按 rune 计），超出部分丢弃尾部。
func Clip(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// ClipTail 截断字符串至最多 max 个字符，保留尾部。
// 转写文稿过长时保留结尾：近期内容通常更相关。
func ClipTail(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[len(r)-max:])
}

// CollapseSpace 将连续空白（含换行）压缩为单个空格并去除首尾空白。
func CollapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// ParseDate 解析 MM/DD/YYYY 或 YYYY-MM-DD 格式的日期为 UTC 零点。
// 解析失败或输入为空时返回 false，调用方按"该侧不限"处理。
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", "01/02/2006"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FilenameTimestamp 从文件名中解析内嵌时间戳（UTC）。
func FilenameTimestamp(name string) (time.Time, bool) {
	m := fileStampRe.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}
	stamp := m[1] + "-" + m[2] + "-" + m[3] + " " + m[4] + ":" + m[5] + ":" + m[6]
	t, err := time.ParseInLocation("2006-01-02 15:04:05", stamp, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SplitKeywords 按逗号与空白拆分关键词，统一转小写并丢弃空项。
func SplitKeywords(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	var out []string
	for _, f := range fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
