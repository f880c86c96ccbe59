package datastore

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Query 是一次行过滤查询的值对象。
// 字段以命名方式声明，统一由 Values 编码为请求参数，避免手工拼接转义。
type Query struct {
	From      string // YYYY-MM-DD，含当日
	To        string // YYYY-MM-DD，不含当日（调用方已推后一天）
	Type      string // 精确匹配记录类型
	Countries string // 列表字段的子串匹配
	Search    string // headline 与 summary 两个字段的 OR 模糊匹配
	Limit     int
}

// Values 将查询编码为 PostgREST 风格的 URL 参数。
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("select", "*")
	v.Set("order", "date.desc")
	if q.From != "" {
		v.Add("date", "gte."+q.From)
	}
	if q.To != "" {
		v.Add("date", "lt."+q.To)
	}
	if q.Type != "" {
		v.Add("type", "eq."+q.Type)
	}
	if q.Countries != "" {
		v.Add("countries", "ilike.*"+escapePattern(q.Countries)+"*")
	}
	if q.Search != "" {
		s := escapePattern(q.Search)
		v.Set("or", fmt.Sprintf("(headline.ilike.*%s*,summary.ilike.*%s*)", s, s))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// escapePattern 去除会破坏过滤表达式语法的保留字符，并把空白压回单个空格。
func escapePattern(s string) string {
	cleaned := strings.NewReplacer(",", " ", "(", " ", ")", " ", "*", " ").Replace(s)
	return strings.Join(strings.Fields(cleaned), " ")
}
