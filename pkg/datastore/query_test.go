package datastore

import "testing"

func TestQueryValues(t *testing.T) {
	q := Query{
		From:      "2024-01-01",
		To:        "2024-02-02",
		Type:      "meeting",
		Countries: "France",
		Search:    "budget",
		Limit:     25,
	}
	v := q.Values()

	dates := v["date"]
	if len(dates) != 2 || dates[0] != "gte.2024-01-01" || dates[1] != "lt.2024-02-02" {
		t.Errorf("date filters: got %v", dates)
	}
	if got := v.Get("type"); got != "eq.meeting" {
		t.Errorf("type: got %q", got)
	}
	if got := v.Get("countries"); got != "ilike.*France*" {
		t.Errorf("countries: got %q", got)
	}
	if got := v.Get("or"); got != "(headline.ilike.*budget*,summary.ilike.*budget*)" {
		t.Errorf("or: got %q", got)
	}
	if got := v.Get("limit"); got != "25" {
		t.Errorf("limit: got %q", got)
	}
	if got := v.Get("order"); got != "date.desc" {
		t.Errorf("order: got %q", got)
	}
}

func TestQueryValuesEmpty(t *testing.T) {
	v := Query{}.Values()
	for _, key := range []string{"date", "type", "countries", "or", "limit"} {
		if v.Has(key) {
			t.Errorf("空查询不应携带 %s 参数", key)
		}
	}
	if v.Get("select") != "*" {
		t.Errorf("select 应恒为 *")
	}
}

func TestEscapePattern(t *testing.T) {
	// 保留字符不能进入过滤表达式
	q := Query{Search: "a,b(c)*"}
	if got := q.Values().Get("or"); got != "(headline.ilike.*a b c*,summary.ilike.*a b c*)" {
		t.Errorf("escape: got %q", got)
	}
}
