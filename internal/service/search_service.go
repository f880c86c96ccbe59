// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"minutes-qa-go/internal/docsource"
	"minutes-qa-go/internal/model"
	"minutes-qa-go/pkg/log"
	"minutes-qa-go/pkg/textutil"
	"minutes-qa-go/pkg/tika"
)

const (
	// 结果数硬上限与默认值
	maxSearchLimit     = 50
	defaultSearchLimit = 10
	// 单次请求允许的内容扫描次数（全局预算）
	contentCheckBudget = 200
	// 内容命中时附带的摘录最大长度
	maxPreviewLen = 500
)

// SearchService 定义了转写文稿检索的接口。
type SearchService interface {
	// FindTranscripts 返回按 modified 降序排列的匹配文稿，零结果也是成功。
	FindTranscripts(ctx context.Context, q model.SearchQuery) ([]model.TranscriptFile, error)
}

type searchService struct {
	tikaClient *tika.Client
}

// NewSearchService 创建一个新的 SearchService 实例。
func NewSearchService(tikaClient *tika.Client) SearchService {
	return &searchService{tikaClient: tikaClient}
}

// FindTranscripts 执行 日期过滤 + 关键词过滤/内容扫描 的文稿检索。
// 凑满 limit 条即提前终止扫描：遍历顺序决定了谁先被评估，
// 候选多于扫描量时结果不保证是全局最新的——这是有意接受的近似。
func (s *searchService) FindTranscripts(ctx context.Context, q model.SearchQuery) ([]model.TranscriptFile, error) {
	src, err := docsource.Select(s.tikaClient)
	if err != nil {
		return nil, err
	}
	entries, err := src.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	from, hasFrom := textutil.ParseDate(q.From)
	to, hasTo := textutil.ParseDate(q.To)
	if hasTo {
		// to 按次日零点的开区间处理，使终止日期整天都被包含
		to = to.AddDate(0, 0, 1)
	}
	keywords := textutil.SplitKeywords(q.Keywords)
	limit := clampLimit(q.Limit)

	checksUsed := 0
	results := make([]model.TranscriptFile, 0, limit)

	for _, entry := range entries {
		ts := effectiveTimestamp(entry)
		if hasFrom && ts.Before(from) {
			continue
		}
		if hasTo && !ts.Before(to) {
			continue
		}

		file := model.TranscriptFile{
			ID:       entry.ID,
			Name:     entry.Name,
			MimeType: entry.MimeType,
			Modified: ts.Format(time.RFC3339),
			Link:     entry.Link,
		}

		if len(keywords) > 0 {
			matched := matchName(entry.Name, keywords)
			// 未配置 Tika 时富文档必然读不出文本，不浪费扫描预算
			scannable := !docsource.IsRich(entry.Name) || s.tikaClient.Configured()
			if !matched && scannable && checksUsed < contentCheckBudget {
				checksUsed++
				content, err := src.Read(ctx, entry.ID)
				if err != nil {
					// 单个文件读不了不影响其余结果
					log.Warnf("[SearchService] 内容扫描读取失败, id: %s, err: %v", entry.ID, err)
					continue
				}
				if matchContent(content, keywords) {
					matched = true
					file.Preview = textutil.Clip(textutil.CollapseSpace(content), maxPreviewLen)
				}
			}
			if !matched {
				continue
			}
		}

		results = append(results, file)
		if len(results) >= limit {
			break
		}
	}

	sort.Slice(results, func(i, j int) bool {
		// ISO-8601 字符串的字典序即时间序
		return results[i].Modified > results[j].Modified
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// effectiveTimestamp 推导候选条目的有效时间戳：
// 文件名内嵌时间戳优先，其次后端修改时间，都没有则取当前时间。
func effectiveTimestamp(entry docsource.Entry) time.Time {
	if ts, ok := textutil.FilenameTimestamp(entry.Name); ok {
		return ts
	}
	if !entry.Modified.IsZero() {
		return entry.Modified
	}
	return time.Now().UTC()
}

func matchName(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func matchContent(content string, keywords []string) bool {
	lower := strings.ToLower(content)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultSearchLimit
	}
	if limit > maxSearchLimit {
		return maxSearchLimit
	}
	return limit
}
