package service

import (
	"context"
	"time"

	"minutes-qa-go/internal/model"
	"minutes-qa-go/pkg/datastore"
	"minutes-qa-go/pkg/textutil"
)

// getreports 固定过滤的记录类型。
const reportType = "report"

// 手工添加的笔记落库时的记录类型。
const noteType = "note"

// NoteInput 是 addnote 的入参，Headline 已做 headline/note_headline 归一。
type NoteInput struct {
	Date      string
	Countries string
	Headline  string
	Author    string
	Note      string
}

// ReportService 定义了报表查询与笔记写入的接口。
type ReportService interface {
	AddNote(ctx context.Context, in NoteInput) error
	GetReports(ctx context.Context, from, to string) ([]model.MeetingRecord, error)
}

type reportService struct {
	dataStore datastore.Client
}

// NewReportService 创建一个新的 ReportService 实例。
func NewReportService(dataStore datastore.Client) ReportService {
	return &reportService{dataStore: dataStore}
}

// AddNote 向数据存储插入一条笔记记录，日期缺省取当天。
func (s *reportService) AddNote(ctx context.Context, in NoteInput) error {
	date := in.Date
	if parsed, ok := textutil.ParseDate(date); ok {
		date = parsed.Format("2006-01-02")
	} else {
		date = time.Now().UTC().Format("2006-01-02")
	}
	return s.dataStore.Insert(ctx, model.MeetingRecord{
		Date:      date,
		Type:      noteType,
		Countries: in.Countries,
		Headline:  in.Headline,
		Summary:   in.Note,
		Author:    in.Author,
	})
}

// GetReports 查询固定类型为 report 的记录，可选日期范围。
func (s *reportService) GetReports(ctx context.Context, from, to string) ([]model.MeetingRecord, error) {
	q := datastore.Query{Type: reportType}
	if parsed, ok := textutil.ParseDate(from); ok {
		q.From = parsed.Format("2006-01-02")
	}
	if parsed, ok := textutil.ParseDate(to); ok {
		q.To = parsed.AddDate(0, 0, 1).Format("2006-01-02")
	}
	return s.dataStore.QueryRecords(ctx, q)
}
