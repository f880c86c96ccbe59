package service

import (
	"context"
	"fmt"

	"minutes-qa-go/internal/apperrs"
	"minutes-qa-go/internal/docsource"
	"minutes-qa-go/internal/model"
	"minutes-qa-go/internal/prompt"
	"minutes-qa-go/internal/session"
	"minutes-qa-go/pkg/datastore"
	"minutes-qa-go/pkg/llm"
	"minutes-qa-go/pkg/log"
	"minutes-qa-go/pkg/textutil"
	"minutes-qa-go/pkg/tika"
)

// 未携带 sessionId 的调用共用这个会话。
const defaultSessionID = "default"

// AskRequest 是一次通用问答的请求参数。
type AskRequest struct {
	Question  string
	From      string
	To        string
	Type      string
	Countries string
	Topic     string
	Limit     int
	Style     string
	SessionID string
}

// TranscriptAskRequest 是一次文稿问答的请求参数。
type TranscriptAskRequest struct {
	TranscriptID string
	Question     string
	SessionID    string
}

// AskResult 是问答的结果：答案、来源行与调试信息。
type AskResult struct {
	Answer            string                `json:"answer"`
	Sources           []model.MeetingRecord `json:"sources,omitempty"`
	IsNewConversation bool                  `json:"isNewConversation"`
}

// ChatService 定义了两个会话域上的问答与清理操作。
type ChatService interface {
	Ask(ctx context.Context, req AskRequest) (*AskResult, error)
	AskTranscript(ctx context.Context, req TranscriptAskRequest) (*AskResult, error)
	ClearConversation(ctx context.Context, sessionID string)
	ClearTranscriptConversation(ctx context.Context, sessionID string)
}

type chatService struct {
	dataStore          datastore.Client
	llmClient          llm.Client
	tikaClient         *tika.Client
	generalSessions    session.Store
	transcriptSessions session.Store
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(
	dataStore datastore.Client,
	llmClient llm.Client,
	tikaClient *tika.Client,
	generalSessions session.Store,
	transcriptSessions session.Store,
) ChatService {
	return &chatService{
		dataStore:          dataStore,
		llmClient:          llmClient,
		tikaClient:         tikaClient,
		generalSessions:    generalSessions,
		transcriptSessions: transcriptSessions,
	}
}

// Ask 在检索到的会议记录上回答通用问题。
// 过滤指纹变化或历史为空时重置会话并重新嵌入完整数据块。
func (s *chatService) Ask(ctx context.Context, req AskRequest) (*AskResult, error) {
	sessionID := orDefault(req.SessionID)

	records, err := s.dataStore.QueryRecords(ctx, buildRecordQuery(req))
	if err != nil {
		return nil, err
	}

	fingerprint := prompt.Fingerprint(req.From, req.To, req.Type, req.Countries, req.Topic)
	st, exists := s.generalSessions.Get(ctx, sessionID)
	isNew := !exists || st.ContextKey != fingerprint || len(st.History) == 0
	if isNew {
		// 过滤条件换了：旧上下文答非所问，宁可丢弃连续性
		st = session.State{ContextKey: fingerprint}
	}

	userText := prompt.BuildGeneral(req.Question, req.Style, records, isNew)
	answer, err := s.llmClient.Generate(ctx, toLLMMessages(st.History), userText)
	if err != nil {
		return nil, err
	}

	st.History = session.AppendTurns(st.History, userText, answer)
	s.generalSessions.Put(ctx, sessionID, st)

	log.Infof("[ChatService] ask 完成, session: %s, isNew: %v, sources: %d", sessionID, isNew, len(records))
	return &AskResult{Answer: answer, Sources: records, IsNewConversation: isNew}, nil
}

// AskTranscript 在单个转写文稿上回答问题，会话按文稿 id 失效。
func (s *chatService) AskTranscript(ctx context.Context, req TranscriptAskRequest) (*AskResult, error) {
	sessionID := orDefault(req.SessionID)

	src, err := docsource.Select(s.tikaClient)
	if err != nil {
		return nil, err
	}
	content, err := src.Read(ctx, req.TranscriptID)
	if err != nil {
		return nil, fmt.Errorf("Failed to read transcript: %w", err)
	}
	if textutil.CollapseSpace(content) == "" {
		return nil, &apperrs.EmptyResult{What: "transcript content is empty"}
	}

	st, exists := s.transcriptSessions.Get(ctx, sessionID)
	isNew := !exists || st.ContextKey != req.TranscriptID || len(st.History) == 0
	if isNew {
		st = session.State{ContextKey: req.TranscriptID}
	}

	userText := prompt.BuildTranscript(req.Question, content, isNew)
	answer, err := s.llmClient.Generate(ctx, toLLMMessages(st.History), userText)
	if err != nil {
		return nil, err
	}

	st.History = session.AppendTurns(st.History, userText, answer)
	s.transcriptSessions.Put(ctx, sessionID, st)

	log.Infof("[ChatService] asktranscript 完成, session: %s, transcript: %s, isNew: %v", sessionID, req.TranscriptID, isNew)
	return &AskResult{Answer: answer, IsNewConversation: isNew}, nil
}

// ClearConversation 丢弃通用域的会话状态。
func (s *chatService) ClearConversation(ctx context.Context, sessionID string) {
	s.generalSessions.Delete(ctx, orDefault(sessionID))
}

// ClearTranscriptConversation 丢弃文稿域的会话状态。
func (s *chatService) ClearTranscriptConversation(ctx context.Context, sessionID string) {
	s.transcriptSessions.Delete(ctx, orDefault(sessionID))
}

// buildRecordQuery 把请求参数翻译为数据存储的查询值对象。
// to 推后一天转为开区间，使终止日期整天都被包含。
func buildRecordQuery(req AskRequest) datastore.Query {
	q := datastore.Query{
		Type:      req.Type,
		Countries: req.Countries,
		Search:    req.Topic,
		Limit:     clampLimit(req.Limit),
	}
	if from, ok := textutil.ParseDate(req.From); ok {
		q.From = from.Format("2006-01-02")
	}
	if to, ok := textutil.ParseDate(req.To); ok {
		q.To = to.AddDate(0, 0, 1).Format("2006-01-02")
	}
	return q
}

func toLLMMessages(history []model.ChatMessage) []llm.Message {
	msgs := make([]llm.Message, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, llm.Message{Role: m.Role, Text: m.Text})
	}
	return msgs
}

func orDefault(sessionID string) string {
	if sessionID == "" {
		return defaultSessionID
	}
	return sessionID
}
