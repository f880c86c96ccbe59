package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"minutes-qa-go/internal/model"
	"minutes-qa-go/internal/service"
	"minutes-qa-go/pkg/log"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	log.Init("error", "console", "")
	os.Exit(m.Run())
}

type stubChat struct {
	askErr  error
	cleared []string
}

func (s *stubChat) Ask(_ context.Context, req service.AskRequest) (*service.AskResult, error) {
	if s.askErr != nil {
		return nil, s.askErr
	}
	return &service.AskResult{Answer: "the answer", IsNewConversation: true}, nil
}

func (s *stubChat) AskTranscript(_ context.Context, req service.TranscriptAskRequest) (*service.AskResult, error) {
	return &service.AskResult{Answer: "transcript answer"}, nil
}

func (s *stubChat) ClearConversation(_ context.Context, sessionID string) {
	s.cleared = append(s.cleared, "general:"+sessionID)
}

func (s *stubChat) ClearTranscriptConversation(_ context.Context, sessionID string) {
	s.cleared = append(s.cleared, "transcript:"+sessionID)
}

type stubSearch struct{}

func (stubSearch) FindTranscripts(_ context.Context, _ model.SearchQuery) ([]model.TranscriptFile, error) {
	return []model.TranscriptFile{}, nil
}

type stubReport struct{}

func (stubReport) AddNote(_ context.Context, _ service.NoteInput) error { return nil }
func (stubReport) GetReports(_ context.Context, _, _ string) ([]model.MeetingRecord, error) {
	return nil, nil
}

func doExec(t *testing.T, h *ExecHandler, params url.Values) map[string]interface{} {
	t.Helper()
	r := gin.New()
	r.GET("/api/exec", h.Handle)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/exec?"+params.Encode(), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码应恒为 200, got %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应不是 JSON: %v", err)
	}
	return body
}

func newTestHandler() (*ExecHandler, *stubChat) {
	chat := &stubChat{}
	return NewExecHandler(chat, stubSearch{}, stubReport{}), chat
}

func TestHandleUnknownAction(t *testing.T) {
	h, _ := newTestHandler()
	body := doExec(t, h, url.Values{"action": {"bogus"}})
	if body["ok"] != false {
		t.Errorf("未知 action 应返回 ok:false")
	}
	if !strings.Contains(body["error"].(string), "unknown action: bogus") {
		t.Errorf("error: %v", body["error"])
	}
}

func TestHandleAsk(t *testing.T) {
	h, _ := newTestHandler()
	body := doExec(t, h, url.Values{"action": {"ask"}, "question": {"hi"}})
	if body["ok"] != true || body["answer"] != "the answer" {
		t.Errorf("ask 响应不对: %v", body)
	}
	debug, _ := body["debug"].(map[string]interface{})
	if debug["isNewConversation"] != true {
		t.Errorf("debug 应携带 isNewConversation")
	}
}

func TestHandleAskRequiresQuestion(t *testing.T) {
	h, _ := newTestHandler()
	body := doExec(t, h, url.Values{"action": {"ask"}})
	if body["ok"] != false {
		t.Errorf("缺少 question 应失败")
	}
	msg, _ := body["error"].(string)
	if msg != "invalid request: question parameter is required" {
		t.Errorf("缺参错误应表述为参数校验失败: %q", msg)
	}
}

func TestHandleAskTranscriptRequiresIDAndQuestion(t *testing.T) {
	h, _ := newTestHandler()
	body := doExec(t, h, url.Values{"action": {"asktranscript"}, "question": {"hi"}})
	if body["ok"] != false {
		t.Errorf("缺少 id 应失败")
	}
	msg, _ := body["error"].(string)
	if msg != "invalid request: id and question parameters are required" {
		t.Errorf("缺参错误应表述为参数校验失败: %q", msg)
	}
}

func TestHandleFindTranscriptsEmptyIsOK(t *testing.T) {
	h, _ := newTestHandler()
	body := doExec(t, h, url.Values{"action": {"findtranscripts"}})
	if body["ok"] != true {
		t.Fatalf("零结果应是成功: %v", body)
	}
	results, present := body["results"].([]interface{})
	if !present || len(results) != 0 {
		t.Errorf("results 应为空数组: %v", body["results"])
	}
}

func TestHandleClearActions(t *testing.T) {
	h, chat := newTestHandler()
	doExec(t, h, url.Values{"action": {"clearconversation"}, "sessionId": {"s1"}})
	doExec(t, h, url.Values{"action": {"cleartranscriptconversation"}, "sessionId": {"s1"}})
	if len(chat.cleared) != 2 || chat.cleared[0] != "general:s1" || chat.cleared[1] != "transcript:s1" {
		t.Errorf("清理调用不对: %v", chat.cleared)
	}
}

func TestHandleActionCaseInsensitive(t *testing.T) {
	h, _ := newTestHandler()
	body := doExec(t, h, url.Values{"action": {"GetReports"}})
	if body["ok"] != true {
		t.Errorf("action 应不区分大小写: %v", body)
	}
}
