// Package handler 包含了 HTTP 请求的处理器。
package handler

import (
	"net/http"
	"strconv"
	"strings"

	"minutes-qa-go/internal/apperrs"
	"minutes-qa-go/internal/model"
	"minutes-qa-go/internal/service"
	"minutes-qa-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// ExecHandler 处理单一入口的 action 分发请求。
type ExecHandler struct {
	chatService   service.ChatService
	searchService service.SearchService
	reportService service.ReportService
}

// NewExecHandler 创建一个新的 ExecHandler 实例。
func NewExecHandler(
	chatService service.ChatService,
	searchService service.SearchService,
	reportService service.ReportService,
) *ExecHandler {
	return &ExecHandler{
		chatService:   chatService,
		searchService: searchService,
		reportService: reportService,
	}
}

// Handle 按 action 参数分发请求。未知 action 也走统一的失败渲染。
func (h *ExecHandler) Handle(c *gin.Context) {
	action := strings.ToLower(param(c, "action"))
	log.Infof("[ExecHandler] 收到请求, action: %s", action)

	switch action {
	case "ask":
		h.ask(c)
	case "findtranscripts":
		h.findTranscripts(c)
	case "asktranscript":
		h.askTranscript(c)
	case "addnote":
		h.addNote(c)
	case "getreports":
		h.getReports(c)
	case "clearconversation":
		h.chatService.ClearConversation(c.Request.Context(), param(c, "sessionId"))
		ok(c, gin.H{})
	case "cleartranscriptconversation":
		h.chatService.ClearTranscriptConversation(c.Request.Context(), param(c, "sessionId"))
		ok(c, gin.H{})
	default:
		fail(c, &apperrs.UnknownAction{Action: action})
	}
}

func (h *ExecHandler) ask(c *gin.Context) {
	question := param(c, "question")
	if question == "" {
		fail(c, &apperrs.InvalidRequest{Reason: "question parameter is required"})
		return
	}
	req := service.AskRequest{
		Question:  question,
		From:      param(c, "from"),
		To:        param(c, "to"),
		Type:      param(c, "type"),
		Countries: param(c, "countries"),
		Topic:     param(c, "topic"),
		Limit:     intParam(c, "limit"),
		Style:     param(c, "style"),
		SessionID: param(c, "sessionId"),
	}
	res, err := h.chatService.Ask(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{
		"answer":  res.Answer,
		"sources": res.Sources,
		"debug":   gin.H{"isNewConversation": res.IsNewConversation},
	})
}

func (h *ExecHandler) findTranscripts(c *gin.Context) {
	q := model.SearchQuery{
		From:     param(c, "from"),
		To:       param(c, "to"),
		Keywords: param(c, "keywords"),
		Limit:    intParam(c, "limit"),
	}
	results, err := h.searchService.FindTranscripts(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"results": results})
}

func (h *ExecHandler) askTranscript(c *gin.Context) {
	id := param(c, "id")
	question := param(c, "question")
	if id == "" || question == "" {
		fail(c, &apperrs.InvalidRequest{Reason: "id and question parameters are required"})
		return
	}
	res, err := h.chatService.AskTranscript(c.Request.Context(), service.TranscriptAskRequest{
		TranscriptID: id,
		Question:     question,
		SessionID:    param(c, "sessionId"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{
		"answer": res.Answer,
		"debug":  gin.H{"isNewConversation": res.IsNewConversation},
	})
}

func (h *ExecHandler) addNote(c *gin.Context) {
	headline := param(c, "headline")
	if headline == "" {
		headline = param(c, "note_headline")
	}
	err := h.reportService.AddNote(c.Request.Context(), service.NoteInput{
		Date:      param(c, "date"),
		Countries: param(c, "countries"),
		Headline:  headline,
		Author:    param(c, "author"),
		Note:      param(c, "note"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{})
}

func (h *ExecHandler) getReports(c *gin.Context) {
	results, err := h.reportService.GetReports(c.Request.Context(), param(c, "from"), param(c, "to"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"results": results})
}

// param 读取请求参数，POST 表单优先于查询串。
func param(c *gin.Context, name string) string {
	if v := c.PostForm(name); v != "" {
		return v
	}
	return c.Query(name)
}

func intParam(c *gin.Context, name string) int {
	v, err := strconv.Atoi(param(c, name))
	if err != nil {
		return 0
	}
	return v
}

// ok 渲染成功响应，payload 并入顶层对象。
func ok(c *gin.Context, payload gin.H) {
	body := gin.H{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// fail 把任意错误渲染为 {ok:false, error:...}。
// 调用方契约只看 ok 字段，失败也返回 200。
func fail(c *gin.Context, err error) {
	log.Errorf("[ExecHandler] 请求失败, action: %s, error: %v", param(c, "action"), err)
	c.JSON(http.StatusOK, gin.H{"ok": false, "error": err.Error()})
}
