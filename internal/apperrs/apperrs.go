// Package apperrs 定义请求边界统一渲染的错误分类。
// 所有错误在 handler 层被捕获并渲染为 {ok:false, error:...}，进程不崩溃。
package apperrs

import "fmt"

// ConfigurationMissing 表示缺少必需的凭证或环境配置。
type ConfigurationMissing struct {
	Name string
}

func (e *ConfigurationMissing) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Name)
}

// BackendUnavailable 表示文档根目录不可达或不存在。
type BackendUnavailable struct {
	Reason string
	Err    error
}

func (e *BackendUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend unavailable: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("backend unavailable: %s", e.Reason)
}

func (e *BackendUnavailable) Unwrap() error { return e.Err }

// UpstreamHTTP 表示数据存储或语言模型 API 返回了非成功状态。
// Body 已截断，避免把上游整页错误带进日志与响应。
type UpstreamHTTP struct {
	Service string
	Status  int
	Body    string
}

const maxUpstreamBody = 300

func (e *UpstreamHTTP) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Status, e.Body)
}

// NewUpstreamHTTP 构造一个截断了响应体的上游错误。
func NewUpstreamHTTP(service string, status int, body []byte) *UpstreamHTTP {
	b := string(body)
	if len(b) > maxUpstreamBody {
		b = b[:maxUpstreamBody]
	}
	return &UpstreamHTTP{Service: service, Status: status, Body: b}
}

// EmptyResult 表示上游调用成功但内容为空（如转写文稿无文本）。
type EmptyResult struct {
	What string
}

func (e *EmptyResult) Error() string {
	return fmt.Sprintf("empty result: %s", e.What)
}

// InvalidRequest 表示请求缺少必需参数或参数非法。
type InvalidRequest struct {
	Reason string
}

func (e *InvalidRequest) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Reason)
}

// UnknownAction 表示请求携带了未知的 action 参数。
type UnknownAction struct {
	Action string
}

func (e *UnknownAction) Error() string {
	return fmt.Sprintf("unknown action: %s", e.Action)
}
