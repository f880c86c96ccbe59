// Package model 包含了应用的数据模型定义。
package model

// 会话消息角色，与生成式语言 API 的 role 取值保持一致。
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatMessage 代表会话历史中的一条角色消息。
type ChatMessage struct {
	Role string `json:"role"` // "user" 或 "model"
	Text string `json:"text"`
}

// TranscriptFile 代表文档源中的一个转写文稿条目。
// 每次检索请求临时构造，不做持久化。
type TranscriptFile struct {
	ID       string `json:"id"`                // 带后端前缀的不透明标识（s3:objectKey 或本地路径）
	Name     string `json:"name"`              // 原始文件名
	MimeType string `json:"mimeType"`          // 内容类型提示
	Modified string `json:"modified"`          // ISO-8601 时间戳
	Link     string `json:"link"`              // 可解引用的定位符（预签名 URL 或 file:// URI）
	Preview  string `json:"preview,omitempty"` // 仅内容命中时附带的摘录
}

// SearchQuery 是一次转写文稿检索的临时请求参数。
type SearchQuery struct {
	From     string // 可选，MM/DD/YYYY 或 YYYY-MM-DD
	To       string // 可选，闭区间（内部按次日 0 点的开区间处理）
	Keywords string // 可选，逗号/空白分隔
	Limit    int    // 默认 10，硬上限 50
}

// MeetingRecord 是外部数据存储中的一行会议记录。
type MeetingRecord struct {
	Date      string `json:"date,omitempty"`
	Type      string `json:"type,omitempty"`
	Countries string `json:"countries,omitempty"`
	Headline  string `json:"headline,omitempty"`
	Summary   string `json:"summary,omitempty"`
	Author    string `json:"author,omitempty"`
}
