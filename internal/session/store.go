// Package session 维护按会话 id 索引的滚动对话状态。
// 通用问答与文稿问答是两个互不相干的会话域，各持有一个 Store 实例。
package session

import (
	"context"
	"sync"

	"minutes-qa-go/internal/model"
)

// MaxHistoryTurns 是单个会话保留的最大问答轮数（一轮 = user + model 两条）。
const MaxHistoryTurns = 20

// State 是某会话域下一个会话的全部状态。
type State struct {
	// History 按插入顺序保存 user/model 成对消息，长度恒为偶数。
	History []model.ChatMessage `json:"history"`
	// ContextKey 标识"当前已加载的上下文"：通用域为过滤参数指纹，
	// 文稿域为文稿 id。与新请求不一致时历史作废。
	ContextKey string `json:"contextKey"`
}

// Store 是会话状态存储的抽象，按会话 id 取放删。
// 实现可替换为持久化或分布式后端而不影响调用方。
type Store interface {
	Get(ctx context.Context, sessionID string) (State, bool)
	Put(ctx context.Context, sessionID string, st State)
	Delete(ctx context.Context, sessionID string)
}

// AppendTurns 追加一对 user/model 消息并从头部裁剪超出上限的旧消息。
func AppendTurns(history []model.ChatMessage, userText, modelText string) []model.ChatMessage {
	history = append(history,
		model.ChatMessage{Role: model.RoleUser, Text: userText},
		model.ChatMessage{Role: model.RoleModel, Text: modelText},
	)
	if max := 2 * MaxHistoryTurns; len(history) > max {
		history = history[len(history)-max:]
	}
	return history
}

// memoryStore 是默认的进程内存储：进程重启即丢失，无 TTL。
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]State
}

// NewMemoryStore 创建一个进程内会话存储。
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]State)}
}

func (s *memoryStore) Get(_ context.Context, sessionID string) (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[sessionID]
	return st, ok
}

func (s *memoryStore) Put(_ context.Context, sessionID string, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = st
}

// Delete 整体移除会话条目，后续 Get 等同于从未引用过该会话。
func (s *memoryStore) Delete(_ context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
