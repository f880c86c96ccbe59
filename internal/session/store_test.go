package session

import (
	"context"
	"fmt"
	"testing"

	"minutes-qa-go/internal/model"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, ok := s.Get(ctx, "s1"); ok {
		t.Fatalf("未引用过的会话不应存在")
	}

	st := State{ContextKey: "fp1"}
	st.History = AppendTurns(st.History, "q1", "a1")
	s.Put(ctx, "s1", st)

	got, ok := s.Get(ctx, "s1")
	if !ok || len(got.History) != 2 || got.ContextKey != "fp1" {
		t.Fatalf("Get: got %+v ok=%v", got, ok)
	}

	// clear 后与从未引用过不可区分
	s.Delete(ctx, "s1")
	if _, ok := s.Get(ctx, "s1"); ok {
		t.Fatalf("Delete 后会话仍存在")
	}
}

func TestAppendTurnsTrims(t *testing.T) {
	var history []model.ChatMessage
	for i := 0; i < 3*MaxHistoryTurns; i++ {
		history = AppendTurns(history, fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		if len(history)%2 != 0 {
			t.Fatalf("历史长度必须为偶数, got %d", len(history))
		}
		if len(history) > 2*MaxHistoryTurns {
			t.Fatalf("历史长度超过上限: %d", len(history))
		}
	}
	// 裁剪从头部开始：最旧的轮次先被丢弃
	if history[0].Text != fmt.Sprintf("q%d", 2*MaxHistoryTurns) {
		t.Errorf("裁剪后首条消息不对: %q", history[0].Text)
	}
	if last := history[len(history)-1]; last.Role != model.RoleModel || last.Text != fmt.Sprintf("a%d", 3*MaxHistoryTurns-1) {
		t.Errorf("末条消息不对: %+v", last)
	}
}
