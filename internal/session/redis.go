package session

import (
	"context"
	"encoding/json"
	"fmt"

	"minutes-qa-go/pkg/log"

	"github.com/go-redis/redis/v8"
)

// redisStore 把会话状态以 JSON 形式存入 Redis，键带会话域前缀。
// 由 session.backend=redis 选入；读写失败按"无历史"降级，不让门面请求失败。
type redisStore struct {
	client *redis.Client
	domain string
}

// NewRedisStore 创建一个 Redis 会话存储，domain 区分通用域与文稿域。
func NewRedisStore(client *redis.Client, domain string) Store {
	return &redisStore{client: client, domain: domain}
}

func (s *redisStore) key(sessionID string) string {
	return fmt.Sprintf("qa:%s:%s", s.domain, sessionID)
}

func (s *redisStore) Get(ctx context.Context, sessionID string) (State, bool) {
	jsonData, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return State{}, false
	}
	if err != nil {
		log.Warnf("[session] 读取会话状态失败, key: %s, err: %v", s.key(sessionID), err)
		return State{}, false
	}
	var st State
	if err := json.Unmarshal([]byte(jsonData), &st); err != nil {
		log.Warnf("[session] 反序列化会话状态失败, key: %s, err: %v", s.key(sessionID), err)
		return State{}, false
	}
	return st, true
}

func (s *redisStore) Put(ctx context.Context, sessionID string, st State) {
	jsonData, err := json.Marshal(st)
	if err != nil {
		log.Warnf("[session] 序列化会话状态失败, key: %s, err: %v", s.key(sessionID), err)
		return
	}
	// 不设 TTL：与内存后端一致，仅显式 clear 或清库才消失
	if err := s.client.Set(ctx, s.key(sessionID), jsonData, 0).Err(); err != nil {
		log.Warnf("[session] 写入会话状态失败, key: %s, err: %v", s.key(sessionID), err)
	}
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		log.Warnf("[session] 删除会话状态失败, key: %s, err: %v", s.key(sessionID), err)
	}
}
