package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionCache 会话的 Redis 缓存层
// 只做加速，不是事实来源；Redis 不可用时调用方退回数据库
type RedisSessionCache struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionCache 创建 Redis 会话缓存
func NewRedisSessionCache(client *redis.Client) *RedisSessionCache {
	return &RedisSessionCache{
		client: client,
		prefix: "session:",
	}
}

// Set 写入会话缓存，TTL 与会话剩余有效期一致
func (c *RedisSessionCache) Set(ctx context.Context, session *Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return c.client.Set(ctx, c.prefix+session.Token, data, ttl).Err()
}

// Get 读取会话缓存，未命中返回 (nil, nil)
func (c *RedisSessionCache) Get(ctx context.Context, token string) (*Session, error) {
	data, err := c.client.Get(ctx, c.prefix+token).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	return &session, nil
}

// Delete 删除会话缓存
func (c *RedisSessionCache) Delete(ctx context.Context, token string) error {
	return c.client.Del(ctx, c.prefix+token).Err()
}
