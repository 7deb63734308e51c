package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"backend/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrSessionNotFound 会话不存在或已失效
var ErrSessionNotFound = errors.New("会话不存在或已失效")

// Session 用户会话，Cookie 中只存放不透明的 Token
type Session struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index:idx_session_user" json:"user_id"`
	Token     string    `gorm:"type:varchar(128);not null;uniqueIndex" json:"-"` // 不返回给客户端
	IPAddress string    `gorm:"type:varchar(100)" json:"ip_address"`
	UserAgent string    `gorm:"type:text" json:"user_agent"`
	ExpiresAt time.Time `gorm:"not null;index:idx_session_expires" json:"expires_at"`
	IsRevoked bool      `gorm:"default:false" json:"is_revoked"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// BeforeCreate GORM 钩子：创建前设置 ID 和 Token
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Token == "" {
		token, err := generateSessionToken()
		if err != nil {
			return err
		}
		s.Token = token
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	return nil
}

// TableName 指定表名
func (Session) TableName() string {
	return "sessions"
}

// IsExpired 检查会话是否过期
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsValid 检查会话是否有效
func (s *Session) IsValid() bool {
	return !s.IsRevoked && !s.IsExpired()
}

// generateSessionToken 生成随机会话令牌
func generateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// SessionService 会话管理服务
// cache 可为 nil（Redis 不可用时仅走数据库）
type SessionService struct {
	db    *gorm.DB
	cache *RedisSessionCache
	ttl   time.Duration
}

// NewSessionService 创建会话服务
func NewSessionService(db *gorm.DB, cache *RedisSessionCache, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{db: db, cache: cache, ttl: ttl}
}

// Create 为用户创建新会话
func (s *SessionService) Create(ctx context.Context, userID, ip, userAgent string) (*Session, error) {
	session := &Session{
		UserID:    userID,
		IPAddress: ip,
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}

	if s.cache != nil {
		// 缓存失败不影响主流程
		_ = s.cache.Set(ctx, session)
	}

	return session, nil
}

// GetByToken 通过令牌获取有效会话
func (s *SessionService) GetByToken(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	// 先查缓存
	if s.cache != nil {
		if session, err := s.cache.Get(ctx, token); err == nil && session != nil {
			if session.IsValid() {
				return session, nil
			}
			return nil, ErrSessionNotFound
		}
	}

	var session Session
	err := s.db.WithContext(ctx).
		Where("token = ? AND is_revoked = ?", token, false).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if session.IsExpired() {
		return nil, ErrSessionNotFound
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, &session)
	}

	return &session, nil
}

// Revoke 撤销会话（登出）
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, token)
	}

	return s.db.WithContext(ctx).
		Model(&Session{}).
		Where("token = ?", token).
		Update("is_revoked", true).Error
}

// CleanupExpired 清理过期会话
func (s *SessionService) CleanupExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ? AND is_revoked = ?", time.Now(), false).
		Model(&Session{}).
		Update("is_revoked", true)
	return result.RowsAffected, result.Error
}

// RunCleanup 按固定间隔清理过期会话，阻塞直到 ctx 取消
func (s *SessionService) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.CleanupExpired(ctx); err != nil {
				logger.Warn("清理过期会话失败", zap.Error(err))
			} else if n > 0 {
				logger.Info("已清理过期会话", zap.Int64("count", n))
			}
		}
	}
}
