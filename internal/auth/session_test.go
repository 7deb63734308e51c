package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func setupSessionTest(t *testing.T, ttl time.Duration) *SessionService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Session{}))

	return NewSessionService(db, nil, ttl)
}

func TestSessionCreateAndGet(t *testing.T) {
	svc := setupSessionTest(t, time.Hour)

	session, err := svc.Create(context.Background(), "user-1", "127.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Len(t, session.Token, 64) // 32 字节十六进制

	loaded, err := svc.GetByToken(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", loaded.UserID)
}

func TestSessionGetByToken_Invalid(t *testing.T) {
	svc := setupSessionTest(t, time.Hour)

	_, err := svc.GetByToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.GetByToken(context.Background(), "unknown-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionExpiry(t *testing.T) {
	svc := setupSessionTest(t, time.Millisecond)

	session, err := svc.Create(context.Background(), "user-1", "", "")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = svc.GetByToken(context.Background(), session.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRevoke(t *testing.T) {
	svc := setupSessionTest(t, time.Hour)

	session, err := svc.Create(context.Background(), "user-1", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), session.Token))

	_, err = svc.GetByToken(context.Background(), session.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionCleanupExpired(t *testing.T) {
	svc := setupSessionTest(t, time.Millisecond)

	_, err := svc.Create(context.Background(), "user-1", "", "")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	cleaned, err := svc.CleanupExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleaned)
}

func TestSessionRunCleanup(t *testing.T) {
	svc := setupSessionTest(t, time.Millisecond)

	_, err := svc.Create(context.Background(), "user-1", "", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunCleanup(ctx, time.Millisecond)
		close(done)
	}()

	// 等待若干清理周期执行
	time.Sleep(50 * time.Millisecond)

	// 过期会话应已被循环清理
	n, err := svc.CleanupExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	// 取消 ctx 后循环必须退出
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("取消 ctx 后清理循环未退出")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
