package automation

import (
	"context"
	"testing"

	"backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// failingProvider 健康检查始终失败
type failingProvider struct{}

func (failingProvider) Name() string                            { return "failing" }
func (failingProvider) CheckConnection(ctx context.Context) error { return ErrProviderUnavailable }
func (failingProvider) CreateWorkflow(ctx context.Context, name string, steps []string) (string, error) {
	return "", ErrProviderUnavailable
}

func setupServiceTest(t *testing.T, provider Provider) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SOP{}, &models.Automation{}))

	svc := NewService(models.NewSOPService(db), models.NewAutomationService(db), provider)
	return svc, db
}

func createTestSOP(t *testing.T, db *gorm.DB, userID string) *models.SOP {
	t.Helper()

	sop := &models.SOP{
		Title:       "Monthly Invoice Processing",
		Description: "Process vendor invoices at month end.",
		Steps:       []string{"Download invoice reports", "Send confirmation emails to vendors"},
		CreatedBy:   userID,
	}
	require.NoError(t, db.Create(sop).Error)
	return sop
}

func TestServiceSuggest(t *testing.T) {
	svc, db := setupServiceTest(t, NewSimulatedProvider())
	sop := createTestSOP(t, db, "user-1")

	suggestions, err := svc.Suggest(context.Background(), sop.ID, "user-1")
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Monthly Invoice Processing - Email Notification", suggestions[0].Name)
}

func TestServiceSuggest_NotFound(t *testing.T) {
	svc, _ := setupServiceTest(t, NewSimulatedProvider())

	_, err := svc.Suggest(context.Background(), "missing-sop", "user-1")
	assert.ErrorIs(t, err, models.ErrSOPNotFound)
}

func TestServiceSuggest_Forbidden(t *testing.T) {
	svc, db := setupServiceTest(t, NewSimulatedProvider())
	sop := createTestSOP(t, db, "user-1")

	_, err := svc.Suggest(context.Background(), sop.ID, "user-2")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestServiceSuggest_IgnoresProviderHealth(t *testing.T) {
	// 建议是纯计算，平台不可用不应阻断
	svc, db := setupServiceTest(t, failingProvider{})
	sop := createTestSOP(t, db, "user-1")

	suggestions, err := svc.Suggest(context.Background(), sop.ID, "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, suggestions)
}

func TestServiceConfirm(t *testing.T) {
	svc, db := setupServiceTest(t, NewSimulatedProvider())
	sop := createTestSOP(t, db, "user-1")

	automation, err := svc.Confirm(context.Background(), sop.ID, "user-1", []string{"Email", "Gmail"})
	require.NoError(t, err)

	assert.NotEmpty(t, automation.ID)
	assert.Equal(t, models.AutomationStatusActive, automation.Status)
	assert.Equal(t, sop.ID, automation.SOPID)
	assert.Equal(t, "user-1", automation.UserID)
	assert.Contains(t, automation.WorkflowID, "sim-")

	var count int64
	require.NoError(t, db.Model(&models.Automation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestServiceConfirm_EmptyAppsRejectedBeforeWrite(t *testing.T) {
	svc, db := setupServiceTest(t, NewSimulatedProvider())
	sop := createTestSOP(t, db, "user-1")

	_, err := svc.Confirm(context.Background(), sop.ID, "user-1", nil)
	assert.ErrorIs(t, err, ErrNoAppsSelected)

	var count int64
	require.NoError(t, db.Model(&models.Automation{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestServiceConfirm_Forbidden(t *testing.T) {
	svc, db := setupServiceTest(t, NewSimulatedProvider())
	sop := createTestSOP(t, db, "user-1")

	_, err := svc.Confirm(context.Background(), sop.ID, "user-2", []string{"Email"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestServiceConfirm_ProviderUnavailable(t *testing.T) {
	svc, db := setupServiceTest(t, failingProvider{})
	sop := createTestSOP(t, db, "user-1")

	_, err := svc.Confirm(context.Background(), sop.ID, "user-1", []string{"Email"})
	assert.ErrorIs(t, err, ErrProviderUnavailable)

	var count int64
	require.NoError(t, db.Model(&models.Automation{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestServiceList(t *testing.T) {
	svc, db := setupServiceTest(t, NewSimulatedProvider())
	sop := createTestSOP(t, db, "user-1")

	_, err := svc.Confirm(context.Background(), sop.ID, "user-1", []string{"Email"})
	require.NoError(t, err)

	list, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	other, err := svc.List(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}
