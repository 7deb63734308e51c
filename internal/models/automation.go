package models

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrAutomationNotFound 自动化记录不存在
var ErrAutomationNotFound = errors.New("自动化记录不存在")

// 自动化状态
const (
	AutomationStatusSuggested = "suggested"
	AutomationStatusActive    = "active"
	AutomationStatusPending   = "pending"
	AutomationStatusCompleted = "completed"
)

// Automation 已确认的自动化记录
// 用户从建议中确认（或手动提交）后写入，创建后不可修改
type Automation struct {
	ID            string                      `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string                      `gorm:"type:varchar(255);not null" json:"name"`
	Status        string                      `gorm:"type:varchar(50);not null" json:"status"` // suggested, active, pending, completed
	ConnectedApps datatypes.JSONSlice[string] `gorm:"not null" json:"connected_apps"`
	SOPID         string                      `gorm:"type:uuid;not null;index:idx_automation_sop" json:"sop_id"`
	UserID        string                      `gorm:"type:uuid;not null;index:idx_automation_user" json:"user_id"`
	WorkflowID    string                      `gorm:"type:varchar(255)" json:"workflow_id,omitempty"` // 外部平台的工作流标识
	CreatedAt     time.Time                   `gorm:"not null" json:"created_at"`
}

// BeforeCreate GORM 钩子：创建前设置 ID
func (a *Automation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	return nil
}

// TableName 指定表名
func (Automation) TableName() string {
	return "automations"
}

// AutomationService 自动化记录管理服务
type AutomationService struct {
	db *gorm.DB
}

// NewAutomationService 创建自动化记录服务
func NewAutomationService(db *gorm.DB) *AutomationService {
	return &AutomationService{db: db}
}

// Create 持久化自动化记录
func (s *AutomationService) Create(ctx context.Context, automation *Automation) error {
	return s.db.WithContext(ctx).Create(automation).Error
}

// GetByID 通过 ID 获取自动化记录
func (s *AutomationService) GetByID(ctx context.Context, id string) (*Automation, error) {
	var automation Automation
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&automation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAutomationNotFound
		}
		return nil, err
	}
	return &automation, nil
}

// ListByUser 列出用户的所有自动化记录（按创建时间倒序）
func (s *AutomationService) ListByUser(ctx context.Context, userID string) ([]*Automation, error) {
	var automations []*Automation
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&automations).Error
	return automations, err
}
