package models

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrSOPNotFound SOP 不存在
var ErrSOPNotFound = errors.New("SOP 不存在")

// SOP 标准作业程序（Standard Operating Procedure）
// 由 AI 根据任务描述生成，创建后不可修改；步骤有序，步骤下标用于自动化建议的归因
type SOP struct {
	ID          string                       `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string                       `gorm:"type:varchar(255);not null" json:"title"`
	Description string                       `gorm:"type:text;not null" json:"description"`
	Steps       datatypes.JSONSlice[string]  `gorm:"not null" json:"steps"`
	CreatedBy   string                       `gorm:"type:uuid;not null;index:idx_sop_created_by" json:"created_by"`
	CreatedAt   time.Time                    `gorm:"not null" json:"created_at"`
}

// BeforeCreate GORM 钩子：创建前设置 ID
func (s *SOP) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	return nil
}

// TableName 指定表名
func (SOP) TableName() string {
	return "sops"
}

// SOPService SOP 管理服务
type SOPService struct {
	db *gorm.DB
}

// NewSOPService 创建 SOP 服务
func NewSOPService(db *gorm.DB) *SOPService {
	return &SOPService{db: db}
}

// Create 持久化 SOP
func (s *SOPService) Create(ctx context.Context, sop *SOP) error {
	return s.db.WithContext(ctx).Create(sop).Error
}

// GetByID 通过 ID 获取 SOP
func (s *SOPService) GetByID(ctx context.Context, id string) (*SOP, error) {
	var sop SOP
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&sop).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSOPNotFound
		}
		return nil, err
	}
	return &sop, nil
}

// ListByUser 列出用户的所有 SOP（按创建时间倒序）
func (s *SOPService) ListByUser(ctx context.Context, userID string) ([]*SOP, error) {
	var sops []*SOP
	err := s.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&sops).Error
	return sops, err
}
