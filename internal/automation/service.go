package automation

import (
	"context"
	"errors"

	"backend/internal/logger"
	"backend/internal/models"

	"go.uber.org/zap"
)

// ErrForbidden 访问了不属于当前用户的资源
var ErrForbidden = errors.New("无权访问该资源")

// ErrNoAppsSelected 确认自动化时未选择任何应用
var ErrNoAppsSelected = errors.New("请至少选择一个关联应用")

// Service 自动化业务服务
// 建议计算是纯函数，不触网；确认时才调用外部平台创建工作流
type Service struct {
	sops        *models.SOPService
	automations *models.AutomationService
	provider    Provider
	patterns    []Pattern
}

// NewService 创建自动化服务
func NewService(sops *models.SOPService, automations *models.AutomationService, provider Provider) *Service {
	return &Service{
		sops:        sops,
		automations: automations,
		provider:    provider,
		patterns:    DefaultPatterns,
	}
}

// Suggest 计算指定 SOP 的自动化建议
// 校验归属后交给 SuggestAutomations，不依赖外部平台连通性
func (s *Service) Suggest(ctx context.Context, sopID, userID string) ([]SuggestedAutomation, error) {
	sop, err := s.sops.GetByID(ctx, sopID)
	if err != nil {
		return nil, err
	}
	if sop.CreatedBy != userID {
		return nil, ErrForbidden
	}

	return SuggestAutomations(sop, s.patterns), nil
}

// Confirm 确认一条自动化建议
// 校验输入和归属，向外部平台创建工作流，持久化为 active 状态的记录
func (s *Service) Confirm(ctx context.Context, sopID, userID string, connectedApps []string) (*models.Automation, error) {
	if len(connectedApps) == 0 {
		return nil, ErrNoAppsSelected
	}

	sop, err := s.sops.GetByID(ctx, sopID)
	if err != nil {
		return nil, err
	}
	if sop.CreatedBy != userID {
		return nil, ErrForbidden
	}

	if err := s.provider.CheckConnection(ctx); err != nil {
		return nil, err
	}

	workflowID, err := s.provider.CreateWorkflow(ctx, sop.Title, sop.Steps)
	if err != nil {
		return nil, err
	}

	automation := &models.Automation{
		Name:          sop.Title + " Automation",
		Status:        models.AutomationStatusActive,
		ConnectedApps: connectedApps,
		SOPID:         sop.ID,
		UserID:        userID,
		WorkflowID:    workflowID,
	}

	if err := s.automations.Create(ctx, automation); err != nil {
		return nil, err
	}

	logger.Info("自动化创建成功",
		zap.String("automation_id", automation.ID),
		zap.String("sop_id", sop.ID),
		zap.String("provider", s.provider.Name()),
		zap.String("workflow_id", workflowID),
	)

	return automation, nil
}

// List 列出用户的全部自动化记录
func (s *Service) List(ctx context.Context, userID string) ([]*models.Automation, error) {
	return s.automations.ListByUser(ctx, userID)
}
