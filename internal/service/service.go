package service

import (
	"go.uber.org/zap"

	"github.com/samarth-p/expertiza/config"
	"github.com/samarth-p/expertiza/internal/repository"
	"github.com/samarth-p/expertiza/pkg/clock"
)

// Service 所有 Service 的聚合入口
type Service struct {
	DueDate DueDateService
}

// NewService 创建 Service 聚合
// 默认权限表在此处从配置构建一次，之后只读
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	clk clock.Clock,
	logger *zap.Logger,
) *Service {
	perms := NewPermissionTable(cfg.Deadline.DefaultPermission)
	return &Service{
		DueDate: NewDueDateService(repo, perms, clk, logger),
	}
}
