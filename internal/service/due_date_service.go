package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/samarth-p/expertiza/internal/model"
	"github.com/samarth-p/expertiza/internal/repository"
	"github.com/samarth-p/expertiza/pkg/clock"
)

// ── 截止日期模块业务错误 ──

var (
	ErrAssignmentNotFound  = errors.New("作业不存在")
	ErrParticipantNotFound = errors.New("参与者不存在")
	ErrResponseMapNotFound = errors.New("回复映射不存在")
	ErrResponseNotFound    = errors.New("回复不存在")
	ErrTopicRequired       = errors.New("错峰截止作业必须指定选题")
	ErrDueDateCopyFailed   = errors.New("复制截止日期失败")
)

// StageFinished 作业已无后续截止日期
const StageFinished = "Finished"

// CopyError 复制截止日期失败，整个复制已回滚
type CopyError struct {
	OldAssignmentID string
	NewAssignmentID string
	DueDateID       string // 出错的原记录，事务级失败时为空
	Err             error
}

func (e *CopyError) Error() string {
	if e.DueDateID == "" {
		return fmt.Sprintf("%s: %s -> %s: %v", ErrDueDateCopyFailed, e.OldAssignmentID, e.NewAssignmentID, e.Err)
	}
	return fmt.Sprintf("%s: %s -> %s (due_date %s): %v", ErrDueDateCopyFailed, e.OldAssignmentID, e.NewAssignmentID, e.DueDateID, e.Err)
}

func (e *CopyError) Unwrap() []error { return []error{ErrDueDateCopyFailed, e.Err} }

// DueDateService 截止日期业务接口
type DueDateService interface {
	// 默认权限查询
	DefaultPermission(deadlineType, permissionType string) (model.DeadlineRight, error)
	// 计算回复所属评审轮次
	CalculateAssignmentRound(ctx context.Context, assignmentID string, response *model.Response) (int, error)
	// 按回复 ID 计算轮次
	RoundForResponse(ctx context.Context, assignmentID, responseID string) (int, error)
	// 当前是否允许队友互评
	TeammateReviewAllowed(ctx context.Context, participantID string) (bool, error)
	// 作业当前阶段（下一个截止类型名称或 Finished）
	CurrentStage(ctx context.Context, assignmentID string, topicID *string) (string, error)
	// 复制整套截止日期到新作业
	Copy(ctx context.Context, oldAssignmentID, newAssignmentID string) error
	// 下一个截止日期（错峰作业按选题解析）
	GetNextDueDate(ctx context.Context, assignmentID string, topicID *string) (*model.DueDate, error)
	// 选题下一个截止日期，选题自身已过期时顺延到作业截止序列
	FindNextTopicDueDate(ctx context.Context, assignmentID, topicID string) (*model.DueDate, error)
	// 父对象下全部截止日期（已排序）
	ListDueDates(ctx context.Context, parentID string) ([]model.DueDate, error)
}

type dueDateService struct {
	repo   *repository.Repository
	perms  *PermissionTable
	clock  clock.Clock
	logger *zap.Logger
}

// NewDueDateService 创建 DueDateService 实例
func NewDueDateService(repo *repository.Repository, perms *PermissionTable, clk clock.Clock, logger *zap.Logger) DueDateService {
	if clk == nil {
		clk = clock.System()
	}
	return &dueDateService{repo: repo, perms: perms, clock: clk, logger: logger}
}

// ────────────────────── DefaultPermission ──────────────────────

func (s *dueDateService) DefaultPermission(deadlineType, permissionType string) (model.DeadlineRight, error) {
	right, err := s.perms.Lookup(deadlineType, permissionType)
	if err != nil {
		s.logger.Warn("默认权限未配置",
			zap.String("deadline_type", deadlineType),
			zap.String("permission_type", permissionType),
		)
		return 0, err
	}
	return right, nil
}

// ────────────────────── CalculateAssignmentRound ──────────────────────

func (s *dueDateService) CalculateAssignmentRound(ctx context.Context, assignmentID string, response *model.Response) (int, error) {
	responseMap, err := s.repo.ResponseMap.GetByID(ctx, response.MapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrResponseMapNotFound
		}
		s.logger.Error("查询回复映射失败", zap.String("map_id", response.MapID), zap.Error(err))
		return 0, err
	}
	// 只有同行评审回复按轮次组织
	if !responseMap.IsReview() {
		return 0, nil
	}

	dueDates, err := s.repo.DueDate.ListByParent(ctx, assignmentID)
	if err != nil {
		s.logger.Error("查询截止日期失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return 0, err
	}

	return DetermineRound(response.CreatedAt, SortDueDates(dueDates)), nil
}

func (s *dueDateService) RoundForResponse(ctx context.Context, assignmentID, responseID string) (int, error) {
	response, err := s.repo.Response.GetByID(ctx, responseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrResponseNotFound
		}
		s.logger.Error("查询回复失败", zap.String("response_id", responseID), zap.Error(err))
		return 0, err
	}
	return s.CalculateAssignmentRound(ctx, assignmentID, response)
}

// ────────────────────── TeammateReviewAllowed ──────────────────────

func (s *dueDateService) TeammateReviewAllowed(ctx context.Context, participantID string) (bool, error) {
	participant, err := s.repo.Participant.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrParticipantNotFound
		}
		s.logger.Error("查询参与者失败", zap.String("participant_id", participantID), zap.Error(err))
		return false, err
	}

	// 尚未选题的参与者按作业截止序列从头查找，错峰与否结果相同
	var next *model.DueDate
	if participant.TopicID == nil || *participant.TopicID == "" {
		next, err = s.nextAssignmentDueDate(ctx, participant.AssignmentID)
	} else {
		next, err = s.GetNextDueDate(ctx, participant.AssignmentID, participant.TopicID)
	}
	if err != nil {
		return false, err
	}
	if next == nil {
		// 阶段已结束
		return true, nil
	}

	dueDates, err := s.repo.DueDate.ListByParentAndType(ctx, model.DueDateKindAssignment, participant.AssignmentID)
	if err != nil {
		s.logger.Error("查询截止日期失败", zap.String("assignment_id", participant.AssignmentID), zap.Error(err))
		return false, err
	}

	current := firstDueAfter(SortDueDates(dueDates), s.clock.Now())
	if current == nil {
		return false, nil
	}
	return current.TeammateReviewAllowedID.Allows(), nil
}

// ────────────────────── CurrentStage ──────────────────────

func (s *dueDateService) CurrentStage(ctx context.Context, assignmentID string, topicID *string) (string, error) {
	next, err := s.GetNextDueDate(ctx, assignmentID, topicID)
	if err != nil {
		return "", err
	}
	if next == nil {
		return StageFinished, nil
	}
	return model.DeadlineTypeName(next.DeadlineTypeID), nil
}

// ────────────────────── Copy ──────────────────────

func (s *dueDateService) Copy(ctx context.Context, oldAssignmentID, newAssignmentID string) error {
	// 读取与写入在同一事务内，任一失败整体回滚
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return &CopyError{OldAssignmentID: oldAssignmentID, NewAssignmentID: newAssignmentID, Err: err}
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	dueDates, err := txRepo.DueDate.ListByParent(ctx, oldAssignmentID)
	if err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("查询截止日期失败", zap.String("assignment_id", oldAssignmentID), zap.Error(err))
		return &CopyError{OldAssignmentID: oldAssignmentID, NewAssignmentID: newAssignmentID, Err: err}
	}

	for i := range dueDates {
		dup := dueDates[i].Duplicate(newAssignmentID)
		if err := txRepo.DueDate.Create(ctx, &dup); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("复制截止日期失败",
				zap.String("old_assignment_id", oldAssignmentID),
				zap.String("new_assignment_id", newAssignmentID),
				zap.String("due_date_id", dueDates[i].DueDateID),
				zap.Error(err),
			)
			return &CopyError{
				OldAssignmentID: oldAssignmentID,
				NewAssignmentID: newAssignmentID,
				DueDateID:       dueDates[i].DueDateID,
				Err:             err,
			}
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return &CopyError{OldAssignmentID: oldAssignmentID, NewAssignmentID: newAssignmentID, Err: err}
		}
	}

	s.logger.Info("截止日期复制完成",
		zap.String("old_assignment_id", oldAssignmentID),
		zap.String("new_assignment_id", newAssignmentID),
		zap.Int("count", len(dueDates)),
	)
	return nil
}

// ────────────────────── GetNextDueDate ──────────────────────

func (s *dueDateService) GetNextDueDate(ctx context.Context, assignmentID string, topicID *string) (*model.DueDate, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询作业失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return nil, err
	}

	if assignment.StaggeredDeadline {
		if topicID == nil || *topicID == "" {
			return nil, ErrTopicRequired
		}
		return s.FindNextTopicDueDate(ctx, assignmentID, *topicID)
	}

	return s.nextAssignmentDueDate(ctx, assignmentID)
}

// nextAssignmentDueDate 作业级截止日期中 due_at >= now 的最早一条
func (s *dueDateService) nextAssignmentDueDate(ctx context.Context, assignmentID string) (*model.DueDate, error) {
	next, err := s.repo.DueDate.FindNext(ctx, model.DueDateKindAssignment, assignmentID, s.clock.Now())
	if err != nil {
		s.logger.Error("查询下一个截止日期失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return nil, err
	}
	return next, nil
}

// ────────────────────── FindNextTopicDueDate ──────────────────────

func (s *dueDateService) FindNextTopicDueDate(ctx context.Context, assignmentID, topicID string) (*model.DueDate, error) {
	now := s.clock.Now()

	next, err := s.repo.DueDate.FindNext(ctx, model.DueDateKindTopic, topicID, now)
	if err != nil {
		s.logger.Error("查询选题截止日期失败", zap.String("topic_id", topicID), zap.Error(err))
		return nil, err
	}
	if next != nil {
		return next, nil
	}

	// 选题自有截止日期已全部过期：它们占用了作业截止序列的前 N 个位置，
	// 从第 N+1 个作业截止日期开始继续查找
	topicCount, err := s.repo.DueDate.CountByParentAndType(ctx, model.DueDateKindTopic, topicID)
	if err != nil {
		s.logger.Error("统计选题截止日期失败", zap.String("topic_id", topicID), zap.Error(err))
		return nil, err
	}

	assignmentDueDates, err := s.repo.DueDate.ListByParentAndType(ctx, model.DueDateKindAssignment, assignmentID)
	if err != nil {
		s.logger.Error("查询作业截止日期失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return nil, err
	}
	sorted := SortDueDates(assignmentDueDates)
	if topicCount >= int64(len(sorted)) {
		return nil, nil
	}

	return firstDueFrom(sorted[topicCount:], now), nil
}

// ────────────────────── ListDueDates ──────────────────────

func (s *dueDateService) ListDueDates(ctx context.Context, parentID string) ([]model.DueDate, error) {
	dueDates, err := s.repo.DueDate.ListByParent(ctx, parentID)
	if err != nil {
		s.logger.Error("查询截止日期失败", zap.String("parent_id", parentID), zap.Error(err))
		return nil, err
	}
	return SortDueDates(dueDates), nil
}
