package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/samarth-p/expertiza/internal/model"
	"github.com/samarth-p/expertiza/internal/repository"
)

// ── Mock DueDateRepository ──

type mockDueDateRepo struct {
	dueDates  []model.DueDate
	idCounter int
	failOn    int // 第 failOn 次 Create 返回错误（从 1 开始），0 表示不失败
	creates   int
	listErr   error
}

func newMockDueDateRepo() *mockDueDateRepo {
	return &mockDueDateRepo{}
}

// add 直接写入测试数据（不计入 Create 次数）
func (m *mockDueDateRepo) add(kind, parentID string, at time.Time, deadlineType int, teammate model.DeadlineRight) model.DueDate {
	m.idCounter++
	d := model.DueDate{
		DueDateID:               fmt.Sprintf("dd-%d", m.idCounter),
		Type:                    kind,
		ParentID:                parentID,
		DueAt:                   at,
		DeadlineTypeID:          deadlineType,
		TeammateReviewAllowedID: teammate,
	}
	m.dueDates = append(m.dueDates, d)
	return d
}

func (m *mockDueDateRepo) filter(keep func(d model.DueDate) bool) []model.DueDate {
	var result []model.DueDate
	for _, d := range m.dueDates {
		if keep(d) {
			result = append(result, d)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].DueAt.Before(result[j].DueAt) })
	return result
}

func (m *mockDueDateRepo) ListByParent(_ context.Context, parentID string) ([]model.DueDate, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.filter(func(d model.DueDate) bool { return d.ParentID == parentID }), nil
}

func (m *mockDueDateRepo) ListByParentAndType(_ context.Context, kind, parentID string) ([]model.DueDate, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.filter(func(d model.DueDate) bool { return d.Type == kind && d.ParentID == parentID }), nil
}

func (m *mockDueDateRepo) FindNext(_ context.Context, kind, parentID string, from time.Time) (*model.DueDate, error) {
	list := m.filter(func(d model.DueDate) bool {
		return d.Type == kind && d.ParentID == parentID && !d.DueAt.Before(from)
	})
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (m *mockDueDateRepo) CountByParentAndType(_ context.Context, kind, parentID string) (int64, error) {
	var n int64
	for _, d := range m.dueDates {
		if d.Type == kind && d.ParentID == parentID {
			n++
		}
	}
	return n, nil
}

func (m *mockDueDateRepo) Create(_ context.Context, dueDate *model.DueDate) error {
	m.creates++
	if m.failOn > 0 && m.creates == m.failOn {
		return errors.New("写入失败")
	}
	m.idCounter++
	if dueDate.DueDateID == "" {
		dueDate.DueDateID = fmt.Sprintf("dd-%d", m.idCounter)
	}
	m.dueDates = append(m.dueDates, *dueDate)
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.Assignment
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[string]*model.Assignment)}
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ParticipantRepository ──

type mockParticipantRepo struct {
	participants map[string]*model.Participant
}

func newMockParticipantRepo() *mockParticipantRepo {
	return &mockParticipantRepo{participants: make(map[string]*model.Participant)}
}

func (m *mockParticipantRepo) GetByID(_ context.Context, id string) (*model.Participant, error) {
	if p, ok := m.participants[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ResponseMapRepository ──

type mockResponseMapRepo struct {
	maps map[string]*model.ResponseMap
	err  error
}

func newMockResponseMapRepo() *mockResponseMapRepo {
	return &mockResponseMapRepo{maps: make(map[string]*model.ResponseMap)}
}

func (m *mockResponseMapRepo) GetByID(_ context.Context, id string) (*model.ResponseMap, error) {
	if m.err != nil {
		return nil, m.err
	}
	if rm, ok := m.maps[id]; ok {
		return rm, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ResponseRepository ──

type mockResponseRepo struct {
	responses map[string]*model.Response
}

func newMockResponseRepo() *mockResponseRepo {
	return &mockResponseRepo{responses: make(map[string]*model.Response)}
}

func (m *mockResponseRepo) GetByID(_ context.Context, id string) (*model.Response, error) {
	if r, ok := m.responses[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── 组装 ──

type mockRepos struct {
	dueDates     *mockDueDateRepo
	assignments  *mockAssignmentRepo
	participants *mockParticipantRepo
	responseMaps *mockResponseMapRepo
	responses    *mockResponseRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		dueDates:     newMockDueDateRepo(),
		assignments:  newMockAssignmentRepo(),
		participants: newMockParticipantRepo(),
		responseMaps: newMockResponseMapRepo(),
		responses:    newMockResponseRepo(),
	}
	repo := &repository.Repository{
		DueDate:     m.dueDates,
		Assignment:  m.assignments,
		Participant: m.participants,
		ResponseMap: m.responseMaps,
		Response:    m.responses,
	}
	return repo, m
}
