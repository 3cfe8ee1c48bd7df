package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/samarth-p/expertiza/internal/model"
	"github.com/samarth-p/expertiza/internal/service"
)

// ── Mock DueDateService ──

type mockDueDateService struct {
	permResult  model.DeadlineRight
	permErr     error
	roundResult int
	roundErr    error
	allowed     bool
	allowedErr  error
	stageResult string
	stageErr    error
	copyErr     error
	nextResult  *model.DueDate
	nextErr     error
	listResult  []model.DueDate
	listErr     error

	// 记录调用参数
	gotTopic *string
	gotCopy  [2]string
	gotRound [2]string
}

func (m *mockDueDateService) DefaultPermission(_, _ string) (model.DeadlineRight, error) {
	return m.permResult, m.permErr
}
func (m *mockDueDateService) CalculateAssignmentRound(_ context.Context, _ string, _ *model.Response) (int, error) {
	return m.roundResult, m.roundErr
}
func (m *mockDueDateService) RoundForResponse(_ context.Context, assignmentID, responseID string) (int, error) {
	m.gotRound = [2]string{assignmentID, responseID}
	return m.roundResult, m.roundErr
}
func (m *mockDueDateService) TeammateReviewAllowed(_ context.Context, _ string) (bool, error) {
	return m.allowed, m.allowedErr
}
func (m *mockDueDateService) CurrentStage(_ context.Context, _ string, topicID *string) (string, error) {
	m.gotTopic = topicID
	return m.stageResult, m.stageErr
}
func (m *mockDueDateService) Copy(_ context.Context, oldID, newID string) error {
	m.gotCopy = [2]string{oldID, newID}
	return m.copyErr
}
func (m *mockDueDateService) GetNextDueDate(_ context.Context, _ string, topicID *string) (*model.DueDate, error) {
	m.gotTopic = topicID
	return m.nextResult, m.nextErr
}
func (m *mockDueDateService) FindNextTopicDueDate(_ context.Context, _, _ string) (*model.DueDate, error) {
	return m.nextResult, m.nextErr
}
func (m *mockDueDateService) ListDueDates(_ context.Context, _ string) ([]model.DueDate, error) {
	return m.listResult, m.listErr
}

// ── 测试工具 ──

func runCmd(t *testing.T, mock *mockDueDateService, app *App, args ...string) (string, error) {
	t.Helper()
	if app == nil {
		app = &App{}
	}
	app.Service = &service.Service{DueDate: mock}

	root := NewRootCmd("test", func(string) (*App, error) { return app, nil })
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

var dueAt = time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)

// ── 测试用例 ──

func TestCopyCmd(t *testing.T) {
	mock := &mockDueDateService{}
	out, err := runCmd(t, mock, nil, "copy", "asg-1", "asg-2")
	if err != nil {
		t.Fatalf("copy 应成功: %v", err)
	}
	if mock.gotCopy != [2]string{"asg-1", "asg-2"} {
		t.Errorf("参数传递错误: %v", mock.gotCopy)
	}
	if !strings.Contains(out, "asg-1 -> asg-2") {
		t.Errorf("输出不符: %q", out)
	}
}

func TestCopyCmd_Error(t *testing.T) {
	mock := &mockDueDateService{copyErr: service.ErrDueDateCopyFailed}
	_, err := runCmd(t, mock, nil, "copy", "asg-1", "asg-2")
	if !errors.Is(err, service.ErrDueDateCopyFailed) {
		t.Errorf("期望 ErrDueDateCopyFailed，实际 %v", err)
	}
}

func TestCopyCmd_ArgCount(t *testing.T) {
	_, err := runCmd(t, &mockDueDateService{}, nil, "copy", "asg-1")
	if err == nil {
		t.Error("缺少参数时应报错")
	}
}

func TestNextCmd(t *testing.T) {
	mock := &mockDueDateService{nextResult: &model.DueDate{
		DueDateID:               "dd-1",
		Type:                    model.DueDateKindTopic,
		DueAt:                   dueAt,
		DeadlineTypeID:          model.DeadlineTypeReview,
		TeammateReviewAllowedID: model.DeadlineRightOK,
	}}
	out, err := runCmd(t, mock, nil, "next", "asg-1", "--topic", "t-1")
	if err != nil {
		t.Fatalf("next 应成功: %v", err)
	}
	if mock.gotTopic == nil || *mock.gotTopic != "t-1" {
		t.Errorf("--topic 未传递")
	}
	for _, want := range []string{"dd-1", "2026-03-12T09:00:00Z", "review"} {
		if !strings.Contains(out, want) {
			t.Errorf("输出缺少 %q: %q", want, out)
		}
	}
}

func TestNextCmd_NoTopicAndNone(t *testing.T) {
	mock := &mockDueDateService{}
	out, err := runCmd(t, mock, nil, "next", "asg-1")
	if err != nil {
		t.Fatalf("next 应成功: %v", err)
	}
	if mock.gotTopic != nil {
		t.Errorf("未指定 --topic 时应传 nil")
	}
	if !strings.Contains(out, "无后续截止日期") {
		t.Errorf("输出不符: %q", out)
	}
}

func TestNextCmd_TopicRequired(t *testing.T) {
	mock := &mockDueDateService{nextErr: service.ErrTopicRequired}
	_, err := runCmd(t, mock, nil, "next", "asg-1")
	if !errors.Is(err, service.ErrTopicRequired) {
		t.Errorf("期望 ErrTopicRequired，实际 %v", err)
	}
}

func TestStageCmd(t *testing.T) {
	mock := &mockDueDateService{stageResult: service.StageFinished}
	out, err := runCmd(t, mock, nil, "stage", "asg-1")
	if err != nil {
		t.Fatalf("stage 应成功: %v", err)
	}
	if strings.TrimSpace(out) != "Finished" {
		t.Errorf("输出不符: %q", out)
	}
}

func TestRoundCmd(t *testing.T) {
	mock := &mockDueDateService{roundResult: 2}
	out, err := runCmd(t, mock, nil, "round", "asg-1", "resp-1")
	if err != nil {
		t.Fatalf("round 应成功: %v", err)
	}
	if mock.gotRound != [2]string{"asg-1", "resp-1"} {
		t.Errorf("参数传递错误: %v", mock.gotRound)
	}
	if strings.TrimSpace(out) != "2" {
		t.Errorf("输出不符: %q", out)
	}
}

func TestTeammateReviewCmd(t *testing.T) {
	out, err := runCmd(t, &mockDueDateService{allowed: true}, nil, "teammate-review", "p-1")
	if err != nil {
		t.Fatalf("teammate-review 应成功: %v", err)
	}
	if strings.TrimSpace(out) != "true" {
		t.Errorf("输出不符: %q", out)
	}

	_, err = runCmd(t, &mockDueDateService{allowedErr: service.ErrParticipantNotFound}, nil, "teammate-review", "p-x")
	if !errors.Is(err, service.ErrParticipantNotFound) {
		t.Errorf("期望 ErrParticipantNotFound，实际 %v", err)
	}
}

func TestPermissionCmd(t *testing.T) {
	out, err := runCmd(t, &mockDueDateService{permResult: model.DeadlineRightOK}, nil, "permission", "submission", "submission")
	if err != nil {
		t.Fatalf("permission 应成功: %v", err)
	}
	if !strings.Contains(out, "3 (OK)") {
		t.Errorf("输出不符: %q", out)
	}

	_, err = runCmd(t, &mockDueDateService{permErr: service.ErrDefaultPermissionMissing}, nil, "permission", "quiz", "submission")
	if !errors.Is(err, service.ErrDefaultPermissionMissing) {
		t.Errorf("期望 ErrDefaultPermissionMissing，实际 %v", err)
	}
}

func TestListCmd(t *testing.T) {
	mock := &mockDueDateService{listResult: []model.DueDate{
		{DueDateID: "dd-1", Type: model.DueDateKindAssignment, DueAt: dueAt, DeadlineTypeID: model.DeadlineTypeSubmission},
		{DueDateID: "dd-2", Type: model.DueDateKindAssignment, DueAt: dueAt.Add(24 * time.Hour), DeadlineTypeID: 99},
	}}
	out, err := runCmd(t, mock, nil, "list", "asg-1")
	if err != nil {
		t.Fatalf("list 应成功: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("期望 2 行，实际 %d 行: %q", len(lines), out)
	}
	if !strings.Contains(lines[1], "type-99") {
		t.Errorf("未知截止类型应输出编号: %q", lines[1])
	}
}

func TestMigrateCmd(t *testing.T) {
	called := false
	closed := false
	app := &App{
		Migrate: func(context.Context) error { called = true; return nil },
		Close:   func() { closed = true },
	}
	out, err := runCmd(t, &mockDueDateService{}, app, "migrate")
	if err != nil {
		t.Fatalf("migrate 应成功: %v", err)
	}
	if !called {
		t.Error("Migrate 未被调用")
	}
	if closed {
		t.Error("NewRootCmd 不负责释放依赖")
	}
	if !strings.Contains(out, "迁移完成") {
		t.Errorf("输出不符: %q", out)
	}
}

func TestMigrateCmd_Down(t *testing.T) {
	var gotSteps int
	migrated := false
	app := &App{
		Migrate:  func(context.Context) error { migrated = true; return nil },
		Rollback: func(_ context.Context, steps int) error { gotSteps = steps; return nil },
	}
	out, err := runCmd(t, &mockDueDateService{}, app, "migrate", "--down", "1")
	if err != nil {
		t.Fatalf("migrate --down 应成功: %v", err)
	}
	if gotSteps != 1 || migrated {
		t.Errorf("期望只回滚 1 步，实际 steps=%d migrated=%v", gotSteps, migrated)
	}
	if !strings.Contains(out, "已回滚 1 个迁移") {
		t.Errorf("输出不符: %q", out)
	}
}

func TestMigrateCmd_DownInvalid(t *testing.T) {
	called := false
	app := &App{Rollback: func(context.Context, int) error { called = true; return nil }}
	if _, err := runCmd(t, &mockDueDateService{}, app, "migrate", "--down", "0"); err == nil {
		t.Error("--down 0 应报错")
	}
	if called {
		t.Error("参数非法时不应执行回滚")
	}
}

func TestExecute_ClosesOnError(t *testing.T) {
	closed := false
	boot := func(string) (*App, error) {
		return &App{
			Service: &service.Service{DueDate: &mockDueDateService{stageErr: service.ErrAssignmentNotFound}},
			Close:   func() { closed = true },
		}, nil
	}
	err := Execute(context.Background(), "test", boot, []string{"stage", "asg-x"})
	if !errors.Is(err, service.ErrAssignmentNotFound) {
		t.Errorf("期望 ErrAssignmentNotFound，实际 %v", err)
	}
	if !closed {
		t.Error("命令失败时也应释放依赖")
	}
}

func TestExecute_HelpSkipsBootstrap(t *testing.T) {
	called := false
	boot := func(string) (*App, error) { called = true; return &App{}, nil }
	if err := Execute(context.Background(), "test", boot, []string{"--help"}); err != nil {
		t.Fatalf("--help 不应报错: %v", err)
	}
	if called {
		t.Error("--help 不应触发依赖组装")
	}
}

func TestBootstrapError(t *testing.T) {
	bootErr := errors.New("数据库连接失败")
	root := NewRootCmd("test", func(string) (*App, error) { return nil, bootErr })
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"list", "asg-1"})
	if err := root.ExecuteContext(context.Background()); !errors.Is(err, bootErr) {
		t.Errorf("期望组装错误透传，实际 %v", err)
	}
}

func TestConfigFlagPassedToBootstrap(t *testing.T) {
	var got string
	root := NewRootCmd("test", func(path string) (*App, error) {
		got = path
		return &App{Service: &service.Service{DueDate: &mockDueDateService{}}}, nil
	})
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", "/etc/deadline.yaml", "stage", "asg-1"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("执行失败: %v", err)
	}
	if got != "/etc/deadline.yaml" {
		t.Errorf("--config 未传递，实际 %q", got)
	}
}
