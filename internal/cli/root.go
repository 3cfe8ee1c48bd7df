package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/samarth-p/expertiza/internal/service"
)

// App 命令执行所需的依赖
type App struct {
	Service *service.Service
	// Migrate 执行数据库迁移
	Migrate func(ctx context.Context) error
	// Rollback 回滚最近 steps 个迁移
	Rollback func(ctx context.Context, steps int) error
	// Close 释放数据库连接、刷新日志
	Close func()
}

// Bootstrap 按配置文件路径组装 App
type Bootstrap func(configPath string) (*App, error)

type rootState struct {
	configPath string
	bootstrap  Bootstrap
	app        *App
}

// NewRootCmd 创建 deadlinectl 根命令
// 依赖在子命令执行前按需组装，--help 等不触发数据库连接
func NewRootCmd(version string, bootstrap Bootstrap) *cobra.Command {
	st := &rootState{bootstrap: bootstrap}

	root := &cobra.Command{
		Use:     "deadlinectl",
		Short:   "作业截止日期运维工具",
		Version: version,
		Long: `deadlinectl 对作业截止日期执行查询与维护操作。

示例:
  # 执行数据库迁移
  deadlinectl migrate

  # 将作业 A 的截止日期复制到作业 B
  deadlinectl copy <old_assignment_id> <new_assignment_id>

  # 查询错峰作业某选题的下一个截止日期
  deadlinectl next <assignment_id> --topic <topic_id>
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&st.configPath, "config", "c", "", "配置文件路径（默认 ./config/config.yaml）")

	root.AddCommand(
		newMigrateCmd(st),
		newCopyCmd(st),
		newNextCmd(st),
		newStageCmd(st),
		newRoundCmd(st),
		newTeammateReviewCmd(st),
		newPermissionCmd(st),
		newListCmd(st),
	)
	return root
}

// Execute 执行命令行，结束后释放已组装的依赖
// args 为 nil 时使用 os.Args[1:]
func Execute(ctx context.Context, version string, bootstrap Bootstrap, args []string) error {
	var app *App
	root := NewRootCmd(version, func(configPath string) (*App, error) {
		a, err := bootstrap(configPath)
		app = a
		return a, err
	})
	if args != nil {
		root.SetArgs(args)
	}
	defer func() {
		if app != nil && app.Close != nil {
			app.Close()
		}
	}()
	return root.ExecuteContext(ctx)
}

// load 首次调用时组装依赖
func (st *rootState) load() (*App, error) {
	if st.app != nil {
		return st.app, nil
	}
	if st.bootstrap == nil {
		return nil, errors.New("未配置依赖组装函数")
	}
	app, err := st.bootstrap(st.configPath)
	if err != nil {
		return nil, err
	}
	st.app = app
	return app, nil
}
