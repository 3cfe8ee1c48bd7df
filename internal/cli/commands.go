package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/samarth-p/expertiza/internal/model"
)

func newMigrateCmd(st *rootState) *cobra.Command {
	var down int
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移（--down N 回滚最近 N 个）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("down") && down <= 0 {
				return fmt.Errorf("--down 必须大于 0，实际 %d", down)
			}
			app, err := st.load()
			if err != nil {
				return err
			}

			if down > 0 {
				if app.Rollback == nil {
					return errors.New("当前环境不支持回滚迁移")
				}
				if err := app.Rollback(cmd.Context(), down); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "已回滚 %d 个迁移\n", down)
				return nil
			}

			if app.Migrate == nil {
				return errors.New("当前环境不支持迁移")
			}
			if err := app.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "迁移完成")
			return nil
		},
	}
	cmd.Flags().IntVar(&down, "down", 0, "回滚最近 N 个迁移")
	return cmd
}

func newCopyCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <old_assignment_id> <new_assignment_id>",
		Short: "复制作业的全部截止日期到另一个作业",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.load()
			if err != nil {
				return err
			}
			if err := app.Service.DueDate.Copy(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已复制 %s -> %s\n", args[0], args[1])
			return nil
		},
	}
}

func newNextCmd(st *rootState) *cobra.Command {
	var topic string
	cmd := &cobra.Command{
		Use:   "next <assignment_id>",
		Short: "查询下一个截止日期",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.load()
			if err != nil {
				return err
			}
			next, err := app.Service.DueDate.GetNextDueDate(cmd.Context(), args[0], optional(topic))
			if err != nil {
				return err
			}
			if next == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "无后续截止日期")
				return nil
			}
			printDueDate(cmd.OutOrStdout(), next)
			return nil
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "选题 ID（错峰截止作业必填）")
	return cmd
}

func newStageCmd(st *rootState) *cobra.Command {
	var topic string
	cmd := &cobra.Command{
		Use:   "stage <assignment_id>",
		Short: "查询作业当前阶段",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.load()
			if err != nil {
				return err
			}
			stage, err := app.Service.DueDate.CurrentStage(cmd.Context(), args[0], optional(topic))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), stage)
			return nil
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "选题 ID（错峰截止作业必填）")
	return cmd
}

func newRoundCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "round <assignment_id> <response_id>",
		Short: "计算回复所属评审轮次（非评审回复为 0）",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.load()
			if err != nil {
				return err
			}
			round, err := app.Service.DueDate.RoundForResponse(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), round)
			return nil
		},
	}
}

func newTeammateReviewCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "teammate-review <participant_id>",
		Short: "查询参与者当前是否允许队友互评",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.load()
			if err != nil {
				return err
			}
			allowed, err := app.Service.DueDate.TeammateReviewAllowed(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), allowed)
			return nil
		},
	}
}

func newPermissionCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "permission <deadline_type> <permission_type>",
		Short: "查询默认权限",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.load()
			if err != nil {
				return err
			}
			right, err := app.Service.DueDate.DefaultPermission(args[0], args[1])
			if err != nil {
				return fmt.Errorf("%s/%s: %w", args[0], args[1], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d (%s)\n", int(right), right)
			return nil
		},
	}
}

func newListCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "list <parent_id>",
		Short: "列出作业或选题的全部截止日期",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.load()
			if err != nil {
				return err
			}
			dueDates, err := app.Service.DueDate.ListDueDates(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for i := range dueDates {
				printDueDate(cmd.OutOrStdout(), &dueDates[i])
			}
			return nil
		},
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func printDueDate(w io.Writer, d *model.DueDate) {
	name := model.DeadlineTypeName(d.DeadlineTypeID)
	if name == "" {
		name = fmt.Sprintf("type-%d", d.DeadlineTypeID)
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\tteammate_review=%s\n",
		d.DueDateID, d.Type, d.DueAt.UTC().Format(time.RFC3339), name, d.TeammateReviewAllowedID)
}
