package service

import (
	"sort"
	"time"

	"github.com/samarth-p/expertiza/internal/model"
)

// SortDueDates 按 due_at 升序排列，精度到秒；同一秒内保持输入顺序
// 返回新切片，不修改入参
func SortDueDates(dueDates []model.DueDate) []model.DueDate {
	sorted := make([]model.DueDate, len(dueDates))
	copy(sorted, dueDates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DueAt.Unix() < sorted[j].DueAt.Unix()
	})
	return sorted
}

// DetermineRound 计算在 submittedAt 提交的回复所属评审轮次
// sorted 必须已按 due_at 升序；从第 1 轮开始，每越过一个轮次边界截止日期 +1，
// 遇到第一个晚于提交时间的截止日期即停止
func DetermineRound(submittedAt time.Time, sorted []model.DueDate) int {
	round := 1
	for _, d := range sorted {
		if submittedAt.Before(d.DueAt) {
			break
		}
		if d.DeadlineTypeID == model.RoundBoundaryDeadlineType {
			round++
		}
	}
	return round
}

// firstDueAfter 返回第一个严格晚于 now 的截止日期
func firstDueAfter(sorted []model.DueDate, now time.Time) *model.DueDate {
	for i := range sorted {
		if sorted[i].DueAt.After(now) {
			return &sorted[i]
		}
	}
	return nil
}

// firstDueFrom 返回第一个不早于 now 的截止日期（due_at >= now）
func firstDueFrom(sorted []model.DueDate, now time.Time) *model.DueDate {
	for i := range sorted {
		if !sorted[i].DueAt.Before(now) {
			return &sorted[i]
		}
	}
	return nil
}
