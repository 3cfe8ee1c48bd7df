package service

import (
	"errors"
	"strings"

	"github.com/samarth-p/expertiza/internal/model"
)

// ErrDefaultPermissionMissing 默认权限表中没有 (截止类型, 权限类型) 组合
var ErrDefaultPermissionMissing = errors.New("默认权限未配置")

// PermissionTable 默认权限表（截止类型 → 权限类型 → 权限值）
// 构建时深拷贝输入，之后不再修改，可在多个 goroutine 间共享
// 键一律按小写存取，与 viper 读取配置时的行为一致
type PermissionTable struct {
	rights map[string]map[string]model.DeadlineRight
}

// NewPermissionTable 从配置构建权限表
func NewPermissionTable(src map[string]map[string]int) *PermissionTable {
	rights := make(map[string]map[string]model.DeadlineRight, len(src))
	for deadlineType, perms := range src {
		inner := make(map[string]model.DeadlineRight, len(perms))
		for permissionType, v := range perms {
			inner[strings.ToLower(permissionType)] = model.DeadlineRight(v)
		}
		rights[strings.ToLower(deadlineType)] = inner
	}
	return &PermissionTable{rights: rights}
}

// Lookup 查询默认权限
func (t *PermissionTable) Lookup(deadlineType, permissionType string) (model.DeadlineRight, error) {
	perms, ok := t.rights[strings.ToLower(deadlineType)]
	if !ok {
		return 0, ErrDefaultPermissionMissing
	}
	right, ok := perms[strings.ToLower(permissionType)]
	if !ok {
		return 0, ErrDefaultPermissionMissing
	}
	return right, nil
}
