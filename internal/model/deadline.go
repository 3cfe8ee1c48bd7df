package model

// ── 截止类型（deadline_types） ──

const (
	DeadlineTypeSubmission    = 1
	DeadlineTypeReview        = 2
	DeadlineTypeMetareview    = 3
	DeadlineTypeDropTopic     = 4
	DeadlineTypeSignup        = 5
	DeadlineTypeTeamFormation = 6
)

// RoundBoundaryDeadlineType 轮次边界：每越过一个此类截止日期，评审轮次 +1
const RoundBoundaryDeadlineType = DeadlineTypeReview

var deadlineTypeNames = map[int]string{
	DeadlineTypeSubmission:    "submission",
	DeadlineTypeReview:        "review",
	DeadlineTypeMetareview:    "metareview",
	DeadlineTypeDropTopic:     "drop_topic",
	DeadlineTypeSignup:        "signup",
	DeadlineTypeTeamFormation: "team_formation",
}

// DeadlineTypeName 返回截止类型名称，未知类型返回空串
func DeadlineTypeName(id int) string {
	return deadlineTypeNames[id]
}

// ── 截止权限（deadline_rights） ──

// DeadlineRight 某项活动在截止日期前的权限
type DeadlineRight int

const (
	DeadlineRightNo   DeadlineRight = 1
	DeadlineRightLate DeadlineRight = 2
	DeadlineRightOK   DeadlineRight = 3
)

// Allows Late 与 OK 均视为允许
func (r DeadlineRight) Allows() bool {
	return r == DeadlineRightLate || r == DeadlineRightOK
}

func (r DeadlineRight) String() string {
	switch r {
	case DeadlineRightNo:
		return "No"
	case DeadlineRightLate:
		return "Late"
	case DeadlineRightOK:
		return "OK"
	default:
		return "Unknown"
	}
}
