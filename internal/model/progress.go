package model

import (
	"time"
)

// ContentProgress 客户端进度心跳写入的内容完成度快照。
// 可能被后来质量更差的会话覆盖成更小的值，完成判定须做三信号 OR（见 progress_reconciler）。
type ContentProgress struct {
	BaseModel
	UserID               uint      `gorm:"index:idx_progress_user_content,priority:1;type:bigint unsigned;not null" json:"userId"`
	ContentID            uint      `gorm:"index:idx_progress_user_content,priority:2;type:bigint unsigned;not null" json:"contentId"`
	CourseID             uint      `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	CompletionPercentage float64   `gorm:"default:0" json:"completionPercentage"`
	IsCompleted          bool      `gorm:"default:false" json:"isCompleted"`
	LastAccessedAt       time.Time `json:"lastAccessedAt"`
}

func (ContentProgress) TableName() string {
	return "content_progresses"
}

type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "assigned"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
)

// CourseAssignment 用户与课程的指派关系。
// ProgressPercentage 看似权威但不可信，读取时由 ProgressReconciler 校验。
type CourseAssignment struct {
	BaseModel
	UserID             uint             `gorm:"index:idx_assignment_user_course,priority:1;type:bigint unsigned;not null" json:"userId"`
	CourseID           uint             `gorm:"index:idx_assignment_user_course,priority:2;type:bigint unsigned;not null" json:"courseId"`
	Status             AssignmentStatus `gorm:"type:enum('assigned','in_progress','completed');default:'assigned'" json:"status"`
	ProgressPercentage float64          `gorm:"default:0" json:"progressPercentage"`
	AssignedAt         time.Time        `json:"assignedAt"`
	StartedAt          *time.Time       `json:"startedAt"`
	CompletedAt        *time.Time       `json:"completedAt"`
	Deadline           *time.Time       `json:"deadline"`
}

func (CourseAssignment) TableName() string {
	return "course_assignments"
}
