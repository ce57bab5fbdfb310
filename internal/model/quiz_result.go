package model

// QuizResult 测验得分，由独立的测验评分服务写入；学习分合成时只读取。
// 外部来源记录用 UUID 主键，避免与评分服务侧的自增 ID 冲突。
type QuizResult struct {
	UUIDBase
	UserID   uint    `gorm:"index:idx_quiz_user_course,priority:1;type:bigint unsigned;not null" json:"userId"`
	CourseID uint    `gorm:"index:idx_quiz_user_course,priority:2;type:bigint unsigned;not null" json:"courseId"`
	Score    float64 `gorm:"default:0" json:"score"` // 0-100
	Total    int     `gorm:"default:0" json:"total"`
	Correct  int     `gorm:"default:0" json:"correct"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
