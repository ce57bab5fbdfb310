package model

import (
	"time"
)

// LearningSession 一段连续播放区间的原始遥测记录。
// 由播放端创建，SessionEnd 写入后即不可变；本服务的评分引擎只读。
type LearningSession struct {
	BaseModel
	UserID       uint      `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	ContentID    uint      `gorm:"index;type:bigint unsigned;not null" json:"contentId"`
	CourseID     uint      `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	SessionStart time.Time  `gorm:"not null" json:"sessionStart"`
	SessionEnd   *time.Time `json:"sessionEnd"` // null 表示进行中
	// 播放器直接上报的真实播放秒数；缺失时退化为墙钟时长
	ActivePlaybackSeconds *float64 `gorm:"column:active_playback_seconds" json:"activePlaybackSeconds"`
	// 播放器自报的完成百分比 0-100
	VideoCompletionPercentage float64 `gorm:"default:0" json:"videoCompletionPercentage"`
	SkipCount                 int     `gorm:"default:0" json:"skipCount"`
	SeekCount                 int     `gorm:"default:0" json:"seekCount"`
	PauseCount                int     `gorm:"default:0" json:"pauseCount"`
	ReplayCount               int     `gorm:"default:0" json:"replayCount"`
	// 夜间巡检回写的可疑标记（引擎本身不写库，由巡检协作方落盘）
	Suspicious bool `gorm:"default:false;index" json:"suspicious"`
}

func (LearningSession) TableName() string {
	return "learning_sessions"
}

// Ended 会话是否已正常收尾
func (s *LearningSession) Ended() bool {
	return s.SessionEnd != nil
}

// HasPlaybackTelemetry 是否带有播放遥测；无遥测的记录走遗留启发式评分
func (s *LearningSession) HasPlaybackTelemetry() bool {
	if s.ActivePlaybackSeconds != nil && *s.ActivePlaybackSeconds > 0 {
		return true
	}
	return s.VideoCompletionPercentage > 0 ||
		s.SkipCount > 0 || s.SeekCount > 0 || s.PauseCount > 0 || s.ReplayCount > 0
}
