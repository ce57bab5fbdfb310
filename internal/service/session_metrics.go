package service

import (
	"learnguard_backend/internal/model"
	"learnguard_backend/internal/util"
)

// 会话摘要相关常量
const (
	// 文档按每页2分钟估算阅读时长
	documentMinutesPerPage = 2.0
	// 允许播放窗口 = 预期时长 * 2
	allowedWindowFactor = 2.0
	// 预期时长未知时的固定播放窗口上限（分钟）
	fallbackAllowedWindowMinutes = 90.0
)

// ExpectedDurationMinutes 解析内容的预期时长（分钟）。
// 视频取探测到的秒数/60；文档按页数估算；无法确定时返回 nil。
func ExpectedDurationMinutes(item *model.ContentItem) *float64 {
	if item == nil {
		return nil
	}
	switch item.Type {
	case model.ContentVideo:
		if item.ExpectedDurationSeconds != nil && *item.ExpectedDurationSeconds > 0 {
			m := *item.ExpectedDurationSeconds / 60
			return &m
		}
	case model.ContentDocument:
		if item.PageCount != nil && *item.PageCount > 0 {
			m := float64(*item.PageCount) * documentMinutesPerPage
			return &m
		}
	}
	return nil
}

// AllowedWindowMinutes 超出该窗口的播放时长本身视为异常
func AllowedWindowMinutes(expectedMinutes *float64) float64 {
	if expectedMinutes != nil && *expectedMinutes > 0 {
		return *expectedMinutes * allowedWindowFactor
	}
	return fallbackAllowedWindowMinutes
}

// SummarizeSession 将单条会话归一化为时长/活动摘要。
// 缺失结束时间按时长 0 处理；时钟倒挂产生的负区间钳到 0，不向下游传播。
func SummarizeSession(s *model.LearningSession, expectedMinutes *float64) model.SessionSummary {
	summary := model.SessionSummary{
		SkipCount:    s.SkipCount,
		SeekCount:    s.SeekCount,
		PauseCount:   s.PauseCount,
		ReplayCount:  s.ReplayCount,
		SessionEnded: s.Ended(),
	}

	if s.SessionEnd != nil {
		minutes := s.SessionEnd.Sub(s.SessionStart).Minutes()
		if minutes < 0 {
			// 时钟偏移，降级为 0
			minutes = 0
			summary.Degraded = true
		}
		summary.DurationMinutes = minutes
	} else {
		summary.Degraded = true
	}

	// 缺少直接播放测量时退化为墙钟时长（显式降级，不是错误）
	if s.ActivePlaybackSeconds != nil && *s.ActivePlaybackSeconds > 0 {
		summary.ActivePlaybackMinutes = *s.ActivePlaybackSeconds / 60
	} else {
		summary.ActivePlaybackMinutes = summary.DurationMinutes
	}

	summary.WithinAllowedWindow = summary.ActivePlaybackMinutes <= AllowedWindowMinutes(expectedMinutes)
	return summary
}

// SummarizeSessions 聚合同一 (用户, 内容) 的多条会话，用于进度对账。
// 跨实体混入属于编程错误，直接拒绝而不是悄悄混合数据。
func SummarizeSessions(userID, contentID uint, sessions []model.LearningSession, expectedMinutes *float64) (model.SessionSummary, error) {
	var total model.SessionSummary
	for i := range sessions {
		s := &sessions[i]
		if s.UserID != userID || s.ContentID != contentID {
			return model.SessionSummary{}, util.ErrSessionMismatch
		}

		one := SummarizeSession(s, expectedMinutes)
		total.DurationMinutes += one.DurationMinutes
		total.ActivePlaybackMinutes += one.ActivePlaybackMinutes
		total.SkipCount += one.SkipCount
		total.SeekCount += one.SeekCount
		total.PauseCount += one.PauseCount
		total.ReplayCount += one.ReplayCount
		total.SessionEnded = total.SessionEnded || one.SessionEnded
		total.Degraded = total.Degraded || one.Degraded
	}

	total.WithinAllowedWindow = total.ActivePlaybackMinutes <= AllowedWindowMinutes(expectedMinutes)
	return total, nil
}

// GroupSessionsByContent 按内容拆分课程会话，保持原有顺序
func GroupSessionsByContent(sessions []model.LearningSession) map[uint][]model.LearningSession {
	grouped := make(map[uint][]model.LearningSession)
	for i := range sessions {
		grouped[sessions[i].ContentID] = append(grouped[sessions[i].ContentID], sessions[i])
	}
	return grouped
}

// MaxSessionCompletion 取同一 (用户, 内容) 历史会话的最高自报完成度。
// 用于三信号完成判定：后来更差的会话不能抹掉曾经的完成记录。
func MaxSessionCompletion(sessions []model.LearningSession) float64 {
	max := 0.0
	for i := range sessions {
		if sessions[i].VideoCompletionPercentage > max {
			max = sessions[i].VideoCompletionPercentage
		}
	}
	return max
}
