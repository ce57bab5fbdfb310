package service

import (
	"fmt"
	"time"

	"learnguard_backend/internal/model"
)

// 专注度加分点值。各步骤相互独立、与顺序无关，最后统一钳到 [0,100]。
const (
	attentionPlaybackHighPoints = 30 // 播放达预期 80% 以上
	attentionPlaybackMidPoints  = 20 // 播放达预期 50% 以上
	attentionPlaybackLowPoints  = 10 // 已知预期但播放不足一半
	attentionOverWindowPoints   = 5  // 超出允许窗口，仅给保底分并标记可疑

	attentionBandNormalPoints = 20 // 预期未知：10-45 分钟
	attentionBandShortPoints  = 15 // 预期未知：5-10 分钟
	attentionBandLongPoints   = 10 // 预期未知：45-60 分钟
	attentionBandExcessPoints = 5  // 预期未知：超过 60 分钟

	attentionEndedPoints  = 5  // 正常收尾
	attentionPausePoints  = 10 // 正常暂停行为
	attentionReplayPoints = 10 // 正常回放行为

	attentionCompletionTier1 = 35 // 完成度 >= 95
	attentionCompletionTier2 = 25 // 完成度 >= 80
	attentionCompletionTier3 = 15 // 完成度 >= 60
	attentionCompletionTier4 = 5  // 完成度 >= 40

	attentionSkipPenalty = 30 // 有前跳即重罚：前跳是最强的单项异常信号

	maxNormalPauseCount  = 20
	maxNormalReplayCount = 10

	// 钳制后低于该分数一律视为可疑
	attentionSuspiciousFloor = 30
)

// CalculateAttention 由会话摘要与内容预期时长推导 0-100 专注度。
// 加分制逐条独立评估，命中的规则按顺序记入 ContributingFactors。
func CalculateAttention(sum model.SessionSummary, expectedMinutes *float64, completion float64) model.AttentionResult {
	// 1. 无有效播放时长直接判 0 分可疑
	if sum.ActivePlaybackMinutes <= 0 {
		return model.AttentionResult{
			Score:               0,
			IsSuspicious:        true,
			ContributingFactors: []string{"无有效播放时长"},
		}
	}

	score := 0
	suspicious := false
	var factors []string

	active := sum.ActivePlaybackMinutes
	hasExpected := expectedMinutes != nil && *expectedMinutes > 0

	// 2/3. 播放时长比例得分
	if hasExpected {
		if sum.WithinAllowedWindow {
			switch {
			case active >= *expectedMinutes*0.8:
				score += attentionPlaybackHighPoints
				factors = append(factors, "播放时长达预期80%以上")
			case active >= *expectedMinutes*0.5:
				score += attentionPlaybackMidPoints
				factors = append(factors, "播放时长达预期50%以上")
			default:
				score += attentionPlaybackLowPoints
				factors = append(factors, "播放时长不足预期一半")
			}
		} else {
			score += attentionOverWindowPoints
			suspicious = true
			factors = append(factors, fmt.Sprintf("播放时长 %.1f 分钟超出允许窗口", active))
		}
	} else {
		// 预期未知，退化为绝对时长分档
		switch {
		case active >= 10 && active <= 45:
			score += attentionBandNormalPoints
			factors = append(factors, "播放时长处于正常区间(10-45分钟)")
		case active >= 5 && active < 10:
			score += attentionBandShortPoints
			factors = append(factors, "播放时长偏短(5-10分钟)")
		case active > 45 && active <= 60:
			score += attentionBandLongPoints
			factors = append(factors, "播放时长偏长(45-60分钟)")
		case active > 60:
			score += attentionBandExcessPoints
			factors = append(factors, "播放时长超过60分钟")
		}
	}

	// 4. 正常收尾信号
	if sum.SessionEnded {
		score += attentionEndedPoints
		factors = append(factors, "会话正常结束")
	}

	// 5. 窗口内的正常交互行为奖励（不惩罚暂停与回放）
	if sum.WithinAllowedWindow {
		if sum.PauseCount > 0 && sum.PauseCount <= maxNormalPauseCount {
			score += attentionPausePoints
			factors = append(factors, "暂停次数处于正常范围")
		}
		if sum.ReplayCount > 0 && sum.ReplayCount <= maxNormalReplayCount {
			score += attentionReplayPoints
			factors = append(factors, "回放次数处于正常范围")
		}
	}

	// 6. 完成度分档奖励
	switch {
	case completion >= 95:
		score += attentionCompletionTier1
		factors = append(factors, "完成度达到95%")
	case completion >= 80:
		score += attentionCompletionTier2
		factors = append(factors, "完成度达到80%")
	case completion >= 60:
		score += attentionCompletionTier3
		factors = append(factors, "完成度达到60%")
	case completion >= 40:
		score += attentionCompletionTier4
		factors = append(factors, "完成度达到40%")
	}

	// 7. 前跳惩罚
	if sum.SkipCount >= 1 {
		score -= attentionSkipPenalty
		suspicious = true
		factors = append(factors, fmt.Sprintf("检测到 %d 次前跳", sum.SkipCount))
	}

	// 8. 钳制与低分可疑判定
	score = clampScore(score)
	if score < attentionSuspiciousFloor {
		suspicious = true
	}

	return model.AttentionResult{
		Score:               score,
		IsSuspicious:        suspicious,
		ContributingFactors: factors,
	}
}

// LegacyAttentionEstimate 遗留启发式：仅用于完全没有播放遥测的历史记录。
// 只看时长/时段/星期，完全确定，同一输入永远得到同一分数。
func LegacyAttentionEstimate(start time.Time, durationMinutes float64) model.AttentionResult {
	score := 50
	var factors []string

	switch {
	case durationMinutes >= 10 && durationMinutes <= 45:
		score += 15
		factors = append(factors, "学习时长处于正常区间")
	case durationMinutes >= 5 && durationMinutes < 10:
		score += 5
		factors = append(factors, "学习时长偏短")
	case durationMinutes < 5:
		score -= 10
		factors = append(factors, "学习时长过短")
	case durationMinutes > 60:
		score -= 5
		factors = append(factors, "学习时长过长")
	}

	hour := start.Hour()
	switch {
	case hour >= 9 && hour <= 18:
		score += 10
		factors = append(factors, "白天学习时段")
	case hour >= 19 && hour <= 22:
		score += 5
		factors = append(factors, "晚间学习时段")
	case hour <= 5:
		score -= 15
		factors = append(factors, "深夜学习时段")
	}

	wd := start.Weekday()
	if wd >= time.Monday && wd <= time.Friday {
		score += 5
		factors = append(factors, "工作日学习")
	}

	score = clampScore(score)
	return model.AttentionResult{
		Score:               score,
		IsSuspicious:        score < attentionSuspiciousFloor,
		ContributingFactors: factors,
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
