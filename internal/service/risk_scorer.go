package service

import (
	"fmt"

	"learnguard_backend/internal/model"
)

// 风险评分阈值。内联魔法数统一提为具名常量，便于单测与调参。
const (
	fastCompletionRatioCritical = 0.1
	fastCompletionRatioHigh     = 0.3
	fastCompletionRatioMedium   = 0.5

	fastCompletionPointsCritical = 70
	fastCompletionPointsHigh     = 50
	fastCompletionPointsMedium   = 30

	lowWatchRatioThreshold = 0.2
	lowWatchRatioPoints    = 35

	heavySkipThreshold = 15
	heavySkipPoints    = 30
	someSkipThreshold  = 8
	someSkipPoints     = 15

	lowAttentionThreshold  = 30
	lowAttentionPoints     = 25
	weakAttentionThreshold = 50
	weakAttentionPoints    = 15

	zeroDurationPoints = 80

	riskCriticalScore = 90
	riskHighScore     = 70
	riskMediumScore   = 50
	riskLowScore      = 30
)

// ScoreRisk 综合时长比、真实观看比、前跳与专注度信号计算作弊/风险分。
// 各规则独立评估并携带可读原因，新增规则不需要重排控制流。
func ScoreRisk(durationMinutes float64, expectedMinutes *float64, completion, activeMinutes float64, skipCount, attentionScore int) model.RiskResult {
	score := 0
	suspicious := false
	var reasons []string

	// 1. 时长与完成度明显不匹配：几分钟刷完一小时的课
	if expectedMinutes != nil && *expectedMinutes > 0 {
		ratio := durationMinutes / *expectedMinutes
		switch {
		case ratio < fastCompletionRatioCritical && completion >= 80:
			score += fastCompletionPointsCritical
			suspicious = true
			reasons = append(reasons, "完成速度不可能：耗时不足预期10%却报告高完成度")
		case ratio < fastCompletionRatioHigh && completion >= 70:
			score += fastCompletionPointsHigh
			suspicious = true
			reasons = append(reasons, "完成速度异常：耗时不足预期30%")
		case ratio < fastCompletionRatioMedium && completion >= 60:
			score += fastCompletionPointsMedium
			reasons = append(reasons, "完成速度偏快：耗时不足预期一半")
		}
	}

	// 2. 真实观看占比过低
	if durationMinutes > 0 {
		watchRatio := activeMinutes / durationMinutes
		if watchRatio < lowWatchRatioThreshold && completion >= 50 {
			score += lowWatchRatioPoints
			reasons = append(reasons, "真实观看时长远低于自报完成度")
		}
	}

	// 3. 前跳次数
	if skipCount > heavySkipThreshold {
		score += heavySkipPoints
		reasons = append(reasons, fmt.Sprintf("前跳 %d 次，远超正常范围", skipCount))
	} else if skipCount > someSkipThreshold {
		score += someSkipPoints
		reasons = append(reasons, fmt.Sprintf("前跳 %d 次，偏多", skipCount))
	}

	// 4. 专注度联动
	if attentionScore < lowAttentionThreshold {
		score += lowAttentionPoints
		reasons = append(reasons, "专注度评分过低")
	} else if attentionScore < weakAttentionThreshold {
		score += weakAttentionPoints
		reasons = append(reasons, "专注度评分偏低")
	}

	// 5. 零耗时却有进度，是最强的单项标记
	if durationMinutes == 0 && completion >= 50 {
		score += zeroDurationPoints
		suspicious = true
		reasons = append(reasons, "会话耗时为零但报告了进度")
	}

	score = clampScore(score)

	level := riskLevelFor(score, suspicious)
	suspicious = suspicious || score >= riskHighScore

	return model.RiskResult{
		Score:        score,
		RiskLevel:    level,
		IsSuspicious: suspicious,
		Reasons:      reasons,
	}
}

// riskLevelFor 可疑标记直接顶格 Critical，不受 90 分门槛限制
func riskLevelFor(score int, suspicious bool) model.RiskLevel {
	switch {
	case score >= riskCriticalScore || suspicious:
		return model.RiskCritical
	case score >= riskHighScore:
		return model.RiskHigh
	case score >= riskMediumScore:
		return model.RiskMedium
	case score >= riskLowScore:
		return model.RiskLow
	default:
		return model.RiskMinimal
	}
}
