package service

import (
	"time"

	"learnguard_backend/internal/model"
)

// 学习分权重与分档阈值
const (
	traditionalCompletionWeight = 0.3333
	traditionalProgressWeight   = 0.3333
	traditionalQuizWeight       = 0.3334

	onlineFactorWeight = 0.25

	// 可疑会话占比惩罚的满额扣分
	suspiciousPenaltyScale = 10.0

	bandExcellentFloor = 85.0
	bandGoodFloor      = 70.0

	// 已完成课程学习分低于该线判不合规
	complianceScoreFloor = 70.0
	// 截止日期临近窗口
	complianceAtRiskWindow = 7 * 24 * time.Hour
)

// ComposeLearningScoreValue 按课程类型加权合成 0-100 学习分。
// 传统课程没有遥测，不含专注度项；在线课程四项等权再扣可疑会话惩罚。
func ComposeLearningScoreValue(kind model.CourseKind, completionRate, progress float64, attention *float64, quiz float64, suspiciousCount, totalCount int) float64 {
	var score float64

	if kind == model.CourseTraditional || attention == nil {
		score = completionRate*traditionalCompletionWeight +
			progress*traditionalProgressWeight +
			quiz*traditionalQuizWeight
	} else {
		score = completionRate*onlineFactorWeight +
			progress*onlineFactorWeight +
			*attention*onlineFactorWeight +
			quiz*onlineFactorWeight

		total := totalCount
		if total < 1 {
			total = 1
		}
		score -= float64(suspiciousCount) / float64(total) * suspiciousPenaltyScale
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func BandForScore(value float64) model.ScoreBand {
	switch {
	case value >= bandExcellentFloor:
		return model.BandExcellent
	case value >= bandGoodFloor:
		return model.BandGood
	default:
		return model.BandNeedsAttention
	}
}

// ComplianceFor 由指派状态、截止日期与学习分推导合规标签
func ComplianceFor(status model.AssignmentStatus, deadline *time.Time, now time.Time, score float64) model.ComplianceStatus {
	if status == model.AssignmentCompleted {
		if score < complianceScoreFloor {
			return model.ComplianceNonCompliant
		}
		return model.ComplianceCompliant
	}

	if deadline == nil {
		return model.ComplianceCompliant
	}
	if deadline.Before(now) {
		return model.ComplianceNonCompliant
	}
	if deadline.Sub(now) <= complianceAtRiskWindow {
		return model.ComplianceAtRisk
	}
	return model.ComplianceCompliant
}
