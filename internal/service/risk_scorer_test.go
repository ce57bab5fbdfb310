package service

import (
	"testing"

	"learnguard_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestScoreRisk_NormalSession(t *testing.T) {
	got := ScoreRisk(40, floatPtr(30), 97, 32, 0, 80)
	assert.Zero(t, got.Score)
	assert.Equal(t, model.RiskMinimal, got.RiskLevel)
	assert.False(t, got.IsSuspicious)
	assert.Empty(t, got.Reasons)
}

func TestScoreRisk_ImpossibleCompletionSpeed(t *testing.T) {
	// 2 分钟刷完 30 分钟的课还报告 95% 完成度
	got := ScoreRisk(2, floatPtr(30), 95, 2, 0, 50)
	assert.Equal(t, 70, got.Score)
	assert.True(t, got.IsSuspicious)
	// 可疑标记直接顶格，不依赖 90 分门槛
	assert.Equal(t, model.RiskCritical, got.RiskLevel)
}

func TestScoreRisk_ZeroDurationWithProgress(t *testing.T) {
	got := ScoreRisk(0, nil, 60, 0, 0, 80)
	assert.Equal(t, 80, got.Score)
	assert.True(t, got.IsSuspicious)
	assert.Equal(t, model.RiskCritical, got.RiskLevel)
}

func TestScoreRisk_FastCompletionTiers(t *testing.T) {
	tests := []struct {
		name       string
		duration   float64
		completion float64
		want       int
		suspicious bool
	}{
		{"不足10%且高完成度", 2.5, 85, 70, true},
		{"不足30%", 8, 75, 50, true},
		{"不足一半", 13, 65, 30, false},
		{"完成度不达标不计分", 2.5, 50, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreRisk(tt.duration, floatPtr(30), tt.completion, tt.duration, 0, 80)
			assert.Equal(t, tt.want, got.Score)
			assert.Equal(t, tt.suspicious, got.IsSuspicious)
		})
	}
}

func TestScoreRisk_LowWatchRatio(t *testing.T) {
	// 挂机 60 分钟只真正看了 5 分钟
	got := ScoreRisk(60, nil, 80, 5, 0, 80)
	assert.Equal(t, 35, got.Score)
	assert.Equal(t, model.RiskLow, got.RiskLevel)
	assert.False(t, got.IsSuspicious)
}

func TestScoreRisk_SkipTiers(t *testing.T) {
	heavy := ScoreRisk(30, floatPtr(30), 50, 28, 20, 80)
	assert.Equal(t, 30, heavy.Score)

	some := ScoreRisk(30, floatPtr(30), 50, 28, 10, 80)
	assert.Equal(t, 15, some.Score)
}

func TestScoreRisk_AttentionLinkage(t *testing.T) {
	low := ScoreRisk(30, floatPtr(30), 50, 28, 0, 20)
	assert.Equal(t, 25, low.Score)

	weak := ScoreRisk(30, floatPtr(30), 50, 28, 0, 45)
	assert.Equal(t, 15, weak.Score)
}

func TestScoreRisk_HighScoreImpliesSuspicious(t *testing.T) {
	// 多条规则叠加过 70 分即可疑，即使没有任何单条规则置位
	got := ScoreRisk(60, nil, 80, 5, 20, 20)
	assert.Equal(t, 90, got.Score)
	assert.True(t, got.IsSuspicious)
	assert.Equal(t, model.RiskCritical, got.RiskLevel)
}

func TestRiskLevelBoundaries(t *testing.T) {
	tests := []struct {
		score      int
		suspicious bool
		want       model.RiskLevel
	}{
		{95, false, model.RiskCritical},
		{90, false, model.RiskCritical},
		{89, false, model.RiskHigh},
		{70, false, model.RiskHigh},
		{69, false, model.RiskMedium},
		{50, false, model.RiskMedium},
		{49, false, model.RiskLow},
		{30, false, model.RiskLow},
		{29, false, model.RiskMinimal},
		{0, false, model.RiskMinimal},
		{10, true, model.RiskCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, riskLevelFor(tt.score, tt.suspicious), "score=%d suspicious=%v", tt.score, tt.suspicious)
	}
}
