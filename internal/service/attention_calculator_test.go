package service

import (
	"testing"
	"time"

	"learnguard_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestCalculateAttention_HighEngagement(t *testing.T) {
	// 40 分钟会话看完 30 分钟的视频，完成度 97%
	sum := model.SessionSummary{
		DurationMinutes:       40,
		ActivePlaybackMinutes: 32,
		WithinAllowedWindow:   true,
		PauseCount:            5,
		SessionEnded:          true,
	}

	got := CalculateAttention(sum, floatPtr(30), 97)
	assert.Equal(t, 80, got.Score)
	assert.False(t, got.IsSuspicious)
	assert.Contains(t, got.ContributingFactors, "播放时长达预期80%以上")
	assert.Contains(t, got.ContributingFactors, "完成度达到95%")
}

func TestCalculateAttention_FastCompletion(t *testing.T) {
	// 2 分钟刷完 30 分钟的课：时长项只拿保底分
	sum := model.SessionSummary{
		DurationMinutes:       2,
		ActivePlaybackMinutes: 2,
		WithinAllowedWindow:   true,
		SessionEnded:          true,
	}

	got := CalculateAttention(sum, floatPtr(30), 95)
	assert.Equal(t, 50, got.Score)
}

func TestCalculateAttention_NoPlayback(t *testing.T) {
	got := CalculateAttention(model.SessionSummary{}, floatPtr(30), 90)
	assert.Zero(t, got.Score)
	assert.True(t, got.IsSuspicious)
	assert.Equal(t, []string{"无有效播放时长"}, got.ContributingFactors)
}

func TestCalculateAttention_SkipPenalty(t *testing.T) {
	sum := model.SessionSummary{
		DurationMinutes:       30,
		ActivePlaybackMinutes: 28,
		WithinAllowedWindow:   true,
		SkipCount:             3,
		SessionEnded:          true,
	}

	got := CalculateAttention(sum, floatPtr(30), 97)
	// 30 + 5 + 35 - 30
	assert.Equal(t, 40, got.Score)
	assert.True(t, got.IsSuspicious)
}

func TestCalculateAttention_NegativeClampsToZero(t *testing.T) {
	sum := model.SessionSummary{
		ActivePlaybackMinutes: 0.5,
		SkipCount:             5,
	}

	got := CalculateAttention(sum, nil, 0)
	assert.Zero(t, got.Score)
	assert.True(t, got.IsSuspicious)
}

func TestCalculateAttention_OverWindowIsSuspicious(t *testing.T) {
	sum := model.SessionSummary{
		DurationMinutes:       75,
		ActivePlaybackMinutes: 70,
		WithinAllowedWindow:   false,
		PauseCount:            3,
		SessionEnded:          true,
	}

	got := CalculateAttention(sum, floatPtr(30), 97)
	// 窗口外只给保底分，且暂停/回放奖励不生效：5 + 5 + 35
	assert.Equal(t, 45, got.Score)
	assert.True(t, got.IsSuspicious)
}

func TestCalculateAttention_UnknownExpectedBands(t *testing.T) {
	tests := []struct {
		name   string
		active float64
		want   int
	}{
		{"正常区间", 30, 20},
		{"偏短", 7, 15},
		{"偏长", 50, 10},
		{"超过60分钟", 90, 5},
		{"不足5分钟无时长分", 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := model.SessionSummary{
				DurationMinutes:       tt.active,
				ActivePlaybackMinutes: tt.active,
				WithinAllowedWindow:   true,
			}
			got := CalculateAttention(sum, nil, 0)
			assert.Equal(t, tt.want, got.Score)
		})
	}
}

func TestCalculateAttention_LowScoreIsSuspicious(t *testing.T) {
	sum := model.SessionSummary{
		DurationMinutes:       3,
		ActivePlaybackMinutes: 3,
		WithinAllowedWindow:   true,
	}

	got := CalculateAttention(sum, nil, 0)
	assert.Less(t, got.Score, 30)
	assert.True(t, got.IsSuspicious)
}

func TestLegacyAttentionEstimate(t *testing.T) {
	// 周二上午的正常时长：50 + 15 + 10 + 5
	weekdayMorning := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)
	got := LegacyAttentionEstimate(weekdayMorning, 30)
	assert.Equal(t, 80, got.Score)
	assert.False(t, got.IsSuspicious)

	// 周日凌晨的超短会话：50 - 10 - 15
	weekendNight := time.Date(2025, 3, 9, 3, 0, 0, 0, time.UTC)
	got = LegacyAttentionEstimate(weekendNight, 2)
	assert.Equal(t, 25, got.Score)
	assert.True(t, got.IsSuspicious)
}

func TestLegacyAttentionEstimate_Deterministic(t *testing.T) {
	start := time.Date(2025, 3, 11, 20, 30, 0, 0, time.UTC)
	first := LegacyAttentionEstimate(start, 25)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, LegacyAttentionEstimate(start, 25))
	}
}
