package service

import (
	"testing"
	"time"

	"learnguard_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestComposeLearningScoreValue_Traditional(t *testing.T) {
	// 传统课程三项等权，不含专注度
	got := ComposeLearningScoreValue(model.CourseTraditional, 90, 80, nil, 70, 0, 0)
	assert.InDelta(t, 80.0, got, 0.01)

	// 单项满分验证权重和为 1
	got = ComposeLearningScoreValue(model.CourseTraditional, 100, 100, nil, 100, 0, 0)
	assert.InDelta(t, 100.0, got, 1e-9)
}

func TestComposeLearningScoreValue_Online(t *testing.T) {
	attention := 80.0

	got := ComposeLearningScoreValue(model.CourseOnline, 80, 80, &attention, 80, 0, 10)
	assert.InDelta(t, 80.0, got, 1e-9)

	// 10 条会话中 2 条可疑，扣 2 分
	got = ComposeLearningScoreValue(model.CourseOnline, 80, 80, &attention, 80, 2, 10)
	assert.InDelta(t, 78.0, got, 1e-9)

	// 全部可疑扣满 10 分
	got = ComposeLearningScoreValue(model.CourseOnline, 80, 80, &attention, 80, 10, 10)
	assert.InDelta(t, 70.0, got, 1e-9)
}

func TestComposeLearningScoreValue_OnlineWithoutAttention(t *testing.T) {
	// 在线课程但没有任何会话时退化为三项加权
	got := ComposeLearningScoreValue(model.CourseOnline, 90, 80, nil, 70, 0, 0)
	assert.InDelta(t, 80.0, got, 0.01)
}

func TestComposeLearningScoreValue_Clamp(t *testing.T) {
	attention := 0.0
	got := ComposeLearningScoreValue(model.CourseOnline, 0, 0, &attention, 0, 5, 5)
	assert.Zero(t, got)

	// 总数为零时分母按 1 处理，不除零
	got = ComposeLearningScoreValue(model.CourseOnline, 80, 80, &attention, 80, 1, 0)
	assert.InDelta(t, 50.0, got, 1e-9)
}

func TestBandForScore(t *testing.T) {
	assert.Equal(t, model.BandExcellent, BandForScore(85))
	assert.Equal(t, model.BandGood, BandForScore(84.9))
	assert.Equal(t, model.BandGood, BandForScore(70))
	assert.Equal(t, model.BandNeedsAttention, BandForScore(69.9))
}

func TestComplianceFor(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	soon := now.Add(3 * 24 * time.Hour)
	far := now.Add(30 * 24 * time.Hour)

	tests := []struct {
		name     string
		status   model.AssignmentStatus
		deadline *time.Time
		score    float64
		want     model.ComplianceStatus
	}{
		{"已完成且达标", model.AssignmentCompleted, nil, 85, model.ComplianceCompliant},
		{"已完成但学习分过低", model.AssignmentCompleted, nil, 60, model.ComplianceNonCompliant},
		{"无截止日期", model.AssignmentInProgress, nil, 50, model.ComplianceCompliant},
		{"已过截止日期", model.AssignmentInProgress, &past, 90, model.ComplianceNonCompliant},
		{"截止日期临近", model.AssignmentInProgress, &soon, 90, model.ComplianceAtRisk},
		{"截止日期尚远", model.AssignmentAssigned, &far, 50, model.ComplianceCompliant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComplianceFor(tt.status, tt.deadline, now, tt.score)
			assert.Equal(t, tt.want, got)
		})
	}
}
