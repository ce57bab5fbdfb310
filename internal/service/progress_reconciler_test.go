package service

import (
	"testing"

	"learnguard_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func requiredItem(id uint) model.ContentItem {
	item := model.ContentItem{Type: model.ContentVideo, IsRequired: true}
	item.ID = id
	return item
}

func optionalItem(id uint) model.ContentItem {
	item := requiredItem(id)
	item.IsRequired = false
	return item
}

func TestContentEverCompleted(t *testing.T) {
	tests := []struct {
		name       string
		progress   *model.ContentProgress
		sessionMax float64
		want       bool
	}{
		{"进度表标记已完成", &model.ContentProgress{IsCompleted: true}, 0, true},
		{"进度表百分比达标", &model.ContentProgress{CompletionPercentage: 95}, 0, true},
		{"进度被覆盖但历史会话达标", &model.ContentProgress{CompletionPercentage: 40}, 96, true},
		{"无进度记录仅会话信号", nil, 96, true},
		{"三路信号均不达标", &model.ContentProgress{CompletionPercentage: 80}, 90, false},
		{"完全无信号", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContentEverCompleted(tt.progress, tt.sessionMax))
		})
	}
}

func TestComputeActualProgress(t *testing.T) {
	snap := &ProgressSnapshot{
		Items: []model.ContentItem{
			requiredItem(1),
			requiredItem(2),
			optionalItem(3),
		},
		ProgressByContent: map[uint]*model.ContentProgress{
			1: {IsCompleted: true},
			3: {IsCompleted: true}, // 选修内容不计入分母
		},
		SessionMaxByContent: map[uint]float64{},
	}

	completed, total, percent := ComputeActualProgress(snap)
	assert.Equal(t, 1, completed)
	assert.Equal(t, 2, total)
	assert.InDelta(t, 50.0, percent, 1e-9)
}

func TestReconcileSnapshot_StaleCompletedAssignment(t *testing.T) {
	// 进度表被后来的会话覆盖成 40%，但历史会话有 96% 的完成信号
	snap := &ProgressSnapshot{
		Assignment: &model.CourseAssignment{
			Status:             model.AssignmentCompleted,
			ProgressPercentage: 40,
		},
		Items:               []model.ContentItem{requiredItem(1)},
		ProgressByContent:   map[uint]*model.ContentProgress{1: {CompletionPercentage: 40}},
		SessionMaxByContent: map[uint]float64{1: 96},
	}

	got := ReconcileSnapshot(snap)
	assert.False(t, got.IsValid)
	assert.Equal(t, model.ProgressSourceCalculated, got.Source)
	assert.InDelta(t, 100.0, got.ProgressPercent, 1e-9)
	assert.NotEmpty(t, got.Detail)
}

func TestReconcileSnapshot_ValidStoredProgress(t *testing.T) {
	snap := &ProgressSnapshot{
		Assignment: &model.CourseAssignment{
			Status:             model.AssignmentInProgress,
			ProgressPercentage: 50,
		},
		Items: []model.ContentItem{requiredItem(1), requiredItem(2)},
		ProgressByContent: map[uint]*model.ContentProgress{
			1: {IsCompleted: true},
		},
		SessionMaxByContent: map[uint]float64{},
	}

	got := ReconcileSnapshot(snap)
	assert.True(t, got.IsValid)
	assert.Equal(t, model.ProgressSourceDatabase, got.Source)
	assert.InDelta(t, 50.0, got.ProgressPercent, 1e-9)
	assert.Empty(t, got.Detail)
}

func TestReconcileSnapshot_StoredProgressTolerance(t *testing.T) {
	newSnap := func(stored float64) *ProgressSnapshot {
		return &ProgressSnapshot{
			Assignment: &model.CourseAssignment{
				Status:             model.AssignmentInProgress,
				ProgressPercentage: stored,
			},
			Items: []model.ContentItem{requiredItem(1), requiredItem(2)},
			ProgressByContent: map[uint]*model.ContentProgress{
				1: {IsCompleted: true},
			},
			SessionMaxByContent: map[uint]float64{},
		}
	}

	// 实算 50%，容差 5 个百分点
	within := ReconcileSnapshot(newSnap(55))
	assert.True(t, within.IsValid)

	over := ReconcileSnapshot(newSnap(55.1))
	assert.False(t, over.IsValid)
	assert.InDelta(t, 50.0, over.ProgressPercent, 1e-9)
}

func TestReconcileSnapshot_ActualCompleteButStoredLow(t *testing.T) {
	snap := &ProgressSnapshot{
		Assignment: &model.CourseAssignment{
			Status:             model.AssignmentInProgress,
			ProgressPercentage: 60,
		},
		Items:               []model.ContentItem{requiredItem(1)},
		ProgressByContent:   map[uint]*model.ContentProgress{1: {IsCompleted: true}},
		SessionMaxByContent: map[uint]float64{},
	}

	got := ReconcileSnapshot(snap)
	assert.False(t, got.IsValid)
	assert.InDelta(t, 100.0, got.ProgressPercent, 1e-9)
}

func TestReconcileSnapshot_NoRequiredItems(t *testing.T) {
	// 没有可对账的分母时按存量放行
	snap := &ProgressSnapshot{
		Assignment: &model.CourseAssignment{
			Status:             model.AssignmentInProgress,
			ProgressPercentage: 37,
		},
		Items:               []model.ContentItem{optionalItem(1)},
		ProgressByContent:   map[uint]*model.ContentProgress{},
		SessionMaxByContent: map[uint]float64{},
	}

	got := ReconcileSnapshot(snap)
	assert.True(t, got.IsValid)
	assert.Equal(t, model.ProgressSourceDatabase, got.Source)
	assert.InDelta(t, 37.0, got.ProgressPercent, 1e-9)
}

func TestReconcileSnapshot_Idempotent(t *testing.T) {
	snap := &ProgressSnapshot{
		Assignment: &model.CourseAssignment{
			Status:             model.AssignmentCompleted,
			ProgressPercentage: 40,
		},
		Items:               []model.ContentItem{requiredItem(1)},
		ProgressByContent:   map[uint]*model.ContentProgress{},
		SessionMaxByContent: map[uint]float64{1: 96},
	}

	first := ReconcileSnapshot(snap)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ReconcileSnapshot(snap))
	}
}

func TestValidateStoredProgress_RuleOrder(t *testing.T) {
	// 状态规则先于数值规则：两者同时违反时报状态规则
	detail := validateStoredProgress(model.AssignmentCompleted, 40, 50)
	assert.Contains(t, detail, "状态已完成但存量进度")

	detail = validateStoredProgress(model.AssignmentCompleted, 100, 50)
	assert.Contains(t, detail, "状态已完成但实算进度")

	detail = validateStoredProgress(model.AssignmentInProgress, -5, 0)
	assert.Contains(t, detail, "负值")
}
