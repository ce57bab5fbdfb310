package service

import (
	"testing"
	"time"

	"learnguard_backend/internal/model"
	"learnguard_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildContentEngagement(t *testing.T) {
	content := &model.ContentItem{Type: model.ContentVideo, ExpectedDurationSeconds: floatPtr(1800)}
	start1 := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	end1 := start1.Add(20 * time.Minute)
	start2 := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	end2 := start2.Add(20 * time.Minute)

	sessions := []model.LearningSession{
		{
			UserID: 7, ContentID: 3,
			SessionStart: start1, SessionEnd: &end1,
			ActivePlaybackSeconds:     floatPtr(900),
			VideoCompletionPercentage: 60,
			PauseCount:                2,
		},
		{
			UserID: 7, ContentID: 3,
			SessionStart: start2, SessionEnd: &end2,
			ActivePlaybackSeconds:     floatPtr(1020),
			VideoCompletionPercentage: 96,
			PauseCount:                3,
		},
	}

	engagement, err := BuildContentEngagement(7, 3, content, sessions)
	require.NoError(t, err)

	assert.Equal(t, uint(7), engagement.UserID)
	assert.Equal(t, uint(3), engagement.ContentID)
	assert.Equal(t, 2, engagement.SessionCount)
	assert.InDelta(t, 40.0, engagement.TotalDurationMinutes, 1e-9)
	assert.InDelta(t, 32.0, engagement.ActivePlaybackMinutes, 1e-9)
	assert.InDelta(t, 96.0, engagement.MaxCompletion, 1e-9)

	// 播放充足(30) + 正常收尾(5) + 正常暂停(10) + 完成度95以上(35)
	assert.Equal(t, 80, engagement.Attention.Score)
	assert.False(t, engagement.Attention.IsSuspicious)

	assert.Equal(t, 0, engagement.Risk.Score)
	assert.Equal(t, model.RiskMinimal, engagement.Risk.RiskLevel)
	assert.False(t, engagement.Risk.IsSuspicious)
}

func TestBuildContentEngagement_MismatchedSessionRejected(t *testing.T) {
	content := &model.ContentItem{Type: model.ContentVideo, ExpectedDurationSeconds: floatPtr(1800)}
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	sessions := []model.LearningSession{
		{UserID: 7, ContentID: 3, SessionStart: start},
		{UserID: 8, ContentID: 3, SessionStart: start},
	}

	engagement, err := BuildContentEngagement(7, 3, content, sessions)
	assert.ErrorIs(t, err, util.ErrSessionMismatch)
	assert.Nil(t, engagement)
}

func TestBuildContentEngagement_NoSessions(t *testing.T) {
	content := &model.ContentItem{Type: model.ContentDocument, PageCount: intPtr(10)}

	engagement, err := BuildContentEngagement(7, 3, content, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, engagement.SessionCount)
	assert.Zero(t, engagement.TotalDurationMinutes)
	assert.Zero(t, engagement.MaxCompletion)
	assert.Equal(t, 0, engagement.Attention.Score)
}
