package service

import (
	"testing"
	"time"

	"learnguard_backend/internal/model"
	"learnguard_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestExpectedDurationMinutes(t *testing.T) {
	tests := []struct {
		name string
		item *model.ContentItem
		want *float64
	}{
		{
			name: "视频取探测秒数",
			item: &model.ContentItem{Type: model.ContentVideo, ExpectedDurationSeconds: floatPtr(1800)},
			want: floatPtr(30),
		},
		{
			name: "视频未探测到时长",
			item: &model.ContentItem{Type: model.ContentVideo},
			want: nil,
		},
		{
			name: "视频时长为零视为未知",
			item: &model.ContentItem{Type: model.ContentVideo, ExpectedDurationSeconds: floatPtr(0)},
			want: nil,
		},
		{
			name: "文档按每页2分钟估算",
			item: &model.ContentItem{Type: model.ContentDocument, PageCount: intPtr(15)},
			want: floatPtr(30),
		},
		{
			name: "文档无页数",
			item: &model.ContentItem{Type: model.ContentDocument},
			want: nil,
		},
		{
			name: "空条目",
			item: nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpectedDurationMinutes(tt.item)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestAllowedWindowMinutes(t *testing.T) {
	assert.InDelta(t, 60.0, AllowedWindowMinutes(floatPtr(30)), 1e-9)
	assert.InDelta(t, 90.0, AllowedWindowMinutes(nil), 1e-9)
	assert.InDelta(t, 90.0, AllowedWindowMinutes(floatPtr(0)), 1e-9)
}

func TestSummarizeSession(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	t.Run("正常结束的会话", func(t *testing.T) {
		end := start.Add(40 * time.Minute)
		s := &model.LearningSession{
			SessionStart:          start,
			SessionEnd:            &end,
			ActivePlaybackSeconds: floatPtr(32 * 60),
			PauseCount:            5,
		}
		sum := SummarizeSession(s, floatPtr(30))
		assert.InDelta(t, 40.0, sum.DurationMinutes, 1e-9)
		assert.InDelta(t, 32.0, sum.ActivePlaybackMinutes, 1e-9)
		assert.True(t, sum.SessionEnded)
		assert.True(t, sum.WithinAllowedWindow)
		assert.False(t, sum.Degraded)
	})

	t.Run("缺少结束时间按时长0降级", func(t *testing.T) {
		s := &model.LearningSession{SessionStart: start}
		sum := SummarizeSession(s, nil)
		assert.Zero(t, sum.DurationMinutes)
		assert.False(t, sum.SessionEnded)
		assert.True(t, sum.Degraded)
	})

	t.Run("时钟倒挂钳到0", func(t *testing.T) {
		end := start.Add(-10 * time.Minute)
		s := &model.LearningSession{SessionStart: start, SessionEnd: &end}
		sum := SummarizeSession(s, nil)
		assert.Zero(t, sum.DurationMinutes)
		assert.True(t, sum.Degraded)
	})

	t.Run("无播放测量退化为墙钟时长", func(t *testing.T) {
		end := start.Add(20 * time.Minute)
		s := &model.LearningSession{SessionStart: start, SessionEnd: &end}
		sum := SummarizeSession(s, floatPtr(30))
		assert.InDelta(t, 20.0, sum.ActivePlaybackMinutes, 1e-9)
		assert.False(t, sum.Degraded)
	})

	t.Run("超出允许窗口", func(t *testing.T) {
		end := start.Add(70 * time.Minute)
		s := &model.LearningSession{
			SessionStart:          start,
			SessionEnd:            &end,
			ActivePlaybackSeconds: floatPtr(65 * 60),
		}
		sum := SummarizeSession(s, floatPtr(30))
		assert.False(t, sum.WithinAllowedWindow)
	})
}

func TestSummarizeSessions(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	end1 := start.Add(10 * time.Minute)
	end2 := start.Add(25 * time.Minute)

	sessions := []model.LearningSession{
		{UserID: 1, ContentID: 2, SessionStart: start, SessionEnd: &end1, SkipCount: 1, PauseCount: 2},
		{UserID: 1, ContentID: 2, SessionStart: start, SessionEnd: &end2, SkipCount: 2, ReplayCount: 3},
	}

	sum, err := SummarizeSessions(1, 2, sessions, floatPtr(30))
	require.NoError(t, err)
	assert.InDelta(t, 35.0, sum.DurationMinutes, 1e-9)
	assert.Equal(t, 3, sum.SkipCount)
	assert.Equal(t, 2, sum.PauseCount)
	assert.Equal(t, 3, sum.ReplayCount)
	assert.True(t, sum.SessionEnded)
	assert.True(t, sum.WithinAllowedWindow)

	t.Run("跨实体混入直接拒绝", func(t *testing.T) {
		bad := append(sessions, model.LearningSession{UserID: 9, ContentID: 2, SessionStart: start})
		_, err := SummarizeSessions(1, 2, bad, nil)
		assert.ErrorIs(t, err, util.ErrSessionMismatch)
	})
}

func TestGroupSessionsByContent(t *testing.T) {
	sessions := []model.LearningSession{
		{ContentID: 3, VideoCompletionPercentage: 40},
		{ContentID: 4, VideoCompletionPercentage: 80},
		{ContentID: 3, VideoCompletionPercentage: 96},
	}

	grouped := GroupSessionsByContent(sessions)
	require.Len(t, grouped, 2)
	require.Len(t, grouped[3], 2)
	require.Len(t, grouped[4], 1)
	// 组内保持原有顺序
	assert.InDelta(t, 40.0, grouped[3][0].VideoCompletionPercentage, 1e-9)
	assert.InDelta(t, 96.0, grouped[3][1].VideoCompletionPercentage, 1e-9)

	// 分组后取组内最高完成度，等价于全量逐条取最大
	assert.InDelta(t, 96.0, MaxSessionCompletion(grouped[3]), 1e-9)
	assert.InDelta(t, 80.0, MaxSessionCompletion(grouped[4]), 1e-9)

	assert.Empty(t, GroupSessionsByContent(nil))
}

func TestMaxSessionCompletion(t *testing.T) {
	sessions := []model.LearningSession{
		{VideoCompletionPercentage: 40},
		{VideoCompletionPercentage: 96},
		{VideoCompletionPercentage: 12},
	}
	assert.InDelta(t, 96.0, MaxSessionCompletion(sessions), 1e-9)
	assert.Zero(t, MaxSessionCompletion(nil))
}
