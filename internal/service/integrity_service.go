package service

import (
	"context"
	"encoding/json"
	"fmt"
	"learnguard_backend/internal/config"
	"learnguard_backend/internal/model"
	"learnguard_backend/internal/repository"
	"learnguard_backend/internal/util"
	"learnguard_backend/pkg/logger"
	"learnguard_backend/pkg/monitoring"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const sessionAnalysisKeyPrefix = "session_analysis:"

// IntegrityService 会话完整性引擎的取数与编排层。
// 所有计算都是对已取快照的纯函数；本服务只负责取数、缓存与巡检回写。
type IntegrityService struct {
	SessionRepo *repository.SessionRepository
	ContentRepo *repository.ContentRepository
	Cfg         *config.Config
	Redis       *redis.Client
}

func NewIntegrityService(sessionRepo *repository.SessionRepository, contentRepo *repository.ContentRepository, cfg *config.Config, rdb *redis.Client) *IntegrityService {
	return &IntegrityService{
		SessionRepo: sessionRepo,
		ContentRepo: contentRepo,
		Cfg:         cfg,
		Redis:       rdb,
	}
}

// ScoreSession 单会话完整分析：时长摘要 + 专注度 + 风险分级
func (s *IntegrityService) ScoreSession(ctx context.Context, sessionID uint) (*model.SessionAnalysis, error) {
	// 已结束的会话不可变，分析结果可以安全缓存
	cacheKey := fmt.Sprintf("%s%d", sessionAnalysisKeyPrefix, sessionID)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var analysis model.SessionAnalysis
			if json.Unmarshal([]byte(cached), &analysis) == nil {
				return &analysis, nil
			}
		}
	}

	session, err := s.SessionRepo.FindByID(sessionID)
	if err != nil {
		return nil, util.ErrSessionNotFound
	}

	analysis := s.analyze(session)

	if s.Redis != nil && session.Ended() {
		if payload, err := json.Marshal(analysis); err == nil {
			ttl := time.Duration(s.Cfg.Engine.CacheTTLMinutes) * time.Minute
			s.Redis.Set(ctx, cacheKey, payload, ttl)
		}
	}

	return analysis, nil
}

// analyze 对单条会话跑完整的纯计算链
func (s *IntegrityService) analyze(session *model.LearningSession) *model.SessionAnalysis {
	// 内容缺失不是错误：预期时长按未知处理
	var expected *float64
	if content, err := s.ContentRepo.FindByID(session.ContentID); err == nil {
		expected = ExpectedDurationMinutes(content)
	}

	summary := SummarizeSession(session, expected)
	if summary.Degraded {
		logger.Log.Debug("session summary degraded",
			zap.Uint("sessionId", session.ID),
			zap.Bool("ended", session.Ended()))
	}

	var attention model.AttentionResult
	if session.HasPlaybackTelemetry() {
		attention = CalculateAttention(summary, expected, session.VideoCompletionPercentage)
	} else {
		// 无播放遥测的历史记录走遗留启发式
		attention = LegacyAttentionEstimate(session.SessionStart, summary.DurationMinutes)
	}

	risk := ScoreRisk(summary.DurationMinutes, expected, session.VideoCompletionPercentage,
		summary.ActivePlaybackMinutes, summary.SkipCount, attention.Score)

	monitoring.SessionsScored.Inc()
	if risk.IsSuspicious {
		monitoring.SessionsFlagged.WithLabelValues(string(risk.RiskLevel)).Inc()
	}

	return &model.SessionAnalysis{
		SessionID:       session.ID,
		UserID:          session.UserID,
		ContentID:       session.ContentID,
		CourseID:        session.CourseID,
		DurationMinutes: summary.DurationMinutes,
		Attention:       attention,
		Risk:            risk,
	}
}

// AnalyzeContentHistory 聚合 (用户, 内容) 的全部历史会话为整体参与度视图。
// 单会话评分看一次播放，这里看学员对一个内容的累计行为。
func (s *IntegrityService) AnalyzeContentHistory(userID, contentID uint) (*model.ContentEngagement, error) {
	content, err := s.ContentRepo.FindByID(contentID)
	if err != nil {
		return nil, util.ErrContentNotFound
	}

	sessions, err := s.SessionRepo.FindByUserAndContent(userID, contentID)
	if err != nil {
		return nil, err
	}

	return BuildContentEngagement(userID, contentID, content, sessions)
}

// BuildContentEngagement 对已取快照跑聚合计算链。跨实体混入的会话直接拒绝。
func BuildContentEngagement(userID, contentID uint, content *model.ContentItem, sessions []model.LearningSession) (*model.ContentEngagement, error) {
	engagement := &model.ContentEngagement{
		UserID:       userID,
		ContentID:    contentID,
		SessionCount: len(sessions),
	}
	if len(sessions) == 0 {
		return engagement, nil
	}

	expected := ExpectedDurationMinutes(content)
	summary, err := SummarizeSessions(userID, contentID, sessions, expected)
	if err != nil {
		return nil, err
	}

	completion := MaxSessionCompletion(sessions)
	attention := CalculateAttention(summary, expected, completion)
	risk := ScoreRisk(summary.DurationMinutes, expected, completion,
		summary.ActivePlaybackMinutes, summary.SkipCount, attention.Score)

	engagement.TotalDurationMinutes = summary.DurationMinutes
	engagement.ActivePlaybackMinutes = summary.ActivePlaybackMinutes
	engagement.MaxCompletion = completion
	engagement.Attention = attention
	engagement.Risk = risk
	return engagement, nil
}

// SweepCourse 夜间巡检：重算课程内指定时间后结束的全部会话并回写可疑标记。
// 各会话相互独立，用有界的 worker 池并行处理；单条失败不影响同批其它会话。
func (s *IntegrityService) SweepCourse(courseID uint, since time.Time) (*model.SweepResult, error) {
	sessions, err := s.SessionRepo.FindEndedByCourseSince(courseID, since)
	if err != nil {
		return nil, err
	}

	result := &model.SweepResult{CourseID: courseID}

	workers := s.Cfg.Engine.SweepWorkers
	if workers <= 0 {
		workers = 8
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i := range sessions {
		session := sessions[i]
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			// 单条坏记录不能拖垮整个批次
			defer func() {
				if r := recover(); r != nil {
					logger.Log.Error("sweep unit panicked",
						zap.Uint("sessionId", session.ID),
						zap.Any("panic", r))
					mu.Lock()
					result.Failed++
					mu.Unlock()
				}
			}()

			analysis := s.analyze(&session)

			flagged := analysis.Risk.IsSuspicious
			if flagged != session.Suspicious {
				if err := s.SessionRepo.MarkSuspicious(session.ID, flagged); err != nil {
					logger.Log.Error("failed to persist suspicious flag",
						zap.Uint("sessionId", session.ID), zap.Error(err))
					mu.Lock()
					result.Failed++
					mu.Unlock()
					return
				}
			}

			mu.Lock()
			result.Scored++
			if flagged {
				result.Flagged++
			}
			mu.Unlock()
		}()
	}

	wg.Wait()

	logger.Log.Info("integrity sweep finished",
		zap.Uint("courseId", courseID),
		zap.Int("scored", result.Scored),
		zap.Int("flagged", result.Flagged),
		zap.Int("failed", result.Failed))

	return result, nil
}
