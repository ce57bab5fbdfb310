package service

import (
	"learnguard_backend/internal/model"
	"learnguard_backend/internal/repository"
	"learnguard_backend/internal/util"
	"time"
)

type SessionService struct {
	SessionRepo *repository.SessionRepository
	ContentRepo *repository.ContentRepository
}

func NewSessionService(sessionRepo *repository.SessionRepository, contentRepo *repository.ContentRepository) *SessionService {
	return &SessionService{
		SessionRepo: sessionRepo,
		ContentRepo: contentRepo,
	}
}

// SessionEndRequest 播放端在会话结束时一次性上报的遥测
type SessionEndRequest struct {
	ActivePlaybackSeconds     *float64 `json:"activePlaybackSeconds"`
	VideoCompletionPercentage float64  `json:"videoCompletionPercentage" binding:"gte=0,lte=100"`
	SkipCount                 int      `json:"skipCount" binding:"gte=0"`
	SeekCount                 int      `json:"seekCount" binding:"gte=0"`
	PauseCount                int      `json:"pauseCount" binding:"gte=0"`
	ReplayCount               int      `json:"replayCount" binding:"gte=0"`
}

func (s *SessionService) StartSession(userID, contentID uint) (*model.LearningSession, error) {
	content, err := s.ContentRepo.FindByID(contentID)
	if err != nil {
		return nil, util.ErrContentNotFound
	}

	session := &model.LearningSession{
		UserID:       userID,
		ContentID:    contentID,
		CourseID:     content.CourseID,
		SessionStart: time.Now(),
	}

	if err := s.SessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// EndSession 写入结束时间与遥测。结束后的会话不可变，重复收尾直接拒绝。
func (s *SessionService) EndSession(userID, sessionID uint, req SessionEndRequest) (*model.LearningSession, error) {
	session, err := s.SessionRepo.FindByIDAndUserID(sessionID, userID)
	if err != nil {
		return nil, util.ErrSessionNotFound
	}

	if session.Ended() {
		return nil, util.ErrSessionAlreadyEnded
	}

	now := time.Now()
	session.SessionEnd = &now
	session.ActivePlaybackSeconds = req.ActivePlaybackSeconds
	session.VideoCompletionPercentage = req.VideoCompletionPercentage
	session.SkipCount = req.SkipCount
	session.SeekCount = req.SeekCount
	session.PauseCount = req.PauseCount
	session.ReplayCount = req.ReplayCount

	if err := s.SessionRepo.Update(session); err != nil {
		return nil, err
	}
	return session, nil
}
