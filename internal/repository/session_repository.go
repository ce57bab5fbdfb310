package repository

import (
	"learnguard_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.LearningSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindByID(id uint) (*model.LearningSession, error) {
	var session model.LearningSession
	err := r.DB.First(&session, id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) FindByIDAndUserID(sessionID, userID uint) (*model.LearningSession, error) {
	var session model.LearningSession
	err := r.DB.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Update(session *model.LearningSession) error {
	return r.DB.Save(session).Error
}

func (r *SessionRepository) FindByUserAndContent(userID, contentID uint) ([]model.LearningSession, error) {
	var sessions []model.LearningSession
	err := r.DB.Where("user_id = ? AND content_id = ?", userID, contentID).
		Order("session_start ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepository) FindByUserAndCourse(userID, courseID uint) ([]model.LearningSession, error) {
	var sessions []model.LearningSession
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("session_start ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// FindEndedByCourseSince 巡检取数：某课程内指定时间后结束的全部会话
func (r *SessionRepository) FindEndedByCourseSince(courseID uint, since time.Time) ([]model.LearningSession, error) {
	var sessions []model.LearningSession
	err := r.DB.Where("course_id = ? AND session_end IS NOT NULL AND session_end >= ?", courseID, since).
		Order("id ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepository) CountByUserAndCourse(userID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LearningSession{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count, err
}

func (r *SessionRepository) CountSuspiciousByUserAndCourse(userID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LearningSession{}).
		Where("user_id = ? AND course_id = ? AND suspicious = ?", userID, courseID, true).
		Count(&count).Error
	return count, err
}

// MarkSuspicious 巡检协作方回写可疑标记；评分引擎本身不落库
func (r *SessionRepository) MarkSuspicious(sessionID uint, suspicious bool) error {
	return r.DB.Model(&model.LearningSession{}).
		Where("id = ?", sessionID).
		Update("suspicious", suspicious).Error
}
