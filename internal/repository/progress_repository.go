package repository

import (
	"learnguard_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByUserAndContent(userID, contentID uint) (*model.ContentProgress, error) {
	var progress model.ContentProgress
	err := r.DB.Where("user_id = ? AND content_id = ?", userID, contentID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) FindByUserAndCourse(userID, courseID uint) ([]model.ContentProgress, error) {
	var rows []model.ContentProgress
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert 客户端进度心跳可能覆盖为更小的值，完成判定不依赖此处的单一快照
func (r *ProgressRepository) Upsert(progress *model.ContentProgress) error {
	var existing model.ContentProgress
	err := r.DB.Where("user_id = ? AND content_id = ?", progress.UserID, progress.ContentID).
		First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		progress.LastAccessedAt = time.Now()
		return r.DB.Create(progress).Error
	}
	if err != nil {
		return err
	}

	existing.CompletionPercentage = progress.CompletionPercentage
	existing.IsCompleted = progress.IsCompleted
	existing.LastAccessedAt = time.Now()
	return r.DB.Save(&existing).Error
}

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(assignment *model.CourseAssignment) error {
	return r.DB.Create(assignment).Error
}

func (r *AssignmentRepository) FindByUserAndCourse(userID, courseID uint) (*model.CourseAssignment, error) {
	var assignment model.CourseAssignment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepository) FindByCourse(courseID uint) ([]model.CourseAssignment, error) {
	var assignments []model.CourseAssignment
	err := r.DB.Where("course_id = ?", courseID).Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *AssignmentRepository) FindByUser(userID uint) ([]model.CourseAssignment, error) {
	var assignments []model.CourseAssignment
	err := r.DB.Where("user_id = ?", userID).Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *AssignmentRepository) Update(assignment *model.CourseAssignment) error {
	return r.DB.Save(assignment).Error
}
