package repository

import (
	"learnguard_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) SaveResult(result *model.QuizResult) error {
	return r.DB.Create(result).Error
}

// AverageScore 该 (用户, 课程) 的测验平均分；无记录时返回 0
func (r *QuizRepository) AverageScore(userID, courseID uint) (float64, error) {
	var avg *float64
	err := r.DB.Model(&model.QuizResult{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
