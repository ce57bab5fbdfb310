package repository

import (
	"learnguard_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) List(page, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	if err := r.DB.Model(&model.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) Create(item *model.ContentItem) error {
	return r.DB.Create(item).Error
}

func (r *ContentRepository) FindByID(id uint) (*model.ContentItem, error) {
	var item model.ContentItem
	err := r.DB.First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ContentRepository) FindByCourse(courseID uint) ([]model.ContentItem, error) {
	var items []model.ContentItem
	err := r.DB.Where("course_id = ?", courseID).
		Order("`order` ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ContentRepository) Update(item *model.ContentItem) error {
	return r.DB.Save(item).Error
}
