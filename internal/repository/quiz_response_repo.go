package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/eskwela-dev/eskwela-go-api/internal/models"
)

// QuizResponseFilter narrows quiz response queries.
type QuizResponseFilter struct {
	ActivityID *uint
	StudentID  *uint
}

// QuizResponseRepository defines data operations for quiz responses.
type QuizResponseRepository interface {
	List(ctx context.Context, filter QuizResponseFilter) ([]models.QuizResponse, error)
	GetByID(ctx context.Context, id uint) (models.QuizResponse, error)
	GetByActivityAndStudent(ctx context.Context, activityID, studentID uint) (models.QuizResponse, error)
	Create(ctx context.Context, response *models.QuizResponse) error
	Delete(ctx context.Context, id uint) error
}

type quizResponseRepository struct {
	db *gorm.DB
}

// NewQuizResponseRepository instantiates the repository.
func NewQuizResponseRepository(db *gorm.DB) QuizResponseRepository {
	return &quizResponseRepository{db: db}
}

func (r *quizResponseRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.QuizResponse{}).
		Preload("Activity").
		Preload("Student")
}

func (r *quizResponseRepository) List(ctx context.Context, filter QuizResponseFilter) ([]models.QuizResponse, error) {
	query := r.baseQuery(ctx)

	if filter.ActivityID != nil {
		query = query.Where("activity_id = ?", *filter.ActivityID)
	}

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	var responses []models.QuizResponse
	if err := query.Order("created_at DESC").Find(&responses).Error; err != nil {
		return nil, err
	}

	return responses, nil
}

func (r *quizResponseRepository) GetByID(ctx context.Context, id uint) (models.QuizResponse, error) {
	var response models.QuizResponse
	if err := r.baseQuery(ctx).First(&response, id).Error; err != nil {
		return models.QuizResponse{}, err
	}

	return response, nil
}

func (r *quizResponseRepository) GetByActivityAndStudent(ctx context.Context, activityID, studentID uint) (models.QuizResponse, error) {
	var response models.QuizResponse
	if err := r.baseQuery(ctx).
		Where("activity_id = ?", activityID).
		Where("student_id = ?", studentID).
		First(&response).Error; err != nil {
		return models.QuizResponse{}, err
	}

	return response, nil
}

// Create inserts the response. The composite unique index on
// (activity_id, student_id) surfaces concurrent double-submits as
// gorm.ErrDuplicatedKey, which callers translate to an already-submitted error.
func (r *quizResponseRepository) Create(ctx context.Context, response *models.QuizResponse) error {
	return r.db.WithContext(ctx).Create(response).Error
}

func (r *quizResponseRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.QuizResponse{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
