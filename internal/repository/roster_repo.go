package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/eskwela-dev/eskwela-go-api/internal/models"
)

// RosterRepository exposes enrollment and student lookups used by grade
// reconciliation and template generation.
type RosterRepository interface {
	ListEnrollments(ctx context.Context, filter models.RosterFilter) ([]models.Enrollment, error)
	ListEnrollmentsForStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error)
	ListStudents(ctx context.Context) ([]models.User, error)
	CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
}

type rosterRepository struct {
	db *gorm.DB
}

// NewRosterRepository instantiates the repository.
func NewRosterRepository(db *gorm.DB) RosterRepository {
	return &rosterRepository{db: db}
}

func (r *rosterRepository) ListEnrollments(ctx context.Context, filter models.RosterFilter) ([]models.Enrollment, error) {
	query := r.db.WithContext(ctx).Model(&models.Enrollment{}).Preload("Student")

	if filter.Section != "" {
		query = query.Where("section = ?", filter.Section)
	}
	if filter.Track != "" {
		query = query.Where("track = ?", filter.Track)
	}
	if filter.Strand != "" {
		query = query.Where("strand = ?", filter.Strand)
	}
	if filter.GradeLevel != "" {
		query = query.Where("grade_level = ?", filter.GradeLevel)
	}
	if filter.SchoolYear != "" {
		query = query.Where("school_year = ?", filter.SchoolYear)
	}
	if filter.Term != "" {
		query = query.Where("term = ?", filter.Term)
	}

	var enrollments []models.Enrollment
	if err := query.Order("id ASC").Find(&enrollments).Error; err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *rosterRepository) ListEnrollmentsForStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Find(&enrollments).Error; err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *rosterRepository) ListStudents(ctx context.Context) ([]models.User, error) {
	var students []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ?", models.RoleStudent).
		Order("last_name ASC, first_name ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *rosterRepository) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}
