package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eskwela-dev/eskwela-go-api/internal/models"
)

// ActivityFilter describes listing options for activities.
type ActivityFilter struct {
	Kind     *models.ActivityKind
	ClassID  *uint
	Search   string
	Page     int
	PageSize int
}

// ActivityRepository defines persistence operations for activities.
type ActivityRepository interface {
	List(ctx context.Context, filter ActivityFilter) ([]models.Activity, int64, error)
	GetByID(ctx context.Context, id uint) (models.Activity, error)
	Create(ctx context.Context, activity *models.Activity) error
	Update(ctx context.Context, activity *models.Activity) error
	Delete(ctx context.Context, id uint) error
	UpsertClassAssignment(ctx context.Context, assignment *models.ClassAssignment) error
	MarkViewed(ctx context.Context, activityID, studentID uint, viewedAt time.Time) error
	HasViewed(ctx context.Context, activityID, studentID uint) (bool, error)
	ListViewedActivityIDs(ctx context.Context, studentID uint) ([]uint, error)
	CountViews(ctx context.Context, activityID uint) (int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository instantiates a GORM-backed repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Activity{}).
		Preload("ClassAssignments").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

func (r *activityRepository) List(ctx context.Context, filter ActivityFilter) ([]models.Activity, int64, error) {
	query := r.baseQuery(ctx)

	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}

	if filter.ClassID != nil {
		query = query.Where("id IN (?)", r.db.Model(&models.ClassAssignment{}).
			Select("activity_id").
			Where("class_id = ?", *filter.ClassID))
	}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(title) LIKE ?", pattern)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var activities []models.Activity
	if err := query.Order("due_date ASC").Find(&activities).Error; err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}

func (r *activityRepository) GetByID(ctx context.Context, id uint) (models.Activity, error) {
	var activity models.Activity
	if err := r.baseQuery(ctx).First(&activity, id).Error; err != nil {
		return models.Activity{}, err
	}

	return activity, nil
}

func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) Update(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(activity).Error
}

func (r *activityRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Activity{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *activityRepository) UpsertClassAssignment(ctx context.Context, assignment *models.ClassAssignment) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "activity_id"}, {Name: "class_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"student_ids"}),
	}).Create(assignment).Error
}

// MarkViewed inserts the view record if absent. The conflict clause makes the
// operation idempotent under concurrent marks for the same pair.
func (r *activityRepository) MarkViewed(ctx context.Context, activityID, studentID uint, viewedAt time.Time) error {
	view := models.ActivityView{
		ActivityID: activityID,
		StudentID:  studentID,
		ViewedAt:   viewedAt,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "activity_id"}, {Name: "student_id"}},
		DoNothing: true,
	}).Create(&view).Error
}

func (r *activityRepository) HasViewed(ctx context.Context, activityID, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ActivityView{}).
		Where("activity_id = ? AND student_id = ?", activityID, studentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *activityRepository) ListViewedActivityIDs(ctx context.Context, studentID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.ActivityView{}).
		Where("student_id = ?", studentID).
		Pluck("activity_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *activityRepository) CountViews(ctx context.Context, activityID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ActivityView{}).
		Where("activity_id = ?", activityID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
