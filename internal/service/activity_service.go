package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/eskwela-dev/eskwela-go-api/internal/dto"
	"github.com/eskwela-dev/eskwela-go-api/internal/models"
	"github.com/eskwela-dev/eskwela-go-api/internal/repository"
)

// ErrActivityNotFound indicates an activity could not be found.
var ErrActivityNotFound = errors.New("activity not found")

// ErrNotActivityOwner indicates the actor did not create the activity.
var ErrNotActivityOwner = errors.New("only the activity creator can modify it")

// ErrInvalidQuizPoints indicates the quiz point total broke its constraints.
var ErrInvalidQuizPoints = errors.New("quiz points must equal the question total and lie between 1 and 100")

// ErrActivityNotOpen indicates the activity is unposted or the student is not
// on any of its class assignments.
var ErrActivityNotOpen = errors.New("activity is not open to this student")

// ActivityService manages activity definitions, class targeting and view
// tracking.
type ActivityService interface {
	Create(ctx context.Context, actor Actor, payload dto.ActivityCreateRequest) (dto.ActivityResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.ActivityUpdateRequest) (dto.ActivityResponse, error)
	AssignClass(ctx context.Context, actor Actor, id uint, payload dto.ClassAssignmentRequest) (dto.ActivityResponse, error)
	Get(ctx context.Context, id uint) (dto.ActivityResponse, error)
	List(ctx context.Context, filter repository.ActivityFilter) ([]dto.ActivityResponse, int64, error)
	MarkViewed(ctx context.Context, activityID, studentID uint) error
}

type activityService struct {
	activities repository.ActivityRepository
	validator  *validator.Validate
	logger     zerolog.Logger
	now        func() time.Time
}

// NewActivityService constructs an ActivityService instance.
func NewActivityService(repo repository.ActivityRepository, validate *validator.Validate, logger zerolog.Logger) ActivityService {
	return &activityService{
		activities: repo,
		validator:  validate,
		logger:     logger.With().Str("component", "activity_service").Logger(),
		now:        time.Now,
	}
}

func (s *activityService) Create(ctx context.Context, actor Actor, payload dto.ActivityCreateRequest) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityResponse{}, err
	}

	postAt, err := time.Parse(time.RFC3339, payload.PostAt)
	if err != nil {
		return dto.ActivityResponse{}, fmt.Errorf("invalid post_at: %w", err)
	}

	activity := models.Activity{
		Kind:        models.ActivityKind(payload.Kind),
		Title:       payload.Title,
		Description: payload.Description,
		Points:      payload.Points,
		PostAt:      postAt,
		CreatedBy:   actor.ID,
	}

	if payload.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *payload.DueDate)
		if err != nil {
			return dto.ActivityResponse{}, fmt.Errorf("invalid due_date: %w", err)
		}
		activity.DueDate = &dueDate
	}

	if activity.Kind == models.KindQuiz {
		if len(payload.Questions) == 0 {
			return dto.ActivityResponse{}, fmt.Errorf("a quiz requires at least one question")
		}

		total := 0
		for i, question := range payload.Questions {
			activity.Questions = append(activity.Questions, models.Question{
				Position:       i,
				Type:           models.QuestionType(question.Type),
				Text:           question.Text,
				Options:        question.Options,
				CorrectAnswers: question.CorrectAnswers,
				Points:         question.Points,
			})
			total += question.Points
		}

		// Quiz points are derived, never trusted from the payload.
		activity.Points = total
		if total < models.QuizPointsMin || total > models.QuizPointsMax {
			return dto.ActivityResponse{}, ErrInvalidQuizPoints
		}
	}

	if err := s.activities.Create(ctx, &activity); err != nil {
		return dto.ActivityResponse{}, err
	}

	s.logger.Info().Uint("activity_id", activity.ID).Str("kind", string(activity.Kind)).Msg("activity created")

	return dto.NewActivityResponse(activity), nil
}

func (s *activityService) Update(ctx context.Context, actor Actor, id uint, payload dto.ActivityUpdateRequest) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityResponse{}, err
	}

	activity, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	if payload.Title != nil {
		activity.Title = *payload.Title
	}
	if payload.Description != nil {
		activity.Description = *payload.Description
	}
	if payload.Points != nil {
		if activity.IsQuiz() && *payload.Points != activity.QuestionPointsTotal() {
			return dto.ActivityResponse{}, ErrInvalidQuizPoints
		}
		activity.Points = *payload.Points
	}
	if payload.DueDate != nil {
		if *payload.DueDate == "" {
			activity.DueDate = nil
		} else {
			dueDate, err := time.Parse(time.RFC3339, *payload.DueDate)
			if err != nil {
				return dto.ActivityResponse{}, fmt.Errorf("invalid due_date: %w", err)
			}
			activity.DueDate = &dueDate
		}
	}
	if payload.PostAt != nil {
		postAt, err := time.Parse(time.RFC3339, *payload.PostAt)
		if err != nil {
			return dto.ActivityResponse{}, fmt.Errorf("invalid post_at: %w", err)
		}
		activity.PostAt = postAt
	}

	if err := s.activities.Update(ctx, &activity); err != nil {
		return dto.ActivityResponse{}, err
	}

	s.logger.Info().Uint("activity_id", activity.ID).Msg("activity updated")

	return dto.NewActivityResponse(activity), nil
}

func (s *activityService) AssignClass(ctx context.Context, actor Actor, id uint, payload dto.ClassAssignmentRequest) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityResponse{}, err
	}

	activity, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	assignment := models.ClassAssignment{
		ActivityID: activity.ID,
		ClassID:    payload.ClassID,
		StudentIDs: dedupeIDs(payload.StudentIDs),
	}

	if err := s.activities.UpsertClassAssignment(ctx, &assignment); err != nil {
		return dto.ActivityResponse{}, err
	}

	updated, err := s.activities.GetByID(ctx, activity.ID)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	return dto.NewActivityResponse(updated), nil
}

func (s *activityService) Get(ctx context.Context, id uint) (dto.ActivityResponse, error) {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrActivityNotFound
		}
		return dto.ActivityResponse{}, err
	}

	return dto.NewActivityResponse(activity), nil
}

func (s *activityService) List(ctx context.Context, filter repository.ActivityFilter) ([]dto.ActivityResponse, int64, error) {
	activities, total, err := s.activities.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return dto.NewActivityResponseSlice(activities), total, nil
}

// MarkViewed records that the student opened the activity. Repeating the call
// for the same pair is not an error and never grows the view set.
func (s *activityService) MarkViewed(ctx context.Context, activityID, studentID uint) error {
	if _, err := s.activities.GetByID(ctx, activityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActivityNotFound
		}
		return err
	}

	if err := s.activities.MarkViewed(ctx, activityID, studentID, s.now()); err != nil {
		// The unique index already guards duplicates; a duplicate-key error
		// from a racing insert still means the view is recorded.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	return nil
}

func (s *activityService) getOwned(ctx context.Context, actor Actor, id uint) (models.Activity, error) {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Activity{}, ErrActivityNotFound
		}
		return models.Activity{}, err
	}

	if activity.CreatedBy != actor.ID {
		return models.Activity{}, ErrNotActivityOwner
	}

	return activity, nil
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
