package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/eskwela-dev/eskwela-go-api/internal/dto"
	"github.com/eskwela-dev/eskwela-go-api/internal/models"
	"github.com/eskwela-dev/eskwela-go-api/internal/repository"
)

// StatusService is the single surface that derives completion status. Listing
// and filtering endpoints consume it instead of re-deriving status from raw
// records.
type StatusService interface {
	GetStatus(ctx context.Context, activityID, studentID uint, now time.Time) (dto.ActivityStatusResponse, error)
	GetProgress(ctx context.Context, studentID, classID uint) (dto.StudentProgressResponse, error)
	GetClassSummary(ctx context.Context, classID uint) (dto.ClassSummaryResponse, error)
}

type statusService struct {
	activities  repository.ActivityRepository
	submissions repository.SubmissionRepository
	responses   repository.QuizResponseRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewStatusService builds the completion status resolver service.
func NewStatusService(activityRepo repository.ActivityRepository, submissionRepo repository.SubmissionRepository, responseRepo repository.QuizResponseRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) StatusService {
	return &statusService{
		activities:  activityRepo,
		submissions: submissionRepo,
		responses:   responseRepo,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "status_service").Logger(),
		now:         time.Now,
	}
}

func (s *statusService) GetStatus(ctx context.Context, activityID, studentID uint, now time.Time) (dto.ActivityStatusResponse, error) {
	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityStatusResponse{}, ErrActivityNotFound
		}
		return dto.ActivityStatusResponse{}, err
	}

	viewed, err := s.activities.HasViewed(ctx, activityID, studentID)
	if err != nil {
		return dto.ActivityStatusResponse{}, err
	}

	var submission *models.Submission
	if sub, err := s.submissions.GetByActivityAndStudent(ctx, activityID, studentID); err == nil {
		submission = &sub
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ActivityStatusResponse{}, err
	}

	var response *models.QuizResponse
	if resp, err := s.responses.GetByActivityAndStudent(ctx, activityID, studentID); err == nil {
		response = &resp
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ActivityStatusResponse{}, err
	}

	status := ResolveStatus(activity, viewed, submission, response, now)

	result := dto.ActivityStatusResponse{
		ActivityID: activityID,
		StudentID:  studentID,
		Status:     string(status),
		Bucket:     string(BucketFor(status)),
		DueDate:    activity.DueDate,
	}
	if submission != nil {
		result.Grade = submission.Grade
	}
	if response != nil {
		score := response.Score
		result.Score = &score
	}

	return result, nil
}

func (s *statusService) GetProgress(ctx context.Context, studentID, classID uint) (dto.StudentProgressResponse, error) {
	cacheKey := fmt.Sprintf("progress:student:%d:class:%d", studentID, classID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.StudentProgressResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("student_id", studentID).Msg("progress cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read progress cache")
		}
	}

	activities, _, err := s.activities.List(ctx, repository.ActivityFilter{ClassID: &classID})
	if err != nil {
		return dto.StudentProgressResponse{}, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &studentID})
	if err != nil {
		return dto.StudentProgressResponse{}, err
	}

	responses, err := s.responses.List(ctx, repository.QuizResponseFilter{StudentID: &studentID})
	if err != nil {
		return dto.StudentProgressResponse{}, err
	}

	viewedIDs, err := s.activities.ListViewedActivityIDs(ctx, studentID)
	if err != nil {
		return dto.StudentProgressResponse{}, err
	}

	response := s.buildProgress(studentID, classID, activities, submissions, responses, viewedIDs)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store progress cache")
			}
		}
	}

	return response, nil
}

func (s *statusService) GetClassSummary(ctx context.Context, classID uint) (dto.ClassSummaryResponse, error) {
	cacheKey := fmt.Sprintf("summary:class:%d", classID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.ClassSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("class_id", classID).Msg("class summary cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read class summary cache")
		}
	}

	activities, _, err := s.activities.List(ctx, repository.ActivityFilter{ClassID: &classID})
	if err != nil {
		return dto.ClassSummaryResponse{}, err
	}

	now := s.now()
	response := dto.ClassSummaryResponse{ClassID: classID}

	for _, activity := range activities {
		if !activity.IsPosted(now) {
			continue
		}

		var studentIDs []uint
		for _, ca := range activity.ClassAssignments {
			if ca.ClassID == classID {
				studentIDs = ca.StudentIDs
				break
			}
		}
		if len(studentIDs) == 0 {
			continue
		}

		activityID := activity.ID
		submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{ActivityID: &activityID})
		if err != nil {
			return dto.ClassSummaryResponse{}, err
		}

		quizResponses, err := s.responses.List(ctx, repository.QuizResponseFilter{ActivityID: &activityID})
		if err != nil {
			return dto.ClassSummaryResponse{}, err
		}

		response.Activities = append(response.Activities, summarizeActivity(activity, studentIDs, submissions, quizResponses, now))
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store class summary cache")
			}
		}
	}

	return response, nil
}

// summarizeActivity rolls one activity up across its assigned students.
// Buckets do not depend on view evidence (viewed and not-viewed both land in
// upcoming), so the rollup resolves each pair without loading views.
func summarizeActivity(activity models.Activity, studentIDs []uint, submissions []models.Submission, responses []models.QuizResponse, now time.Time) dto.ActivitySummary {
	submissionByStudent := make(map[uint]models.Submission, len(submissions))
	for _, submission := range submissions {
		submissionByStudent[submission.StudentID] = submission
	}

	responseByStudent := make(map[uint]models.QuizResponse, len(responses))
	for _, response := range responses {
		responseByStudent[response.StudentID] = response
	}

	summary := dto.ActivitySummary{
		Activity: dto.NewActivityLite(activity),
		Assigned: len(studentIDs),
	}

	var gradeTotal float64
	var gradeCount int

	for _, studentID := range studentIDs {
		var submission *models.Submission
		if sub, ok := submissionByStudent[studentID]; ok {
			submission = &sub
		}
		var response *models.QuizResponse
		if resp, ok := responseByStudent[studentID]; ok {
			response = &resp
		}

		status := ResolveStatus(activity, false, submission, response, now)
		switch BucketFor(status) {
		case BucketUpcoming:
			summary.Upcoming++
		case BucketPastDue:
			summary.PastDue++
		case BucketToGrade:
			summary.ToGrade++
		case BucketCompleted:
			summary.Completed++
		}

		switch {
		case submission != nil && submission.Grade != nil:
			gradeTotal += *submission.Grade
			gradeCount++
		case response != nil && response.Graded:
			gradeTotal += float64(response.Score)
			gradeCount++
		}
	}

	if gradeCount > 0 {
		average := gradeTotal / float64(gradeCount)
		summary.AverageGrade = &average
	}

	return summary
}

func (s *statusService) buildProgress(studentID, classID uint, activities []models.Activity, submissions []models.Submission, responses []models.QuizResponse, viewedIDs []uint) dto.StudentProgressResponse {
	now := s.now()

	submissionByActivity := make(map[uint]models.Submission, len(submissions))
	for _, submission := range submissions {
		submissionByActivity[submission.ActivityID] = submission
	}

	responseByActivity := make(map[uint]models.QuizResponse, len(responses))
	for _, response := range responses {
		responseByActivity[response.ActivityID] = response
	}

	viewed := make(map[uint]struct{}, len(viewedIDs))
	for _, id := range viewedIDs {
		viewed[id] = struct{}{}
	}

	progress := dto.StudentProgressResponse{StudentID: studentID}

	for _, activity := range activities {
		if !activity.VisibleTo(classID, studentID, now) {
			continue
		}

		var submission *models.Submission
		if sub, ok := submissionByActivity[activity.ID]; ok {
			submission = &sub
		}
		var response *models.QuizResponse
		if resp, ok := responseByActivity[activity.ID]; ok {
			response = &resp
		}
		_, hasViewed := viewed[activity.ID]

		status := ResolveStatus(activity, hasViewed, submission, response, now)
		bucket := BucketFor(status)

		item := dto.ProgressItem{
			Activity: dto.NewActivityLite(activity),
			Status:   string(status),
			Bucket:   string(bucket),
		}
		if submission != nil {
			item.Grade = submission.Grade
			item.Feedback = submission.Feedback
		}
		if response != nil {
			score := response.Score
			item.Score = &score
		}

		progress.Items = append(progress.Items, item)
		progress.Summary.Total++
		switch bucket {
		case BucketUpcoming:
			progress.Summary.Upcoming++
		case BucketPastDue:
			progress.Summary.PastDue++
		case BucketToGrade:
			progress.Summary.ToGrade++
		case BucketCompleted:
			progress.Summary.Completed++
		}
	}

	return progress
}
