package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/eskwela-dev/eskwela-go-api/internal/dto"
	"github.com/eskwela-dev/eskwela-go-api/internal/models"
	"github.com/eskwela-dev/eskwela-go-api/internal/observability"
	"github.com/eskwela-dev/eskwela-go-api/internal/repository"
)

// ErrAlreadySubmitted indicates the student already has a response for the
// quiz. Quizzes are strictly single-attempt.
var ErrAlreadySubmitted = errors.New("quiz already submitted")

// ErrNotAQuiz indicates the activity is not a quiz.
var ErrNotAQuiz = errors.New("activity is not a quiz")

// ErrResponseNotFound indicates the student has no recorded quiz attempt.
var ErrResponseNotFound = errors.New("quiz response not found")

// QuizService auto-grades and records quiz attempts.
type QuizService interface {
	Submit(ctx context.Context, quizID uint, payload dto.QuizSubmitRequest) (dto.QuizResultResponse, error)
	GetResult(ctx context.Context, quizID, studentID uint) (dto.QuizResultResponse, error)
}

type quizService struct {
	activities repository.ActivityRepository
	responses  repository.QuizResponseRepository
	validator  *validator.Validate
	events     *nats.Conn
	logger     zerolog.Logger
	now        func() time.Time
}

// NewQuizService constructs a QuizService instance. The NATS connection is
// optional; without it grading events are simply not published.
func NewQuizService(activityRepo repository.ActivityRepository, responseRepo repository.QuizResponseRepository, validate *validator.Validate, events *nats.Conn, logger zerolog.Logger) QuizService {
	return &quizService{
		activities: activityRepo,
		responses:  responseRepo,
		validator:  validate,
		events:     events,
		logger:     logger.With().Str("component", "quiz_service").Logger(),
		now:        time.Now,
	}
}

func (s *quizService) Submit(ctx context.Context, quizID uint, payload dto.QuizSubmitRequest) (dto.QuizResultResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResultResponse{}, err
	}

	activity, err := s.activities.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResultResponse{}, ErrActivityNotFound
		}
		return dto.QuizResultResponse{}, err
	}

	if !activity.IsQuiz() {
		return dto.QuizResultResponse{}, ErrNotAQuiz
	}

	if !activity.OpenToStudent(payload.StudentID, s.now()) {
		return dto.QuizResultResponse{}, ErrActivityNotOpen
	}

	// A second attempt is a hard terminal condition surfaced before grading
	// runs. The unique index below closes the race this pre-check leaves.
	if _, err := s.responses.GetByActivityAndStudent(ctx, quizID, payload.StudentID); err == nil {
		return dto.QuizResultResponse{}, ErrAlreadySubmitted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.QuizResultResponse{}, err
	}

	score, checked := gradeQuiz(activity.Questions, payload.Answers)

	answersJSON, err := json.Marshal(payload.Answers)
	if err != nil {
		return dto.QuizResultResponse{}, fmt.Errorf("failed to encode answers: %w", err)
	}
	checkedJSON, err := json.Marshal(checked)
	if err != nil {
		return dto.QuizResultResponse{}, fmt.Errorf("failed to encode checked answers: %w", err)
	}

	response := models.QuizResponse{
		ActivityID:     quizID,
		StudentID:      payload.StudentID,
		Answers:        answersJSON,
		Score:          score,
		Graded:         true,
		CheckedAnswers: checkedJSON,
		SubmittedAt:    s.now(),
	}

	if err := s.responses.Create(ctx, &response); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.QuizResultResponse{}, ErrAlreadySubmitted
		}
		return dto.QuizResultResponse{}, err
	}

	observability.QuizSubmissions().Inc()

	s.logger.Info().
		Uint("quiz_id", quizID).
		Uint("student_id", payload.StudentID).
		Int("score", score).
		Msg("quiz graded")

	s.publishEvent("quiz.graded", map[string]interface{}{
		"quiz_id":    quizID,
		"student_id": payload.StudentID,
		"score":      score,
	})

	response.Activity = activity
	return dto.NewQuizResultResponse(response), nil
}

func (s *quizService) GetResult(ctx context.Context, quizID, studentID uint) (dto.QuizResultResponse, error) {
	response, err := s.responses.GetByActivityAndStudent(ctx, quizID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResultResponse{}, ErrResponseNotFound
		}
		return dto.QuizResultResponse{}, err
	}

	return dto.NewQuizResultResponse(response), nil
}

func (s *quizService) publishEvent(subject string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	if err := s.events.Publish("eskwela.grading."+subject, data); err != nil {
		s.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish grading event")
	}
}
