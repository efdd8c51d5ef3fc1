package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/eskwela-dev/eskwela-go-api/internal/dto"
	"github.com/eskwela-dev/eskwela-go-api/internal/models"
	"github.com/eskwela-dev/eskwela-go-api/internal/repository"
)

// FileUploader stores submission attachments and returns their public URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrSubmissionLocked indicates the submission is graded and can no longer be
// undone or replaced.
var ErrSubmissionLocked = errors.New("submission already graded")

// ErrGradeExceedsPoints indicates a grade surpasses the activity's points.
var ErrGradeExceedsPoints = errors.New("grade exceeds activity points")

// ErrNotAnAssignment indicates the activity does not accept submissions.
var ErrNotAnAssignment = errors.New("activity is not an assignment")

// SubmissionService orchestrates assignment submission workflows.
type SubmissionService interface {
	List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
	Submit(ctx context.Context, payload dto.SubmissionCreateRequest, files []*multipart.FileHeader) (dto.SubmissionResponse, error)
	Undo(ctx context.Context, activityID, studentID uint) error
	Grade(ctx context.Context, submissionID uint, payload dto.SubmissionGradeRequest, actor Actor) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	activities  repository.ActivityRepository
	validator   *validator.Validate
	uploader    FileUploader
	sanitizer   *bluemonday.Policy
	audit       AuditRecorder
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(subRepo repository.SubmissionRepository, activityRepo repository.ActivityRepository, validate *validator.Validate, uploader FileUploader, audit AuditRecorder, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: subRepo,
		activities:  activityRepo,
		validator:   validate,
		uploader:    uploader,
		sanitizer:   bluemonday.StrictPolicy(),
		audit:       audit,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	repoFilter := repository.SubmissionFilter{
		ActivityID: filter.ActivityID,
		StudentID:  filter.StudentID,
		Status:     filter.Status,
	}

	submissions, err := s.submissions.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

// Submit creates the student's submission, or replaces its content on
// resubmit while it remains ungraded. A graded submission is locked.
func (s *submissionService) Submit(ctx context.Context, payload dto.SubmissionCreateRequest, files []*multipart.FileHeader) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	activity, err := s.activities.GetByID(ctx, payload.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrActivityNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if activity.Kind != models.KindAssignment {
		return dto.SubmissionResponse{}, ErrNotAnAssignment
	}

	if !activity.OpenToStudent(payload.StudentID, s.now()) {
		return dto.SubmissionResponse{}, ErrActivityNotOpen
	}

	fileURLs, err := s.uploadFiles(ctx, files)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	submittedAt := s.now()
	cleanContext := strings.TrimSpace(s.sanitizer.Sanitize(payload.Context))

	existing, err := s.submissions.GetByActivityAndStudent(ctx, payload.ActivityID, payload.StudentID)
	switch {
	case err == nil:
		if existing.IsGraded() {
			return dto.SubmissionResponse{}, ErrSubmissionLocked
		}
		existing.FileURLs = fileURLs
		existing.Links = payload.Links
		existing.Context = cleanContext
		existing.SubmittedAt = submittedAt
		if err := s.submissions.Update(ctx, &existing); err != nil {
			return dto.SubmissionResponse{}, err
		}
		s.logger.Info().Uint("submission_id", existing.ID).Msg("submission replaced")
		return dto.NewSubmissionResponse(existing), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to create
	default:
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		ActivityID:  payload.ActivityID,
		StudentID:   payload.StudentID,
		FileURLs:    fileURLs,
		Links:       payload.Links,
		Context:     cleanContext,
		Status:      models.SubmissionStatusTurnedIn,
		SubmittedAt: submittedAt,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", created.ID).Msg("submission created")

	return dto.NewSubmissionResponse(created), nil
}

// Undo removes an ungraded submission. Once graded the record is permanent;
// only deleting the grading batch that graded it can unlock it again.
func (s *submissionService) Undo(ctx context.Context, activityID, studentID uint) error {
	submission, err := s.submissions.GetByActivityAndStudent(ctx, activityID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return err
	}

	if submission.IsGraded() {
		return ErrSubmissionLocked
	}

	if err := s.submissions.Delete(ctx, submission.ID); err != nil {
		return err
	}

	s.logger.Info().Uint("submission_id", submission.ID).Msg("submission undone")

	return nil
}

func (s *submissionService) Grade(ctx context.Context, submissionID uint, payload dto.SubmissionGradeRequest, actor Actor) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	maxPoints := float64(submission.Activity.Points)
	if maxPoints <= 0 {
		maxPoints = 100
	}
	if payload.Grade > maxPoints+1e-9 {
		return dto.SubmissionResponse{}, ErrGradeExceedsPoints
	}

	cleanFeedback := strings.TrimSpace(s.sanitizer.Sanitize(payload.Feedback))

	// Re-applying the identical grade is a no-op rather than a new event.
	if submission.Grade != nil && math.Abs(*submission.Grade-payload.Grade) < 1e-6 &&
		strings.TrimSpace(submission.Feedback) == cleanFeedback {
		return dto.NewSubmissionResponse(submission), nil
	}

	grade := payload.Grade
	gradedAt := s.now()
	gradedBy := actor.ID
	submission.Grade = &grade
	submission.Feedback = cleanFeedback
	submission.Status = models.SubmissionStatusGraded
	submission.GradedAt = &gradedAt
	submission.GradedBy = &gradedBy

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if s.audit != nil {
		_, _ = s.audit.Record(ctx, AuditEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "submission.graded",
			EntityType: "submission",
			EntityID:   &submission.ID,
			Metadata: map[string]interface{}{
				"activity_id": submission.ActivityID,
				"student_id":  submission.StudentID,
				"grade":       payload.Grade,
			},
		})
	}

	s.logger.Info().Uint("submission_id", submission.ID).Float64("grade", payload.Grade).Msg("submission graded")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) uploadFiles(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if s.uploader == nil {
		return nil, fmt.Errorf("file uploads are not configured")
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		if err := validateFileType(file); err != nil {
			return nil, err
		}

		reader, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}

		url, err := s.uploader.Upload(ctx, file.Filename, reader)
		reader.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to upload file: %w", err)
		}

		urls = append(urls, url)
	}

	return urls, nil
}

func validateFileType(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return fmt.Errorf("failed to detect file type: %w", err)
	}

	allowed := []string{"application/pdf", "application/zip", "application/x-zip-compressed", "text/plain", "image/png", "image/jpeg"}
	for _, a := range allowed {
		if mime.Is(a) {
			return nil
		}
	}

	return fmt.Errorf("unsupported file type: %s", mime.String())
}
