package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/eskwela-dev/eskwela-go-api/internal/dto"
	"github.com/eskwela-dev/eskwela-go-api/internal/gradesheet"
	"github.com/eskwela-dev/eskwela-go-api/internal/models"
	"github.com/eskwela-dev/eskwela-go-api/internal/observability"
	"github.com/eskwela-dev/eskwela-go-api/internal/repository"
)

// ErrBatchNotFound indicates the grading batch does not exist.
var ErrBatchNotFound = errors.New("grading batch not found")

// ErrEmptyRoster indicates the roster context matched no enrolled students.
var ErrEmptyRoster = errors.New("no students enrolled in the given roster")

// GradeImportService reconciles uploaded grade sheets against the roster and
// the stored submissions, applying matched grades in revertible batches.
type GradeImportService interface {
	Import(ctx context.Context, payload dto.GradeImportRequest, actor Actor) (dto.GradeImportResult, error)
	DeleteBatch(ctx context.Context, batchID string, actor Actor) error
	ListBatches(ctx context.Context, activityID uint) ([]dto.GradingBatchResponse, error)
	GenerateTemplate(ctx context.Context, rosterCtx dto.RosterContext) (dto.TemplateResponse, error)
}

type gradeImportService struct {
	activities  repository.ActivityRepository
	submissions repository.SubmissionRepository
	roster      repository.RosterRepository
	batches     repository.GradingBatchRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	audit       AuditRecorder
	events      *nats.Conn
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewGradeImportService constructs the grade reconciliation service. The NATS
// connection is optional; without it import events are simply not published.
func NewGradeImportService(
	activityRepo repository.ActivityRepository,
	submissionRepo repository.SubmissionRepository,
	rosterRepo repository.RosterRepository,
	batchRepo repository.GradingBatchRepository,
	validate *validator.Validate,
	audit AuditRecorder,
	events *nats.Conn,
	logger zerolog.Logger,
) GradeImportService {
	return &gradeImportService{
		activities:  activityRepo,
		submissions: submissionRepo,
		roster:      rosterRepo,
		batches:     batchRepo,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		audit:       audit,
		events:      events,
		logger:      logger.With().Str("component", "grade_import_service").Logger(),
		tracer:      otel.Tracer("github.com/eskwela-dev/eskwela-go-api/internal/service/gradeimport"),
		now:         time.Now,
	}
}

func (s *gradeImportService) Import(ctx context.Context, payload dto.GradeImportRequest, actor Actor) (dto.GradeImportResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GradeImportResult{}, err
	}

	attrs := []attribute.KeyValue{
		attribute.Int("grades.activity_id", int(payload.ActivityID)),
		attribute.String("grades.section", payload.Context.Section),
		attribute.Int("grades.rows", len(payload.Grid)),
	}
	spanCtx, span := s.tracer.Start(ctx, "grades.import", trace.WithAttributes(attrs...))
	defer span.End()

	activity, err := s.activities.GetByID(spanCtx, payload.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradeImportResult{}, ErrActivityNotFound
		}
		return dto.GradeImportResult{}, err
	}
	if activity.IsQuiz() {
		return dto.GradeImportResult{}, ErrNotAnAssignment
	}

	enrollments, err := s.roster.ListEnrollments(spanCtx, payload.Context.Filter())
	if err != nil {
		return dto.GradeImportResult{}, err
	}
	if len(enrollments) == 0 {
		return dto.GradeImportResult{}, ErrEmptyRoster
	}

	candidates := make([]gradesheet.Candidate, 0, len(enrollments))
	for _, enrollment := range enrollments {
		candidates = append(candidates, gradesheet.Candidate{
			ID:    enrollment.StudentID,
			First: enrollment.Student.FirstName,
			Last:  enrollment.Student.LastName,
		})
	}

	rows, structuralErrs, rowErrs, rowWarnings := gradesheet.ExtractRows(payload.Grid)

	result := dto.GradeImportResult{}
	for _, issue := range rowErrs {
		result.Errors = append(result.Errors, issue.String())
	}
	for _, warning := range rowWarnings {
		if warning.Index < 0 {
			result.Warnings = append(result.Warnings, warning.Message)
			continue
		}
		result.Warnings = append(result.Warnings, warning.String())
	}
	if len(structuralErrs) > 0 {
		result.Errors = append(result.Errors, structuralErrs...)
		return result, nil
	}

	maxPoints := float64(activity.Points)
	if maxPoints <= 0 {
		maxPoints = 100
	}

	rosterNames := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		rosterNames = append(rosterNames, candidate.FullName())
	}
	roster := strings.Join(rosterNames, ", ")

	seen := make(map[uint]string, len(rows))
	var entries []models.GradingBatchEntry

	for _, row := range rows {
		candidate, err := gradesheet.Resolve(row.Name, candidates)
		if err != nil {
			var ambiguous *gradesheet.AmbiguousMatchError
			switch {
			case errors.As(err, &ambiguous):
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", row.Index+1, ambiguous.Error()))
			case errors.Is(err, gradesheet.ErrNoMatch):
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %q does not match any enrolled student (roster: %s)", row.Index+1, row.Name, roster))
			default:
				return dto.GradeImportResult{}, err
			}
			observability.GradeImportRows().WithLabelValues("rejected").Inc()
			continue
		}

		if prior, dup := seen[candidate.ID]; dup {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %q resolves to %s, already graded by row %s", row.Index+1, row.Name, candidate.FullName(), prior))
			observability.GradeImportRows().WithLabelValues("rejected").Inc()
			continue
		}

		if row.Grade > maxPoints+1e-9 {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: grade %.2f exceeds the activity's %d points", row.Index+1, row.Grade, activity.Points))
			observability.GradeImportRows().WithLabelValues("rejected").Inc()
			continue
		}

		submission, err := s.submissions.GetByActivityAndStudent(spanCtx, payload.ActivityID, candidate.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Imports only update existing submissions; a grade for a
				// student with no submitted work points at the wrong sheet.
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s has not submitted this activity", row.Index+1, candidate.FullName()))
				observability.GradeImportRows().WithLabelValues("rejected").Inc()
				continue
			}
			return dto.GradeImportResult{}, err
		}

		entry := models.GradingBatchEntry{
			SubmissionID: submission.ID,
			StudentID:    candidate.ID,
			StudentName:  candidate.FullName(),
			Grade:        row.Grade,
			Feedback:     strings.TrimSpace(s.sanitizer.Sanitize(row.Feedback)),
			PrevGrade:    submission.Grade,
			PrevFeedback: submission.Feedback,
			PrevStatus:   submission.Status,
		}

		grade := row.Grade
		gradedAt := s.now()
		submission.Grade = &grade
		submission.Feedback = entry.Feedback
		submission.Status = models.SubmissionStatusGraded
		submission.GradedBy = &actor.ID
		submission.GradedAt = &gradedAt

		if err := s.submissions.Update(spanCtx, &submission); err != nil {
			return dto.GradeImportResult{}, err
		}

		seen[candidate.ID] = fmt.Sprintf("%d", row.Index+1)
		entries = append(entries, entry)
		result.Grades = append(result.Grades, dto.AppliedGrade{
			StudentID:   candidate.ID,
			StudentName: candidate.FullName(),
			Grade:       row.Grade,
			Feedback:    entry.Feedback,
		})
		observability.GradeImportRows().WithLabelValues("accepted").Inc()
	}

	if len(entries) > 0 {
		batch := models.GradingBatch{
			ID:         uuid.NewString(),
			ActivityID: payload.ActivityID,
			Section:    payload.Context.Section,
			Track:      payload.Context.Track,
			Strand:     payload.Context.Strand,
			GradeLevel: payload.Context.GradeLevel,
			SchoolYear: payload.Context.SchoolYear,
			Term:       payload.Context.Term,
			CreatedBy:  actor.ID,
			Entries:    entries,
		}
		if err := s.batches.Create(spanCtx, &batch); err != nil {
			return dto.GradeImportResult{}, err
		}
		result.BatchID = batch.ID
		observability.GradeImportBatches().WithLabelValues("applied").Inc()

		if _, err := s.audit.Record(spanCtx, AuditEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "grades.imported",
			EntityType: "grading_batch",
			Metadata: map[string]interface{}{
				"batch_id":    batch.ID,
				"activity_id": payload.ActivityID,
				"applied":     len(entries),
				"rejected":    len(result.Errors),
			},
		}); err != nil {
			s.logger.Warn().Err(err).Msg("failed to record grade import audit entry")
		}

		s.publishEvent("grades.imported", map[string]interface{}{
			"batch_id":    batch.ID,
			"activity_id": payload.ActivityID,
			"applied":     len(entries),
		})
	}

	result.Success = len(result.Errors) == 0 && len(result.Grades) > 0

	s.logger.Info().
		Uint("activity_id", payload.ActivityID).
		Str("batch_id", result.BatchID).
		Int("applied", len(result.Grades)).
		Int("rejected", len(result.Errors)).
		Int("warnings", len(result.Warnings)).
		Msg("grade import processed")

	return result, nil
}

func (s *gradeImportService) DeleteBatch(ctx context.Context, batchID string, actor Actor) error {
	spanCtx, span := s.tracer.Start(ctx, "grades.revert", trace.WithAttributes(
		attribute.String("grades.batch_id", batchID),
	))
	defer span.End()

	batch, err := s.batches.GetByID(spanCtx, batchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBatchNotFound
		}
		return err
	}

	for _, entry := range batch.Entries {
		submission, err := s.submissions.GetByID(spanCtx, entry.SubmissionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// The submission was undone after the import; nothing left
				// to restore for this entry.
				continue
			}
			return err
		}

		submission.Grade = entry.PrevGrade
		submission.Feedback = entry.PrevFeedback
		submission.Status = entry.PrevStatus
		if entry.PrevStatus != models.SubmissionStatusGraded {
			submission.GradedBy = nil
			submission.GradedAt = nil
		}

		if err := s.submissions.Update(spanCtx, &submission); err != nil {
			return err
		}
	}

	if err := s.batches.Delete(spanCtx, batchID); err != nil {
		return err
	}
	observability.GradeImportBatches().WithLabelValues("reverted").Inc()

	if _, err := s.audit.Record(spanCtx, AuditEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     "grades.import_reverted",
		EntityType: "grading_batch",
		Metadata: map[string]interface{}{
			"batch_id":    batchID,
			"activity_id": batch.ActivityID,
			"restored":    len(batch.Entries),
		},
	}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record grade revert audit entry")
	}

	s.publishEvent("grades.reverted", map[string]interface{}{
		"batch_id":    batchID,
		"activity_id": batch.ActivityID,
		"restored":    len(batch.Entries),
	})

	s.logger.Info().
		Str("batch_id", batchID).
		Uint("activity_id", batch.ActivityID).
		Int("restored", len(batch.Entries)).
		Msg("grade import reverted")

	return nil
}

func (s *gradeImportService) ListBatches(ctx context.Context, activityID uint) ([]dto.GradingBatchResponse, error) {
	batches, err := s.batches.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.GradingBatchResponse, 0, len(batches))
	for _, batch := range batches {
		responses = append(responses, dto.NewGradingBatchResponse(batch))
	}
	return responses, nil
}

func (s *gradeImportService) GenerateTemplate(ctx context.Context, rosterCtx dto.RosterContext) (dto.TemplateResponse, error) {
	if err := s.validator.Struct(rosterCtx); err != nil {
		return dto.TemplateResponse{}, err
	}

	enrollments, err := s.roster.ListEnrollments(ctx, rosterCtx.Filter())
	if err != nil {
		return dto.TemplateResponse{}, err
	}
	if len(enrollments) == 0 {
		return dto.TemplateResponse{}, ErrEmptyRoster
	}

	names := make([]string, 0, len(enrollments))
	for _, enrollment := range enrollments {
		names = append(names, enrollment.Student.FullName())
	}
	sort.Strings(names)

	return dto.TemplateResponse{Grid: gradesheet.Template(names)}, nil
}

func (s *gradeImportService) publishEvent(subject string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn().Err(err).Str("subject", subject).Msg("failed to encode grading event")
		return
	}

	if err := s.events.Publish("eskwela.grading."+subject, data); err != nil {
		s.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish grading event")
	}
}
