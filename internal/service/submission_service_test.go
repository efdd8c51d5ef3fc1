package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/eskwela-dev/eskwela-go-api/internal/dto"
	"github.com/eskwela-dev/eskwela-go-api/internal/models"
)

func testAssignment() models.Activity {
	return models.Activity{
		ID:     1,
		Kind:   models.KindAssignment,
		Title:  "Research Paper",
		Points: 50,
		PostAt: time.Now().Add(-time.Hour),
		ClassAssignments: []models.ClassAssignment{
			{ClassID: 2, StudentIDs: []uint{7, 8}},
		},
	}
}

func newSubmissionService(activities *fakeActivityRepo, submissions *fakeSubmissionRepo, audit AuditRecorder) SubmissionService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewSubmissionService(submissions, activities, validate, nil, audit, testLogger())
}

func TestSubmissionServiceSubmitAndResubmit(t *testing.T) {
	activities := newFakeActivityRepo(testAssignment())
	submissions := newFakeSubmissionRepo()
	svc := newSubmissionService(activities, submissions, nil)

	first, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{
		ActivityID: 1,
		StudentID:  7,
		Links:      []string{"https://example.com/doc"},
		Context:    "first draft",
	}, nil)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusTurnedIn, first.Status)

	// Resubmitting while ungraded replaces content under the same record.
	second, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{
		ActivityID: 1,
		StudentID:  7,
		Context:    "final draft",
	}, nil)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "final draft", second.Context)
	require.Len(t, submissions.submissions, 1)
}

func TestSubmissionServiceSubmitToQuizRejected(t *testing.T) {
	quiz := models.Activity{ID: 3, Kind: models.KindQuiz, Points: 10}
	activities := newFakeActivityRepo(quiz)
	svc := newSubmissionService(activities, newFakeSubmissionRepo(), nil)

	_, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{ActivityID: 3, StudentID: 7}, nil)
	require.ErrorIs(t, err, ErrNotAnAssignment)
}

func TestSubmissionServiceSubmitBeforePostRejected(t *testing.T) {
	assignment := testAssignment()
	assignment.PostAt = time.Now().Add(time.Hour)
	activities := newFakeActivityRepo(assignment)
	submissions := newFakeSubmissionRepo()
	svc := newSubmissionService(activities, submissions, nil)

	_, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{ActivityID: 1, StudentID: 7}, nil)
	require.ErrorIs(t, err, ErrActivityNotOpen)
	require.Empty(t, submissions.submissions)
}

func TestSubmissionServiceSubmitUnassignedStudentRejected(t *testing.T) {
	activities := newFakeActivityRepo(testAssignment())
	submissions := newFakeSubmissionRepo()
	svc := newSubmissionService(activities, submissions, nil)

	_, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{ActivityID: 1, StudentID: 42}, nil)
	require.ErrorIs(t, err, ErrActivityNotOpen)
	require.Empty(t, submissions.submissions)
}

func TestSubmissionServiceGradedSubmissionLocked(t *testing.T) {
	grade := 40.0
	activities := newFakeActivityRepo(testAssignment())
	submissions := newFakeSubmissionRepo(models.Submission{
		ID:         1,
		ActivityID: 1,
		StudentID:  7,
		Status:     models.SubmissionStatusGraded,
		Grade:      &grade,
	})
	svc := newSubmissionService(activities, submissions, nil)

	_, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{ActivityID: 1, StudentID: 7}, nil)
	require.ErrorIs(t, err, ErrSubmissionLocked)

	err = svc.Undo(context.Background(), 1, 7)
	require.ErrorIs(t, err, ErrSubmissionLocked)
}

func TestSubmissionServiceUndoRemovesUngraded(t *testing.T) {
	activities := newFakeActivityRepo(testAssignment())
	submissions := newFakeSubmissionRepo(models.Submission{
		ID:         1,
		ActivityID: 1,
		StudentID:  7,
		Status:     models.SubmissionStatusTurnedIn,
	})
	svc := newSubmissionService(activities, submissions, nil)

	require.NoError(t, svc.Undo(context.Background(), 1, 7))
	require.Empty(t, submissions.submissions)

	err := svc.Undo(context.Background(), 1, 7)
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestSubmissionServiceGrade(t *testing.T) {
	activities := newFakeActivityRepo(testAssignment())
	submissions := newFakeSubmissionRepo(models.Submission{
		ID:         1,
		ActivityID: 1,
		StudentID:  7,
		Status:     models.SubmissionStatusTurnedIn,
		Activity:   testAssignment(),
	})
	audit := &fakeAuditRecorder{}
	svc := newSubmissionService(activities, submissions, audit)

	result, err := svc.Grade(context.Background(), 1, dto.SubmissionGradeRequest{Grade: 45, Feedback: "well argued"}, Actor{ID: 10, Role: "teacher"})
	require.NoError(t, err)
	require.Equal(t, 45.0, *result.Grade)
	require.Equal(t, models.SubmissionStatusGraded, result.Status)
	require.Equal(t, uint(10), *result.GradedBy)
	require.Len(t, audit.entries, 1)
	require.Equal(t, "submission.graded", audit.entries[0].Action)
}

func TestSubmissionServiceGradeExceedsPoints(t *testing.T) {
	activities := newFakeActivityRepo(testAssignment())
	submissions := newFakeSubmissionRepo(models.Submission{
		ID:         1,
		ActivityID: 1,
		StudentID:  7,
		Status:     models.SubmissionStatusTurnedIn,
		Activity:   testAssignment(),
	})
	svc := newSubmissionService(activities, submissions, nil)

	_, err := svc.Grade(context.Background(), 1, dto.SubmissionGradeRequest{Grade: 51}, Actor{ID: 10, Role: "teacher"})
	require.ErrorIs(t, err, ErrGradeExceedsPoints)
	require.Equal(t, 0, submissions.updateCalls)
}

func TestSubmissionServiceGradeIdempotent(t *testing.T) {
	grade := 45.0
	activities := newFakeActivityRepo(testAssignment())
	submissions := newFakeSubmissionRepo(models.Submission{
		ID:         1,
		ActivityID: 1,
		StudentID:  7,
		Status:     models.SubmissionStatusGraded,
		Grade:      &grade,
		Feedback:   "well argued",
		Activity:   testAssignment(),
	})
	svc := newSubmissionService(activities, submissions, nil)

	result, err := svc.Grade(context.Background(), 1, dto.SubmissionGradeRequest{Grade: 45, Feedback: "well argued"}, Actor{ID: 10, Role: "teacher"})
	require.NoError(t, err)
	require.Equal(t, grade, *result.Grade)
	require.Equal(t, 0, submissions.updateCalls)
}
