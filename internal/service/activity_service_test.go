package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/eskwela-dev/eskwela-go-api/internal/dto"
	"github.com/eskwela-dev/eskwela-go-api/internal/models"
)

func newActivityService(repo *fakeActivityRepo) ActivityService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewActivityService(repo, validate, testLogger())
}

func TestActivityServiceCreateQuizDerivesPoints(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := newActivityService(repo)

	created, err := svc.Create(context.Background(), Actor{ID: 10, Role: "teacher"}, dto.ActivityCreateRequest{
		Kind:   "quiz",
		Title:  "Unit 1 Quiz",
		Points: 999, // ignored: quiz points come from the questions
		PostAt: time.Now().Format(time.RFC3339),
		Questions: []dto.QuestionPayload{
			{Type: "multiple", Text: "Pick one", Points: 2, CorrectAnswers: datatypes.JSON(`[0]`)},
			{Type: "truefalse", Text: "True?", Points: 3, CorrectAnswers: datatypes.JSON(`true`)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 5, created.Points)
}

func TestActivityServiceCreateQuizPointsOutOfRange(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := newActivityService(repo)

	_, err := svc.Create(context.Background(), Actor{ID: 10, Role: "teacher"}, dto.ActivityCreateRequest{
		Kind:   "quiz",
		Title:  "Overweight Quiz",
		PostAt: time.Now().Format(time.RFC3339),
		Questions: []dto.QuestionPayload{
			{Type: "identification", Text: "Name it", Points: 101, CorrectAnswers: datatypes.JSON(`"x"`)},
		},
	})
	require.ErrorIs(t, err, ErrInvalidQuizPoints)
}

func TestActivityServiceCreateQuizRequiresQuestions(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := newActivityService(repo)

	_, err := svc.Create(context.Background(), Actor{ID: 10, Role: "teacher"}, dto.ActivityCreateRequest{
		Kind:   "quiz",
		Title:  "Empty Quiz",
		PostAt: time.Now().Format(time.RFC3339),
	})
	require.Error(t, err)
}

func TestActivityServiceUpdateCreatorOnly(t *testing.T) {
	repo := newFakeActivityRepo(models.Activity{ID: 1, Kind: models.KindAssignment, Title: "Essay", CreatedBy: 10})
	svc := newActivityService(repo)

	title := "Revised Essay"
	_, err := svc.Update(context.Background(), Actor{ID: 11, Role: "teacher"}, 1, dto.ActivityUpdateRequest{Title: &title})
	require.ErrorIs(t, err, ErrNotActivityOwner)

	updated, err := svc.Update(context.Background(), Actor{ID: 10, Role: "teacher"}, 1, dto.ActivityUpdateRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Revised Essay", updated.Title)
}

func TestActivityServiceAssignClassDeduplicates(t *testing.T) {
	repo := newFakeActivityRepo(models.Activity{ID: 1, Kind: models.KindAssignment, Title: "Essay", CreatedBy: 10})
	svc := newActivityService(repo)

	updated, err := svc.AssignClass(context.Background(), Actor{ID: 10, Role: "teacher"}, 1, dto.ClassAssignmentRequest{
		ClassID:    4,
		StudentIDs: []uint{7, 8, 7, 9, 8},
	})
	require.NoError(t, err)
	require.Len(t, updated.ClassAssignments, 1)
	require.Equal(t, []uint{7, 8, 9}, updated.ClassAssignments[0].StudentIDs)
}

func TestActivityServiceMarkViewedIdempotent(t *testing.T) {
	repo := newFakeActivityRepo(models.Activity{ID: 1, Kind: models.KindAssignment, Title: "Essay", CreatedBy: 10})
	svc := newActivityService(repo)

	require.NoError(t, svc.MarkViewed(context.Background(), 1, 7))
	require.NoError(t, svc.MarkViewed(context.Background(), 1, 7))

	count, err := repo.CountViews(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestActivityServiceMarkViewedUnknownActivity(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := newActivityService(repo)

	err := svc.MarkViewed(context.Background(), 99, 7)
	require.ErrorIs(t, err, ErrActivityNotFound)
}
