package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/eskwela-dev/eskwela-go-api/internal/models"
)

func assignedActivity(id uint, kind models.ActivityKind, due *time.Time) models.Activity {
	return models.Activity{
		ID:      id,
		Kind:    kind,
		Title:   "Activity",
		Points:  50,
		DueDate: due,
		PostAt:  time.Now().Add(-time.Hour),
		ClassAssignments: []models.ClassAssignment{
			{ActivityID: id, ClassID: 2, StudentIDs: []uint{7}},
		},
	}
}

func newStatusService(activities *fakeActivityRepo, submissions *fakeSubmissionRepo, responses *fakeQuizResponseRepo, cache *redis.Client) StatusService {
	return NewStatusService(activities, submissions, responses, cache, time.Minute, testLogger())
}

func TestStatusServiceGetStatusLifecycle(t *testing.T) {
	due := time.Now().Add(24 * time.Hour)
	activities := newFakeActivityRepo(assignedActivity(1, models.KindAssignment, &due))
	submissions := newFakeSubmissionRepo()
	responses := newFakeQuizResponseRepo()
	svc := newStatusService(activities, submissions, responses, nil)
	now := time.Now()

	status, err := svc.GetStatus(context.Background(), 1, 7, now)
	require.NoError(t, err)
	require.Equal(t, string(StatusNotViewed), status.Status)
	require.Equal(t, string(BucketUpcoming), status.Bucket)

	require.NoError(t, activities.MarkViewed(context.Background(), 1, 7, now))
	status, err = svc.GetStatus(context.Background(), 1, 7, now)
	require.NoError(t, err)
	require.Equal(t, string(StatusViewed), status.Status)

	require.NoError(t, submissions.Create(context.Background(), &models.Submission{
		ActivityID: 1,
		StudentID:  7,
		Status:     models.SubmissionStatusTurnedIn,
	}))
	status, err = svc.GetStatus(context.Background(), 1, 7, now)
	require.NoError(t, err)
	require.Equal(t, string(StatusSubmitted), status.Status)
	require.Equal(t, string(BucketToGrade), status.Bucket)

	grade := 45.0
	graded, err := submissions.GetByActivityAndStudent(context.Background(), 1, 7)
	require.NoError(t, err)
	graded.Grade = &grade
	graded.Status = models.SubmissionStatusGraded
	require.NoError(t, submissions.Update(context.Background(), &graded))

	status, err = svc.GetStatus(context.Background(), 1, 7, now)
	require.NoError(t, err)
	require.Equal(t, string(StatusGraded), status.Status)
	require.Equal(t, string(BucketCompleted), status.Bucket)
	require.NotNil(t, status.Grade)
	require.Equal(t, 45.0, *status.Grade)
}

func TestStatusServiceGetStatusMissed(t *testing.T) {
	due := time.Now().Add(-time.Hour)
	activities := newFakeActivityRepo(assignedActivity(1, models.KindAssignment, &due))
	svc := newStatusService(activities, newFakeSubmissionRepo(), newFakeQuizResponseRepo(), nil)

	status, err := svc.GetStatus(context.Background(), 1, 7, time.Now())
	require.NoError(t, err)
	require.Equal(t, string(StatusMissed), status.Status)
	require.Equal(t, string(BucketPastDue), status.Bucket)
}

func TestStatusServiceGetStatusQuizScore(t *testing.T) {
	activities := newFakeActivityRepo(assignedActivity(3, models.KindQuiz, nil))
	responses := newFakeQuizResponseRepo(models.QuizResponse{
		ID:         1,
		ActivityID: 3,
		StudentID:  7,
		Score:      4,
		Graded:     true,
	})
	svc := newStatusService(activities, newFakeSubmissionRepo(), responses, nil)

	status, err := svc.GetStatus(context.Background(), 3, 7, time.Now())
	require.NoError(t, err)
	require.Equal(t, string(StatusGraded), status.Status)
	require.NotNil(t, status.Score)
	require.Equal(t, 4, *status.Score)
}

func TestStatusServiceGetStatusUnknownActivity(t *testing.T) {
	svc := newStatusService(newFakeActivityRepo(), newFakeSubmissionRepo(), newFakeQuizResponseRepo(), nil)

	_, err := svc.GetStatus(context.Background(), 404, 7, time.Now())
	require.ErrorIs(t, err, ErrActivityNotFound)
}

func TestStatusServiceProgressSummarizesBuckets(t *testing.T) {
	pastDue := time.Now().Add(-time.Hour)
	upcoming := time.Now().Add(24 * time.Hour)

	completed := assignedActivity(1, models.KindAssignment, &upcoming)
	toGrade := assignedActivity(2, models.KindAssignment, &upcoming)
	missed := assignedActivity(3, models.KindAssignment, &pastDue)
	open := assignedActivity(4, models.KindAssignment, nil)

	// Not yet posted and not assigned to the class; both are invisible.
	unposted := assignedActivity(5, models.KindAssignment, nil)
	unposted.PostAt = time.Now().Add(time.Hour)
	otherClass := models.Activity{
		ID:     6,
		Kind:   models.KindAssignment,
		PostAt: time.Now().Add(-time.Hour),
		ClassAssignments: []models.ClassAssignment{
			{ActivityID: 6, ClassID: 9, StudentIDs: []uint{7}},
		},
	}

	activities := newFakeActivityRepo(completed, toGrade, missed, open, unposted, otherClass)

	grade := 45.0
	submissions := newFakeSubmissionRepo(
		models.Submission{ID: 1, ActivityID: 1, StudentID: 7, Status: models.SubmissionStatusGraded, Grade: &grade, Feedback: "solid"},
		models.Submission{ID: 2, ActivityID: 2, StudentID: 7, Status: models.SubmissionStatusTurnedIn},
	)
	svc := newStatusService(activities, submissions, newFakeQuizResponseRepo(), nil)

	progress, err := svc.GetProgress(context.Background(), 7, 2)
	require.NoError(t, err)
	require.Equal(t, uint(7), progress.StudentID)
	require.Len(t, progress.Items, 4)
	require.Equal(t, 4, progress.Summary.Total)
	require.Equal(t, 1, progress.Summary.Completed)
	require.Equal(t, 1, progress.Summary.ToGrade)
	require.Equal(t, 1, progress.Summary.PastDue)
	require.Equal(t, 1, progress.Summary.Upcoming)

	byActivity := make(map[uint]string, len(progress.Items))
	for _, item := range progress.Items {
		byActivity[item.Activity.ID] = item.Status
	}
	require.Equal(t, string(StatusGraded), byActivity[1])
	require.Equal(t, string(StatusSubmitted), byActivity[2])
	require.Equal(t, string(StatusMissed), byActivity[3])
	require.Equal(t, string(StatusNotViewed), byActivity[4])
}

func TestStatusServiceClassSummary(t *testing.T) {
	due := time.Now().Add(-time.Hour)
	activity := assignedActivity(1, models.KindAssignment, &due)
	activity.ClassAssignments = []models.ClassAssignment{
		{ActivityID: 1, ClassID: 2, StudentIDs: []uint{7, 8, 9, 10}},
	}
	activities := newFakeActivityRepo(activity)

	grade := 40.0
	otherGrade := 48.0
	submissions := newFakeSubmissionRepo(
		models.Submission{ID: 1, ActivityID: 1, StudentID: 7, Status: models.SubmissionStatusGraded, Grade: &grade},
		models.Submission{ID: 2, ActivityID: 1, StudentID: 8, Status: models.SubmissionStatusGraded, Grade: &otherGrade},
		models.Submission{ID: 3, ActivityID: 1, StudentID: 9, Status: models.SubmissionStatusTurnedIn},
	)
	svc := newStatusService(activities, submissions, newFakeQuizResponseRepo(), nil)

	summary, err := svc.GetClassSummary(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, uint(2), summary.ClassID)
	require.Len(t, summary.Activities, 1)

	rollup := summary.Activities[0]
	require.Equal(t, 4, rollup.Assigned)
	require.Equal(t, 2, rollup.Completed)
	require.Equal(t, 1, rollup.ToGrade)
	require.Equal(t, 1, rollup.PastDue)
	require.Zero(t, rollup.Upcoming)
	require.NotNil(t, rollup.AverageGrade)
	require.Equal(t, 44.0, *rollup.AverageGrade)
}

func TestStatusServiceProgressUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	due := time.Now().Add(24 * time.Hour)
	activities := newFakeActivityRepo(assignedActivity(1, models.KindAssignment, &due))
	submissions := newFakeSubmissionRepo()
	svc := newStatusService(activities, submissions, newFakeQuizResponseRepo(), cache)

	first, err := svc.GetProgress(context.Background(), 7, 2)
	require.NoError(t, err)
	require.Equal(t, 1, first.Summary.Upcoming)
	require.True(t, mr.Exists("progress:student:7:class:2"))

	// A submission landing after the first read is invisible until the
	// cached entry expires.
	require.NoError(t, submissions.Create(context.Background(), &models.Submission{
		ActivityID: 1,
		StudentID:  7,
		Status:     models.SubmissionStatusTurnedIn,
	}))

	second, err := svc.GetProgress(context.Background(), 7, 2)
	require.NoError(t, err)
	require.Equal(t, 1, second.Summary.Upcoming)
	require.Equal(t, 0, second.Summary.ToGrade)

	mr.FastForward(2 * time.Minute)

	third, err := svc.GetProgress(context.Background(), 7, 2)
	require.NoError(t, err)
	require.Equal(t, 1, third.Summary.ToGrade)
}
