package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/eskwela-dev/eskwela-go-api/internal/dto"
	"github.com/eskwela-dev/eskwela-go-api/internal/models"
	"github.com/eskwela-dev/eskwela-go-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type pairKey struct {
	activityID uint
	studentID  uint
}

// fakeActivityRepo is an in-memory ActivityRepository shared by the service
// tests in this package.
type fakeActivityRepo struct {
	activities map[uint]models.Activity
	views      map[pairKey]bool
	nextID     uint
	markCalls  int
}

func newFakeActivityRepo(activities ...models.Activity) *fakeActivityRepo {
	repo := &fakeActivityRepo{
		activities: make(map[uint]models.Activity),
		views:      make(map[pairKey]bool),
		nextID:     1,
	}
	for _, activity := range activities {
		if activity.ID >= repo.nextID {
			repo.nextID = activity.ID + 1
		}
		repo.activities[activity.ID] = activity
	}
	return repo
}

func (f *fakeActivityRepo) List(ctx context.Context, filter repository.ActivityFilter) ([]models.Activity, int64, error) {
	var result []models.Activity
	for _, activity := range f.activities {
		if filter.Kind != nil && activity.Kind != *filter.Kind {
			continue
		}
		result = append(result, activity)
	}
	return result, int64(len(result)), nil
}

func (f *fakeActivityRepo) GetByID(ctx context.Context, id uint) (models.Activity, error) {
	activity, ok := f.activities[id]
	if !ok {
		return models.Activity{}, gorm.ErrRecordNotFound
	}
	return activity, nil
}

func (f *fakeActivityRepo) Create(ctx context.Context, activity *models.Activity) error {
	activity.ID = f.nextID
	f.nextID++
	f.activities[activity.ID] = *activity
	return nil
}

func (f *fakeActivityRepo) Update(ctx context.Context, activity *models.Activity) error {
	if _, ok := f.activities[activity.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.activities[activity.ID] = *activity
	return nil
}

func (f *fakeActivityRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.activities[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.activities, id)
	return nil
}

func (f *fakeActivityRepo) UpsertClassAssignment(ctx context.Context, assignment *models.ClassAssignment) error {
	activity, ok := f.activities[assignment.ActivityID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i, existing := range activity.ClassAssignments {
		if existing.ClassID == assignment.ClassID {
			activity.ClassAssignments[i].StudentIDs = assignment.StudentIDs
			f.activities[activity.ID] = activity
			return nil
		}
	}
	activity.ClassAssignments = append(activity.ClassAssignments, *assignment)
	f.activities[activity.ID] = activity
	return nil
}

func (f *fakeActivityRepo) MarkViewed(ctx context.Context, activityID, studentID uint, viewedAt time.Time) error {
	f.markCalls++
	f.views[pairKey{activityID, studentID}] = true
	return nil
}

func (f *fakeActivityRepo) HasViewed(ctx context.Context, activityID, studentID uint) (bool, error) {
	return f.views[pairKey{activityID, studentID}], nil
}

func (f *fakeActivityRepo) ListViewedActivityIDs(ctx context.Context, studentID uint) ([]uint, error) {
	var ids []uint
	for key := range f.views {
		if key.studentID == studentID {
			ids = append(ids, key.activityID)
		}
	}
	return ids, nil
}

func (f *fakeActivityRepo) CountViews(ctx context.Context, activityID uint) (int64, error) {
	var count int64
	for key := range f.views {
		if key.activityID == activityID {
			count++
		}
	}
	return count, nil
}

// fakeSubmissionRepo is an in-memory SubmissionRepository.
type fakeSubmissionRepo struct {
	submissions map[uint]models.Submission
	nextID      uint
	updateCalls int
}

func newFakeSubmissionRepo(submissions ...models.Submission) *fakeSubmissionRepo {
	repo := &fakeSubmissionRepo{
		submissions: make(map[uint]models.Submission),
		nextID:      1,
	}
	for _, submission := range submissions {
		if submission.ID >= repo.nextID {
			repo.nextID = submission.ID + 1
		}
		repo.submissions[submission.ID] = submission
	}
	return repo
}

func (f *fakeSubmissionRepo) List(ctx context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	var result []models.Submission
	for _, submission := range f.submissions {
		if filter.ActivityID != nil && submission.ActivityID != *filter.ActivityID {
			continue
		}
		if filter.StudentID != nil && submission.StudentID != *filter.StudentID {
			continue
		}
		if filter.Status != nil && submission.Status != *filter.Status {
			continue
		}
		result = append(result, submission)
	}
	return result, nil
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	submission, ok := f.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (f *fakeSubmissionRepo) GetByActivityAndStudent(ctx context.Context, activityID, studentID uint) (models.Submission, error) {
	for _, submission := range f.submissions {
		if submission.ActivityID == activityID && submission.StudentID == studentID {
			return submission, nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	for _, existing := range f.submissions {
		if existing.ActivityID == submission.ActivityID && existing.StudentID == submission.StudentID {
			return gorm.ErrDuplicatedKey
		}
	}
	submission.ID = f.nextID
	f.nextID++
	f.submissions[submission.ID] = *submission
	return nil
}

func (f *fakeSubmissionRepo) Update(ctx context.Context, submission *models.Submission) error {
	if _, ok := f.submissions[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.updateCalls++
	f.submissions[submission.ID] = *submission
	return nil
}

func (f *fakeSubmissionRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.submissions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.submissions, id)
	return nil
}

// fakeQuizResponseRepo is an in-memory QuizResponseRepository.
type fakeQuizResponseRepo struct {
	responses map[uint]models.QuizResponse
	nextID    uint
}

func newFakeQuizResponseRepo(responses ...models.QuizResponse) *fakeQuizResponseRepo {
	repo := &fakeQuizResponseRepo{
		responses: make(map[uint]models.QuizResponse),
		nextID:    1,
	}
	for _, response := range responses {
		if response.ID >= repo.nextID {
			repo.nextID = response.ID + 1
		}
		repo.responses[response.ID] = response
	}
	return repo
}

func (f *fakeQuizResponseRepo) List(ctx context.Context, filter repository.QuizResponseFilter) ([]models.QuizResponse, error) {
	var result []models.QuizResponse
	for _, response := range f.responses {
		if filter.ActivityID != nil && response.ActivityID != *filter.ActivityID {
			continue
		}
		if filter.StudentID != nil && response.StudentID != *filter.StudentID {
			continue
		}
		result = append(result, response)
	}
	return result, nil
}

func (f *fakeQuizResponseRepo) GetByID(ctx context.Context, id uint) (models.QuizResponse, error) {
	response, ok := f.responses[id]
	if !ok {
		return models.QuizResponse{}, gorm.ErrRecordNotFound
	}
	return response, nil
}

func (f *fakeQuizResponseRepo) GetByActivityAndStudent(ctx context.Context, activityID, studentID uint) (models.QuizResponse, error) {
	for _, response := range f.responses {
		if response.ActivityID == activityID && response.StudentID == studentID {
			return response, nil
		}
	}
	return models.QuizResponse{}, gorm.ErrRecordNotFound
}

func (f *fakeQuizResponseRepo) Create(ctx context.Context, response *models.QuizResponse) error {
	for _, existing := range f.responses {
		if existing.ActivityID == response.ActivityID && existing.StudentID == response.StudentID {
			return gorm.ErrDuplicatedKey
		}
	}
	response.ID = f.nextID
	f.nextID++
	f.responses[response.ID] = *response
	return nil
}

func (f *fakeQuizResponseRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.responses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.responses, id)
	return nil
}

// fakeRosterRepo is an in-memory RosterRepository.
type fakeRosterRepo struct {
	enrollments []models.Enrollment
}

func (f *fakeRosterRepo) ListEnrollments(ctx context.Context, filter models.RosterFilter) ([]models.Enrollment, error) {
	var result []models.Enrollment
	for _, enrollment := range f.enrollments {
		if enrollment.Matches(filter) {
			result = append(result, enrollment)
		}
	}
	return result, nil
}

func (f *fakeRosterRepo) ListEnrollmentsForStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error) {
	var result []models.Enrollment
	for _, enrollment := range f.enrollments {
		if enrollment.StudentID == studentID {
			result = append(result, enrollment)
		}
	}
	return result, nil
}

func (f *fakeRosterRepo) ListStudents(ctx context.Context) ([]models.User, error) {
	var result []models.User
	for _, enrollment := range f.enrollments {
		result = append(result, enrollment.Student)
	}
	return result, nil
}

func (f *fakeRosterRepo) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	f.enrollments = append(f.enrollments, *enrollment)
	return nil
}

// fakeBatchRepo is an in-memory GradingBatchRepository.
type fakeBatchRepo struct {
	batches map[string]models.GradingBatch
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{batches: make(map[string]models.GradingBatch)}
}

func (f *fakeBatchRepo) Create(ctx context.Context, batch *models.GradingBatch) error {
	batch.CreatedAt = time.Now()
	f.batches[batch.ID] = *batch
	return nil
}

func (f *fakeBatchRepo) GetByID(ctx context.Context, id string) (models.GradingBatch, error) {
	batch, ok := f.batches[id]
	if !ok {
		return models.GradingBatch{}, gorm.ErrRecordNotFound
	}
	return batch, nil
}

func (f *fakeBatchRepo) ListByActivity(ctx context.Context, activityID uint) ([]models.GradingBatch, error) {
	var result []models.GradingBatch
	for _, batch := range f.batches {
		if batch.ActivityID == activityID {
			result = append(result, batch)
		}
	}
	return result, nil
}

func (f *fakeBatchRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.batches[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.batches, id)
	return nil
}

// fakeAuditRecorder captures recorded audit entries.
type fakeAuditRecorder struct {
	entries []AuditEntry
}

func (f *fakeAuditRecorder) Record(ctx context.Context, entry AuditEntry) (dto.AuditEntryResponse, error) {
	f.entries = append(f.entries, entry)
	return dto.AuditEntryResponse{}, nil
}
