package service

import (
	"strings"
	"time"

	"github.com/eskwela-dev/eskwela-go-api/internal/models"
)

// CompletionStatus is the single status value derived for an
// (activity, student) pair. Every listing and filtering surface consumes this
// value instead of re-deriving it from raw records.
type CompletionStatus string

const (
	// StatusNotViewed means no view record exists for the student.
	StatusNotViewed CompletionStatus = "not_viewed"
	// StatusViewed means the student opened the activity but has not submitted.
	StatusViewed CompletionStatus = "viewed"
	// StatusSubmitted means an ungraded submission or response exists.
	StatusSubmitted CompletionStatus = "submitted"
	// StatusGraded means the outcome record carries a grade. Terminal.
	StatusGraded CompletionStatus = "graded"
	// StatusMissed means the due date passed with nothing submitted.
	StatusMissed CompletionStatus = "missed"
)

// Bucket partitions statuses for listing surfaces.
type Bucket string

const (
	// BucketUpcoming holds unsubmitted work that is not yet due.
	BucketUpcoming Bucket = "upcoming"
	// BucketPastDue holds unsubmitted work whose due date has passed.
	BucketPastDue Bucket = "past-due"
	// BucketToGrade holds submitted but ungraded work.
	BucketToGrade Bucket = "to-grade"
	// BucketCompleted holds graded work only.
	BucketCompleted Bucket = "completed"
)

// ResolveStatus derives the completion status from raw records at the given
// time. The state is recomputed, never stored, so a late submission after a
// missed deadline moves the pair forward to submitted rather than staying
// locked at missed.
func ResolveStatus(activity models.Activity, viewed bool, submission *models.Submission, response *models.QuizResponse, now time.Time) CompletionStatus {
	if submission != nil {
		if submissionGraded(*submission) {
			return StatusGraded
		}
		return StatusSubmitted
	}

	if response != nil {
		if response.Graded {
			return StatusGraded
		}
		return StatusSubmitted
	}

	if activity.IsPastDue(now) {
		return StatusMissed
	}

	if viewed {
		return StatusViewed
	}

	return StatusNotViewed
}

// submissionGraded treats a non-nil grade or non-blank feedback as grading
// evidence even when the status field lags behind.
func submissionGraded(submission models.Submission) bool {
	if submission.IsGraded() {
		return true
	}
	return submission.Grade != nil || strings.TrimSpace(submission.Feedback) != ""
}

// BucketFor places a resolved status into its listing partition. An activity
// without a due date stays upcoming until graded; it never ages into
// past-due on time alone.
func BucketFor(status CompletionStatus) Bucket {
	switch status {
	case StatusGraded:
		return BucketCompleted
	case StatusSubmitted:
		return BucketToGrade
	case StatusMissed:
		return BucketPastDue
	default:
		return BucketUpcoming
	}
}
