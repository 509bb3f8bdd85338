package models

import (
	"fmt"
	"time"
)

// SubmissionState is the derived lifecycle state of a participant/output pair.
type SubmissionState string

const (
	// StateNotStarted means no submission row exists for the pair.
	StateNotStarted SubmissionState = "not_started"
	// StateDraft means a row exists but the participant has not submitted yet.
	StateDraft SubmissionState = "draft"
	// StateSubmitted means work was handed in and awaits (re-)evaluation.
	StateSubmitted SubmissionState = "submitted"
	// StateApproved means a mentor accepted the submission. Approval is never
	// withdrawn; mentors may still append feedback and comments.
	StateApproved SubmissionState = "approved"
)

// State derives the lifecycle state from the stored flags.
func (s Submission) State() SubmissionState {
	switch {
	case !s.Submitted:
		return StateDraft
	case s.Approved:
		return StateApproved
	default:
		return StateSubmitted
	}
}

// InvalidStateError reports an action attempted from a state that does not
// permit it.
type InvalidStateError struct {
	From   SubmissionState
	Action string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s a submission in state %q", e.Action, e.From)
}

// CanSubmit checks the due-date and approval guards for a submit action.
//
// A first submission is blocked once the output is past due; resubmission of
// an existing non-approved submission stays open past the deadline so that
// requested corrections can still land. Approved work is frozen.
func CanSubmit(output Output, existing *Submission, now time.Time) error {
	if existing == nil {
		if output.IsPastDue(now) {
			return &InvalidStateError{From: StateNotStarted, Action: "submit an overdue"}
		}
		return nil
	}
	if existing.State() == StateApproved {
		return &InvalidStateError{From: StateApproved, Action: "resubmit"}
	}
	return nil
}

// CanEvaluate checks the guard for an evaluation action: only submitted work
// may be evaluated. Re-evaluating an approved submission is allowed so the
// mentor can revise feedback, but approval itself is never withdrawn.
func CanEvaluate(submission Submission) error {
	if !submission.Submitted {
		return &InvalidStateError{From: submission.State(), Action: "evaluate"}
	}
	return nil
}

// Urgency classifies an output deadline for display purposes.
type Urgency string

const (
	UrgencyOverdue Urgency = "overdue"
	UrgencyUrgent  Urgency = "urgent"
	UrgencyNormal  Urgency = "normal"
)

// urgentWindowDays is the span within which a looming deadline is flagged.
const urgentWindowDays = 3

// DueDateUrgency buckets a deadline relative to now and returns the absolute
// day distance alongside the bucket. Overdue deadlines report how many days
// late they are.
func DueDateUrgency(dueDate, now time.Time) (Urgency, int) {
	days := int(dueDate.Sub(now).Hours() / 24)
	switch {
	case dueDate.Before(now):
		return UrgencyOverdue, -days
	case days <= urgentWindowDays:
		return UrgencyUrgent, days
	default:
		return UrgencyNormal, days
	}
}
