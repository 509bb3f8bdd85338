package models

import "time"

// OutputStats summarizes submission progress for a single output.
type OutputStats struct {
	SubmittedCount int     `json:"submitted_count"`
	ApprovedCount  int     `json:"approved_count"`
	PendingCount   int     `json:"pending_count"`
	ExpectedTotal  int     `json:"expected_total"`
	CompletionRate float64 `json:"completion_rate"`
}

// TrainingStats aggregates output progress across a whole training.
type TrainingStats struct {
	TotalOutputs  int `json:"total_outputs"`
	Overdue       int `json:"overdue"`
	PendingReview int `json:"pending_review"`
	Completed     int `json:"completed"`
}

// ComputeOutputStats derives the submission counters for one output.
//
// For a collective output (empty target list) the denominator is the number
// of participants who have engaged, since there is no fixed roster. The
// completion rate is clamped to a zero denominator rather than dividing.
func ComputeOutputStats(output Output) OutputStats {
	stats := OutputStats{}

	for _, submission := range output.Submissions {
		if submission.Submitted {
			stats.SubmittedCount++
		}
		if submission.Approved {
			stats.ApprovedCount++
		}
	}

	stats.PendingCount = stats.SubmittedCount - stats.ApprovedCount

	if output.IsCollective() {
		stats.ExpectedTotal = len(output.Submissions)
	} else {
		stats.ExpectedTotal = len(output.TargetParticipants)
	}

	if stats.ExpectedTotal > 0 {
		stats.CompletionRate = float64(stats.ApprovedCount) / float64(stats.ExpectedTotal)
	}

	return stats
}

// IsCompleted reports whether every expected submission has been approved.
func (s OutputStats) IsCompleted() bool {
	return s.ExpectedTotal > 0 && s.ApprovedCount == s.ExpectedTotal
}

// ComputeTrainingStats rolls up per-output stats for a training dashboard.
func ComputeTrainingStats(outputs []Output, now time.Time) TrainingStats {
	stats := TrainingStats{TotalOutputs: len(outputs)}

	for _, output := range outputs {
		outputStats := ComputeOutputStats(output)
		stats.PendingReview += outputStats.PendingCount

		if output.IsPastDue(now) && outputStats.ApprovedCount < outputStats.ExpectedTotal {
			stats.Overdue++
		}
		if outputStats.IsCompleted() {
			stats.Completed++
		}
	}

	return stats
}
