package models

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestComputeOutputStatsTargeted(t *testing.T) {
	output := Output{
		TargetParticipants: pq.StringArray{"1", "2", "3", "4"},
		Submissions: []Submission{
			{Submitted: true, Approved: true},
			{Submitted: true},
			{Submitted: true},
		},
	}

	stats := ComputeOutputStats(output)
	require.Equal(t, 3, stats.SubmittedCount)
	require.Equal(t, 1, stats.ApprovedCount)
	require.Equal(t, 2, stats.PendingCount)
	require.Equal(t, 4, stats.ExpectedTotal)
	require.InDelta(t, 0.25, stats.CompletionRate, 1e-9)
	require.False(t, stats.IsCompleted())
}

func TestComputeOutputStatsCollectiveUsesEngagedDenominator(t *testing.T) {
	output := Output{
		Submissions: []Submission{
			{Submitted: true, Approved: true},
			{Submitted: true, Approved: true},
		},
	}

	stats := ComputeOutputStats(output)
	require.Equal(t, 2, stats.ExpectedTotal)
	require.InDelta(t, 1.0, stats.CompletionRate, 1e-9)
	require.True(t, stats.IsCompleted())
}

func TestComputeOutputStatsZeroDenominator(t *testing.T) {
	stats := ComputeOutputStats(Output{})
	require.Equal(t, 0, stats.ExpectedTotal)
	require.Zero(t, stats.CompletionRate)
	require.False(t, stats.IsCompleted())
}

func TestComputeTrainingStats(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	completed := Output{
		DueDate:            now.Add(24 * time.Hour),
		TargetParticipants: pq.StringArray{"1"},
		Submissions:        []Submission{{Submitted: true, Approved: true}},
	}
	overdue := Output{
		DueDate:            now.Add(-24 * time.Hour),
		TargetParticipants: pq.StringArray{"1", "2"},
		Submissions:        []Submission{{Submitted: true}},
	}
	pending := Output{
		DueDate:            now.Add(48 * time.Hour),
		TargetParticipants: pq.StringArray{"1", "2"},
		Submissions:        []Submission{{Submitted: true}, {Submitted: true}},
	}

	stats := ComputeTrainingStats([]Output{completed, overdue, pending}, now)
	require.Equal(t, 3, stats.TotalOutputs)
	require.Equal(t, 1, stats.Overdue)
	require.Equal(t, 3, stats.PendingReview)
	require.Equal(t, 1, stats.Completed)
}

func TestOutputTargetsAndCollective(t *testing.T) {
	collective := Output{}
	require.True(t, collective.IsCollective())
	require.True(t, collective.Targets("42"))

	targeted := Output{TargetParticipants: pq.StringArray{"7", "9"}}
	require.False(t, targeted.IsCollective())
	require.True(t, targeted.Targets("9"))
	require.False(t, targeted.Targets("42"))
}
