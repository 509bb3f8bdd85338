package models

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func viewFixtures(now time.Time) []Output {
	return []Output{
		{
			ID:                 1,
			Title:              "Business plan",
			Description:        "write the plan",
			DueDate:            now.Add(-24 * time.Hour),
			CreatedAt:          now.Add(-96 * time.Hour),
			TargetParticipants: pq.StringArray{"1", "2"},
			Submissions:        []Submission{{Submitted: true}},
		},
		{
			ID:                 2,
			Title:              "Pitch deck",
			Description:        "prepare slides",
			DueDate:            now.Add(48 * time.Hour),
			CreatedAt:          now.Add(-48 * time.Hour),
			TargetParticipants: pq.StringArray{"1"},
			Submissions:        []Submission{{Submitted: true, Approved: true}},
		},
		{
			ID:          3,
			Title:       "Ébauche budget",
			Description: "draft the budget",
			DueDate:     now.Add(96 * time.Hour),
			CreatedAt:   now.Add(-24 * time.Hour),
		},
	}
}

func TestFilterOutputsSearchMatchesTitleAndDescription(t *testing.T) {
	now := time.Now()
	outputs := viewFixtures(now)

	byTitle := FilterOutputs(outputs, OutputQuery{Search: "pitch"}, now)
	require.Len(t, byTitle, 1)
	require.Equal(t, uint(2), byTitle[0].ID)

	byDescription := FilterOutputs(outputs, OutputQuery{Search: "budget"}, now)
	require.Len(t, byDescription, 1)
	require.Equal(t, uint(3), byDescription[0].ID)
}

func TestFilterOutputsStatusBuckets(t *testing.T) {
	now := time.Now()
	outputs := viewFixtures(now)

	overdue := FilterOutputs(outputs, OutputQuery{Status: OutputFilterOverdue}, now)
	require.Len(t, overdue, 1)
	require.Equal(t, uint(1), overdue[0].ID)

	pending := FilterOutputs(outputs, OutputQuery{Status: OutputFilterPending}, now)
	require.Len(t, pending, 1)
	require.Equal(t, uint(1), pending[0].ID)

	completed := FilterOutputs(outputs, OutputQuery{Status: OutputFilterCompleted}, now)
	require.Len(t, completed, 1)
	require.Equal(t, uint(2), completed[0].ID)

	all := FilterOutputs(outputs, OutputQuery{Status: OutputFilterAll}, now)
	require.Len(t, all, 3)
}

func TestFilterOutputsSortByDueDateDefault(t *testing.T) {
	now := time.Now()
	outputs := viewFixtures(now)

	sorted := FilterOutputs(outputs, OutputQuery{}, now)
	require.Equal(t, []uint{1, 2, 3}, outputIDs(sorted))

	descending := FilterOutputs(outputs, OutputQuery{Direction: SortDesc}, now)
	require.Equal(t, []uint{3, 2, 1}, outputIDs(descending))
}

func TestFilterOutputsSortByTitleIsLocaleAware(t *testing.T) {
	now := time.Now()
	outputs := viewFixtures(now)

	sorted := FilterOutputs(outputs, OutputQuery{SortKey: SortByTitle}, now)
	// The accented É collates next to E, before P.
	require.Equal(t, []uint{1, 3, 2}, outputIDs(sorted))
}

func TestFilterOutputsTitleTieBreaksOnID(t *testing.T) {
	now := time.Now()
	outputs := []Output{
		{ID: 9, Title: "Same"},
		{ID: 3, Title: "Same"},
	}

	sorted := FilterOutputs(outputs, OutputQuery{SortKey: SortByTitle}, now)
	require.Equal(t, []uint{3, 9}, outputIDs(sorted))
}

func TestFilterOutputsZeroDueDateSortsFirst(t *testing.T) {
	now := time.Now()
	outputs := []Output{
		{ID: 1, DueDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{ID: 2, DueDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{ID: 3},
	}

	sorted := FilterOutputs(outputs, OutputQuery{SortKey: SortByDueDate}, now)
	require.Equal(t, []uint{3, 2, 1}, outputIDs(sorted))
}

func TestFilterOutputsZeroCreatedAtSortsFirst(t *testing.T) {
	now := time.Now()
	outputs := []Output{
		{ID: 1, CreatedAt: now},
		{ID: 2},
	}

	sorted := FilterOutputs(outputs, OutputQuery{SortKey: SortByCreatedAt}, now)
	require.Equal(t, []uint{2, 1}, outputIDs(sorted))
}

func TestFilterOutputsDoesNotMutateInput(t *testing.T) {
	now := time.Now()
	outputs := viewFixtures(now)
	original := outputIDs(outputs)

	_ = FilterOutputs(outputs, OutputQuery{SortKey: SortByTitle, Direction: SortDesc}, now)
	require.Equal(t, original, outputIDs(outputs))
}

func outputIDs(outputs []Output) []uint {
	ids := make([]uint, 0, len(outputs))
	for _, output := range outputs {
		ids = append(ids, output.ID)
	}
	return ids
}
