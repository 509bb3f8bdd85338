package models

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// OutputStatusFilter narrows an output listing by progress.
type OutputStatusFilter string

const (
	OutputFilterAll       OutputStatusFilter = "all"
	OutputFilterOverdue   OutputStatusFilter = "overdue"
	OutputFilterPending   OutputStatusFilter = "pending"
	OutputFilterCompleted OutputStatusFilter = "completed"
)

// OutputSortKey selects the field an output listing is ordered by.
type OutputSortKey string

const (
	SortByTitle     OutputSortKey = "title"
	SortByCreatedAt OutputSortKey = "created_at"
	SortByDueDate   OutputSortKey = "due_date"
)

// SortDirection orders a listing ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// OutputQuery captures the search/filter/sort parameters of an output listing.
type OutputQuery struct {
	Search    string
	Status    OutputStatusFilter
	SortKey   OutputSortKey
	Direction SortDirection
}

// FilterOutputs returns the outputs matching the query, sorted. The input
// slice is not modified. Title ordering is locale aware with id as the
// deterministic tie-break; zero timestamps sort as the Unix epoch so
// malformed records sink to one end instead of breaking the ordering.
func FilterOutputs(outputs []Output, query OutputQuery, now time.Time) []Output {
	search := strings.ToLower(strings.TrimSpace(query.Search))

	filtered := make([]Output, 0, len(outputs))
	for _, output := range outputs {
		if search != "" &&
			!strings.Contains(strings.ToLower(output.Title), search) &&
			!strings.Contains(strings.ToLower(output.Description), search) {
			continue
		}
		if !matchesStatus(output, query.Status, now) {
			continue
		}
		filtered = append(filtered, output)
	}

	sortOutputs(filtered, query.SortKey, query.Direction)

	return filtered
}

func matchesStatus(output Output, status OutputStatusFilter, now time.Time) bool {
	switch status {
	case "", OutputFilterAll:
		return true
	case OutputFilterOverdue:
		stats := ComputeOutputStats(output)
		return output.IsPastDue(now) && stats.ApprovedCount < stats.ExpectedTotal
	case OutputFilterPending:
		return ComputeOutputStats(output).PendingCount > 0
	case OutputFilterCompleted:
		return ComputeOutputStats(output).IsCompleted()
	default:
		return true
	}
}

func sortOutputs(outputs []Output, key OutputSortKey, direction SortDirection) {
	var less func(a, b Output) bool

	switch key {
	case SortByTitle:
		collator := collate.New(language.Und, collate.Loose)
		less = func(a, b Output) bool {
			if cmp := collator.CompareString(a.Title, b.Title); cmp != 0 {
				return cmp < 0
			}
			return a.ID < b.ID
		}
	case SortByCreatedAt:
		less = func(a, b Output) bool {
			return normalizeDate(a.CreatedAt).Before(normalizeDate(b.CreatedAt))
		}
	default:
		less = func(a, b Output) bool {
			return normalizeDate(a.DueDate).Before(normalizeDate(b.DueDate))
		}
	}

	sort.SliceStable(outputs, func(i, j int) bool {
		if direction == SortDesc {
			return less(outputs[j], outputs[i])
		}
		return less(outputs[i], outputs[j])
	})
}

func normalizeDate(t time.Time) time.Time {
	if t.IsZero() {
		return time.Unix(0, 0)
	}
	return t
}
