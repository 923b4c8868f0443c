// Package conflict derives scheduling conflicts from a set of scheduled items.
// It is pure computation: no I/O, no state. Malformed items are tolerated
// rather than rejected, so a rendering layer can always call it.
package conflict

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nordvik/studioplan-backend/internal/domain"
)

// DefaultOverloadThreshold is the per-day item count above which a responsible
// person is flagged as overloaded.
const DefaultOverloadThreshold = 3

// Detect computes the conflict list for the given items.
//
// Items without a responsible person never conflict. Items without a scheduled
// date are skipped. Timed items conflict when their half-open [start, end)
// intervals intersect on the same day; all-day items (including items with a
// half-specified time range) have no interval and can only contribute to
// overload counts.
//
// The result is ordered high severity first, then medium, ties broken by date
// ascending. overloadThreshold <= 0 falls back to DefaultOverloadThreshold.
func Detect(items []domain.ScheduledItem, overloadThreshold int) []domain.Conflict {
	if overloadThreshold <= 0 {
		overloadThreshold = DefaultOverloadThreshold
	}

	groups := groupByResponsible(items)

	var conflicts []domain.Conflict
	for _, g := range groups {
		sortGroup(g.items)
		conflicts = append(conflicts, overlaps(g.responsible, g.items)...)
		conflicts = append(conflicts, overloads(g.responsible, g.items, overloadThreshold)...)
	}

	sortConflicts(conflicts)
	return conflicts
}

type group struct {
	responsible uuid.UUID
	items       []domain.ScheduledItem
}

func groupByResponsible(items []domain.ScheduledItem) []group {
	byResp := make(map[uuid.UUID][]domain.ScheduledItem)
	for _, it := range items {
		if it.ResponsibleID == nil || *it.ResponsibleID == uuid.Nil {
			continue
		}
		if it.ScheduledDate.IsZero() {
			continue
		}
		byResp[*it.ResponsibleID] = append(byResp[*it.ResponsibleID], it)
	}

	groups := make([]group, 0, len(byResp))
	for resp, its := range byResp {
		groups = append(groups, group{responsible: resp, items: its})
	}
	// Deterministic group order so equal-rank conflicts come out stable.
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].responsible.String() < groups[j].responsible.String()
	})
	return groups
}

// sortGroup orders items by date, timed before all-day within a date, then by
// start time, then by ID for determinism.
func sortGroup(items []domain.ScheduledItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := &items[i], &items[j]

		da, db := domain.DateOf(a.ScheduledDate), domain.DateOf(b.ScheduledDate)
		if !da.Equal(db) {
			return da.Before(db)
		}

		at, bt := a.IsTimed(), b.IsTimed()
		if at != bt {
			return at // timed sorts first
		}
		if at && bt && !a.StartTime.Equal(*b.StartTime) {
			return a.StartTime.Before(*b.StartTime)
		}
		return a.ID.String() < b.ID.String()
	})
}

// overlaps emits a high-severity conflict for each consecutive pair of timed
// items on the same day whose intervals intersect. Intervals are half-open, so
// an item ending exactly when the next begins does not conflict.
func overlaps(responsible uuid.UUID, sorted []domain.ScheduledItem) []domain.Conflict {
	var out []domain.Conflict
	for i := 1; i < len(sorted); i++ {
		a, b := &sorted[i-1], &sorted[i]
		if !domain.SameDay(a.ScheduledDate, b.ScheduledDate) {
			continue
		}
		if !a.IsTimed() || !b.IsTimed() {
			continue
		}
		if intervalsIntersect(*a.StartTime, *a.EndTime, *b.StartTime, *b.EndTime) {
			out = append(out, domain.Conflict{
				Kind:          domain.ConflictOverlap,
				Severity:      domain.SeverityHigh,
				ResponsibleID: responsible,
				Date:          domain.DateOf(a.ScheduledDate),
				ItemIDs:       []uuid.UUID{a.ID, b.ID},
			})
		}
	}
	return out
}

// intervalsIntersect applies the half-open comparison a.start < b.end && b.start < a.end.
func intervalsIntersect(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// overloads emits a medium-severity conflict for each day carrying more than
// threshold items, independent of whether any pair overlaps in time.
func overloads(responsible uuid.UUID, sorted []domain.ScheduledItem, threshold int) []domain.Conflict {
	var out []domain.Conflict

	for i := 0; i < len(sorted); {
		day := domain.DateOf(sorted[i].ScheduledDate)
		j := i
		var ids []uuid.UUID
		for j < len(sorted) && domain.SameDay(sorted[j].ScheduledDate, day) {
			ids = append(ids, sorted[j].ID)
			j++
		}
		if len(ids) > threshold {
			out = append(out, domain.Conflict{
				Kind:          domain.ConflictOverload,
				Severity:      domain.SeverityMedium,
				ResponsibleID: responsible,
				Date:          day,
				ItemIDs:       ids,
				Count:         len(ids),
			})
		}
		i = j
	}
	return out
}

func sortConflicts(conflicts []domain.Conflict) {
	sort.SliceStable(conflicts, func(i, j int) bool {
		a, b := &conflicts[i], &conflicts[j]
		if a.Severity != b.Severity {
			return a.Severity == domain.SeverityHigh
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.ResponsibleID.String() < b.ResponsibleID.String()
	})
}
