package schedule

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/nordvik/studioplan-backend/internal/domain"
)

// expandOccurrences materializes the virtual occurrences of a recurring item
// inside [from, to]. The stored row already covers its own date, so that one
// is skipped. Occurrences share the base item's data, carry a deterministic
// derived id and point back to the base via OccurrenceOf. A rule that fails
// to parse expands to nothing; the base item still shows on its own date.
func expandOccurrences(it domain.ScheduledItem, from, to time.Time, maxOccurrences int) []domain.ScheduledItem {
	if !it.IsRecurring() {
		return nil
	}

	r, err := rrule.StrToRRule(*it.RecurrenceRule)
	if err != nil {
		return nil
	}
	r.DTStart(it.ScheduledDate)

	times := r.Between(from, to, true)

	out := make([]domain.ScheduledItem, 0, len(times))
	for _, t := range times {
		if maxOccurrences > 0 && len(out) >= maxOccurrences {
			break
		}
		d := domain.DateOf(t)
		if d.Equal(it.ScheduledDate) {
			continue
		}
		occ := shiftToDate(it, d)
		occ.ID = occurrenceID(it.ID, d)
		base := it.ID
		occ.OccurrenceOf = &base
		occ.RecurrenceRule = nil
		out = append(out, occ)
	}
	return out
}

// occurrenceID derives a stable id for one occurrence of a recurring item, so
// repeated expansions of the same window refer to the same occurrence.
func occurrenceID(baseID uuid.UUID, date time.Time) uuid.UUID {
	return uuid.NewSHA1(baseID, []byte(date.Format("2006-01-02")))
}

// sortItems orders the display set by date, timed before all-day, start time,
// then id for a stable tiebreak.
func sortItems(items []domain.ScheduledItem) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.ScheduledDate.Equal(b.ScheduledDate) {
			return a.ScheduledDate.Before(b.ScheduledDate)
		}
		at, bt := a.StartTime != nil, b.StartTime != nil
		if at != bt {
			return at
		}
		if at && !a.StartTime.Equal(*b.StartTime) {
			return a.StartTime.Before(*b.StartTime)
		}
		return a.ID.String() < b.ID.String()
	})
}
