package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nordvik/studioplan-backend/internal/domain"
)

func TestExpandOccurrences_Weekly(t *testing.T) {
	t.Parallel()

	rule := "FREQ=WEEKLY;COUNT=4"
	base := makeItem(2, func(it *domain.ScheduledItem) {
		it.RecurrenceRule = &rule
		it.StartTime = at(2, 9, 0)
		it.EndTime = at(2, 10, 0)
	})

	occ := expandOccurrences(base, day(1), day(31), 100)
	if len(occ) != 3 {
		t.Fatalf("expected 3 occurrences beyond the base date, got %d", len(occ))
	}

	for i, o := range occ {
		wantDate := day(2).AddDate(0, 0, 7*(i+1))
		if !o.ScheduledDate.Equal(wantDate) {
			t.Errorf("occurrence %d: date %s, want %s", i, o.ScheduledDate, wantDate)
		}
		if o.OccurrenceOf == nil || *o.OccurrenceOf != base.ID {
			t.Errorf("occurrence %d: missing back reference", i)
		}
		if o.ID == base.ID || o.ID == uuid.Nil {
			t.Errorf("occurrence %d: bad id %s", i, o.ID)
		}
		if o.RecurrenceRule != nil {
			t.Errorf("occurrence %d: rule must not propagate", i)
		}
		if o.StartTime == nil || !o.StartTime.Equal(wantDate.Add(9*time.Hour)) {
			t.Errorf("occurrence %d: start not shifted: %v", i, o.StartTime)
		}
	}
}

func TestExpandOccurrences_StableIDs(t *testing.T) {
	t.Parallel()

	rule := "FREQ=DAILY;COUNT=3"
	base := makeItem(2, func(it *domain.ScheduledItem) { it.RecurrenceRule = &rule })

	first := expandOccurrences(base, day(1), day(10), 100)
	second := expandOccurrences(base, day(1), day(10), 100)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 occurrences per expansion, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("occurrence %d: id not stable across expansions", i)
		}
	}
}

func TestExpandOccurrences_WindowClipsRule(t *testing.T) {
	t.Parallel()

	rule := "FREQ=DAILY" // unbounded
	base := makeItem(2, func(it *domain.ScheduledItem) { it.RecurrenceRule = &rule })

	occ := expandOccurrences(base, day(1), day(5), 100)
	if len(occ) != 3 {
		t.Fatalf("expected occurrences on days 3-5 only, got %d", len(occ))
	}
	last := occ[len(occ)-1]
	if last.ScheduledDate.After(day(5)) {
		t.Errorf("occurrence past the window: %s", last.ScheduledDate)
	}
}

func TestExpandOccurrences_CapsExpansion(t *testing.T) {
	t.Parallel()

	rule := "FREQ=DAILY"
	base := makeItem(1, func(it *domain.ScheduledItem) { it.RecurrenceRule = &rule })

	occ := expandOccurrences(base, day(1), day(28), 5)
	if len(occ) != 5 {
		t.Fatalf("expected cap at 5, got %d", len(occ))
	}
}

func TestExpandOccurrences_BadRuleExpandsToNothing(t *testing.T) {
	t.Parallel()

	rule := "FREQ=SOMETIMES"
	base := makeItem(2, func(it *domain.ScheduledItem) { it.RecurrenceRule = &rule })

	if occ := expandOccurrences(base, day(1), day(28), 100); occ != nil {
		t.Fatalf("expected nil for unparseable rule, got %d occurrences", len(occ))
	}
}

func TestExpandOccurrences_NonRecurring(t *testing.T) {
	t.Parallel()

	base := makeItem(2, nil)
	if occ := expandOccurrences(base, day(1), day(28), 100); occ != nil {
		t.Fatalf("expected nil for non-recurring item, got %d occurrences", len(occ))
	}
}
