package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestDateOf(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+3", 3*3600)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "already midnight UTC",
			in:   time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "afternoon truncates to midnight",
			in:   time.Date(2024, 6, 10, 15, 42, 7, 123, time.UTC),
			want: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "non-UTC zone converts before truncating",
			in:   time.Date(2024, 6, 10, 1, 30, 0, 0, loc), // 2024-06-09 22:30 UTC
			want: time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := DateOf(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("DateOf(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestScheduledItem_IsTimed(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	nine := day.Add(9 * time.Hour)
	ten := day.Add(10 * time.Hour)

	tests := []struct {
		name string
		item ScheduledItem
		want bool
	}{
		{"both times set", ScheduledItem{StartTime: timePtr(nine), EndTime: timePtr(ten)}, true},
		{"no times", ScheduledItem{}, false},
		{"start only", ScheduledItem{StartTime: timePtr(nine)}, false},
		{"end only", ScheduledItem{EndTime: timePtr(ten)}, false},
		{"inverted range", ScheduledItem{StartTime: timePtr(ten), EndTime: timePtr(nine)}, false},
		{"zero-length range", ScheduledItem{StartTime: timePtr(nine), EndTime: timePtr(nine)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.item.IsTimed(); got != tt.want {
				t.Errorf("IsTimed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScheduledItem_IsRecurring(t *testing.T) {
	t.Parallel()

	rule := "FREQ=WEEKLY;BYDAY=MO"
	empty := ""

	if (&ScheduledItem{RecurrenceRule: &rule}).IsRecurring() != true {
		t.Error("item with rule should be recurring")
	}
	if (&ScheduledItem{RecurrenceRule: &empty}).IsRecurring() {
		t.Error("empty rule should not be recurring")
	}
	if (&ScheduledItem{}).IsRecurring() {
		t.Error("nil rule should not be recurring")
	}
}

func TestScheduledItem_IsOccurrence(t *testing.T) {
	t.Parallel()

	base := uuid.New()
	if !(&ScheduledItem{OccurrenceOf: &base}).IsOccurrence() {
		t.Error("item with OccurrenceOf should be an occurrence")
	}
	if (&ScheduledItem{}).IsOccurrence() {
		t.Error("stored item should not be an occurrence")
	}
}

func TestCategoryAndSourceValid(t *testing.T) {
	t.Parallel()

	for _, c := range []Category{CategoryPost, CategoryTask, CategoryMeeting, CategoryCampaign, CategoryDeadline} {
		if !c.Valid() {
			t.Errorf("category %q should be valid", c)
		}
	}
	if Category("BANANA").Valid() {
		t.Error("unknown category should be invalid")
	}

	for _, s := range []Source{SourceEditorial, SourceKanban, SourceCampaigns} {
		if !s.Valid() {
			t.Errorf("source %q should be valid", s)
		}
	}
	if Source("").Valid() {
		t.Error("empty source should be invalid")
	}
}
