package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category tags an item for display grouping. It carries no scheduling
// semantics; conflict detection ignores it.
type Category string

const (
	CategoryPost     Category = "POST"
	CategoryTask     Category = "TASK"
	CategoryMeeting  Category = "MEETING"
	CategoryCampaign Category = "CAMPAIGN"
	CategoryDeadline Category = "DEADLINE"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryPost, CategoryTask, CategoryMeeting, CategoryCampaign, CategoryDeadline:
		return true
	}
	return false
}

// Source identifies which part of the back office an item originated from.
type Source string

const (
	SourceEditorial Source = "EDITORIAL"
	SourceKanban    Source = "KANBAN"
	SourceCampaigns Source = "CAMPAIGNS"
)

// Valid reports whether the source is one of the known values.
func (s Source) Valid() bool {
	switch s {
	case SourceEditorial, SourceKanban, SourceCampaigns:
		return true
	}
	return false
}

// ScheduledItem is a date-anchored unit of work or content (editorial post,
// task, campaign milestone) subject to rescheduling on the calendar.
//
// ScheduledDate is day-granular: always midnight UTC. Timed items additionally
// carry StartTime/EndTime, wall-clock instants on ScheduledDate with
// StartTime < EndTime. Items with no ResponsibleID never conflict.
type ScheduledItem struct {
	ID            uuid.UUID
	WorkspaceID   uuid.UUID
	Title         string
	ScheduledDate time.Time
	StartTime     *time.Time
	EndTime       *time.Time
	ResponsibleID *uuid.UUID
	Category      Category
	Source        Source

	// RecurrenceRule is an optional RFC 5545 RRULE string. Recurring items are
	// expanded into read-only occurrences when a window is loaded; only the
	// base item is stored.
	RecurrenceRule *string

	// OccurrenceOf is set on expanded recurrence occurrences and points at the
	// base item. Occurrences are never persisted and cannot be rescheduled.
	OccurrenceOf *uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTimed reports whether the item has a complete, well-formed time range.
// Items with only one of StartTime/EndTime set are treated as all-day.
func (it *ScheduledItem) IsTimed() bool {
	return it.StartTime != nil && it.EndTime != nil && it.StartTime.Before(*it.EndTime)
}

// IsRecurring reports whether the item carries a recurrence rule.
func (it *ScheduledItem) IsRecurring() bool {
	return it.RecurrenceRule != nil && *it.RecurrenceRule != ""
}

// IsOccurrence reports whether the item is an expanded recurrence occurrence
// rather than a stored row.
func (it *ScheduledItem) IsOccurrence() bool {
	return it.OccurrenceOf != nil
}

// DateOf truncates t to day granularity in UTC. All ScheduledDate values pass
// through here before comparison or storage.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// ItemFilter restricts a window load. Nil fields mean no restriction.
type ItemFilter struct {
	ResponsibleID *uuid.UUID
	Category      *Category
	Source        *Source
}
