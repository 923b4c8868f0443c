package domain

import (
	"time"

	"github.com/google/uuid"
)

// ConflictKind distinguishes the two findings the detector can emit.
type ConflictKind string

const (
	// ConflictOverlap: two timed items for the same responsible person on the
	// same day whose half-open [start, end) intervals intersect.
	ConflictOverlap ConflictKind = "OVERLAP"

	// ConflictOverload: more items on one day for one responsible person than
	// the configured threshold, regardless of time overlap.
	ConflictOverload ConflictKind = "OVERLOAD"
)

// Severity ranks conflicts for display ordering.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
)

// Conflict is a derived finding, never stored. Overlap conflicts reference
// exactly two items; overload conflicts reference all items on the overloaded
// day and carry their count.
type Conflict struct {
	Kind          ConflictKind
	Severity      Severity
	ResponsibleID uuid.UUID
	Date          time.Time
	ItemIDs       []uuid.UUID
	Count         int
}
