package domain

import (
	"time"

	"github.com/google/uuid"
)

// ItemMove records one confirmed reschedule for auditing. Rows are written in
// the same transaction as the date update, so the log never disagrees with the
// item table.
type ItemMove struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	ItemID      uuid.UUID
	OldDate     time.Time
	NewDate     time.Time
	MovedBy     *uuid.UUID
	MovedAt     time.Time
}
