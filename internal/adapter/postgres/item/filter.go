package item

import (
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/nordvik/studioplan-backend/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// windowSelect builds the SELECT for a visible-window load. The window bounds
// are mandatory; responsible/category/source filters apply only when set.
func windowSelect(workspaceID uuid.UUID, from, to time.Time, f domain.ItemFilter) squirrel.SelectBuilder {
	q := psql.Select(
		"id", "workspace_id", "title", "scheduled_date", "start_time", "end_time",
		"responsible_id", "category", "source", "recurrence_rule", "created_at", "updated_at",
	).
		From("scheduled_items").
		Where(squirrel.Eq{"workspace_id": workspaceID}).
		Where(squirrel.GtOrEq{"scheduled_date": domain.DateOf(from)}).
		Where(squirrel.LtOrEq{"scheduled_date": domain.DateOf(to)})

	if f.ResponsibleID != nil {
		q = q.Where(squirrel.Eq{"responsible_id": *f.ResponsibleID})
	}
	if f.Category != nil {
		q = q.Where(squirrel.Eq{"category": string(*f.Category)})
	}
	if f.Source != nil {
		q = q.Where(squirrel.Eq{"source": string(*f.Source)})
	}

	return q.OrderBy("scheduled_date ASC", "start_time ASC NULLS LAST", "id ASC")
}
