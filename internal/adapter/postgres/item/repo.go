// Package item implements the scheduled-item repository using PostgreSQL.
// The window query is built dynamically with squirrel because its filters are
// optional; writes are plain parameterized SQL.
package item

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/nordvik/studioplan-backend/internal/adapter/postgres"
	"github.com/nordvik/studioplan-backend/internal/domain"
)

const columns = `id, workspace_id, title, scheduled_date, start_time, end_time,
       responsible_id, category, source, recurrence_rule, created_at, updated_at`

const insertSQL = `
INSERT INTO scheduled_items
       (id, workspace_id, title, scheduled_date, start_time, end_time,
        responsible_id, category, source, recurrence_rule, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + columns

const getByIDSQL = `
SELECT ` + columns + `
FROM scheduled_items
WHERE workspace_id = $1 AND id = $2`

const updateDateSQL = `
UPDATE scheduled_items
SET scheduled_date = $3, start_time = $4, end_time = $5, updated_at = $6
WHERE workspace_id = $1 AND id = $2`

const deleteSQL = `
DELETE FROM scheduled_items
WHERE workspace_id = $1 AND id = $2`

// Repo provides scheduled-item persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new scheduled-item repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// FetchWindow returns all items of the workspace whose scheduled date falls
// inside [from, to], optionally narrowed by the filter. Ordering is date,
// then start time (all-day items last), then id.
func (r *Repo) FetchWindow(ctx context.Context, workspaceID uuid.UUID, from, to time.Time, f domain.ItemFilter) ([]domain.ScheduledItem, error) {
	sql, args, err := windowSelect(workspaceID, from, to, f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build window query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch window: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, fmt.Errorf("fetch window: %w", err)
	}

	return items, nil
}

// GetByID returns an item by primary key filtered by workspace_id.
func (r *Repo) GetByID(ctx context.Context, workspaceID, itemID uuid.UUID) (domain.ScheduledItem, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, getByIDSQL, workspaceID, itemID)
	if err != nil {
		return domain.ScheduledItem{}, postgres.MapError(err, "item", itemID)
	}

	it, err := pgx.CollectExactlyOneRow(rows, scanItem)
	if err != nil {
		return domain.ScheduledItem{}, postgres.MapError(err, "item", itemID)
	}

	return it, nil
}

// Create inserts a new item and returns the persisted row.
func (r *Repo) Create(ctx context.Context, it domain.ScheduledItem) (domain.ScheduledItem, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	it.CreatedAt = now
	it.UpdatedAt = now
	it.ScheduledDate = domain.DateOf(it.ScheduledDate)

	rows, err := querier.Query(ctx, insertSQL,
		it.ID, it.WorkspaceID, it.Title, it.ScheduledDate, it.StartTime, it.EndTime,
		it.ResponsibleID, string(it.Category), string(it.Source), it.RecurrenceRule,
		it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return domain.ScheduledItem{}, postgres.MapError(err, "item", it.ID)
	}

	created, err := pgx.CollectExactlyOneRow(rows, scanItem)
	if err != nil {
		return domain.ScheduledItem{}, postgres.MapError(err, "item", it.ID)
	}

	return created, nil
}

// UpdateDate moves an item to a new scheduled date. The caller supplies the
// shifted start/end instants (nil for all-day items) so the wall-clock times
// stay attached to the new day. Returns domain.ErrNotFound if the item does
// not exist or belongs to another workspace.
func (r *Repo) UpdateDate(ctx context.Context, workspaceID, itemID uuid.UUID, newDate time.Time, newStart, newEnd *time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, updateDateSQL,
		workspaceID, itemID, domain.DateOf(newDate), newStart, newEnd,
		time.Now().UTC().Truncate(time.Microsecond),
	)
	if err != nil {
		return postgres.MapError(err, "item", itemID)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes an item by ID.
// Returns domain.ErrNotFound if the item does not exist or belongs to another workspace.
func (r *Repo) Delete(ctx context.Context, workspaceID, itemID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteSQL, workspaceID, itemID)
	if err != nil {
		return postgres.MapError(err, "item", itemID)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning
// ---------------------------------------------------------------------------

func scanItem(row pgx.CollectableRow) (domain.ScheduledItem, error) {
	var (
		it       domain.ScheduledItem
		category string
		source   string
	)

	if err := row.Scan(&it.ID, &it.WorkspaceID, &it.Title, &it.ScheduledDate,
		&it.StartTime, &it.EndTime, &it.ResponsibleID, &category, &source,
		&it.RecurrenceRule, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return domain.ScheduledItem{}, err
	}

	it.Category = domain.Category(category)
	it.Source = domain.Source(source)
	// DATE columns come back as midnight in the session zone; normalize.
	it.ScheduledDate = domain.DateOf(it.ScheduledDate)

	return it, nil
}

func scanItems(rows pgx.Rows) ([]domain.ScheduledItem, error) {
	items, err := pgx.CollectRows(rows, scanItem)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.ScheduledItem{}
	}
	return items, nil
}
