// Package movelog implements the reschedule audit log using PostgreSQL.
// Rows are appended inside the same transaction as the item date update.
package movelog

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

const insertSQL = `
INSERT INTO item_moves (id, workspace_id, item_id, old_date, new_date, moved_by, moved_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const listByItemSQL = `
SELECT id, workspace_id, item_id, old_date, new_date, moved_by, moved_at
FROM item_moves
WHERE workspace_id = $1 AND item_id = $2
ORDER BY moved_at DESC
LIMIT $3`

// Repo provides move-log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new move-log repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create appends a move record.
func (r *Repo) Create(ctx context.Context, m domain.ItemMove) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.MovedAt.IsZero() {
		m.MovedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	_, err := querier.Exec(ctx, insertSQL,
		m.ID, m.WorkspaceID, m.ItemID,
		domain.DateOf(m.OldDate), domain.DateOf(m.NewDate),
		m.MovedBy, m.MovedAt,
	)
	if err != nil {
		return postgres.MapError(err, "item_move", m.ID)
	}

	return nil
}

// ListByItem returns the most recent moves of an item, newest first.
func (r *Repo) ListByItem(ctx context.Context, workspaceID, itemID uuid.UUID, limit int) ([]domain.ItemMove, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByItemSQL, workspaceID, itemID, limit)
	if err != nil {
		return nil, fmt.Errorf("list item moves: %w", err)
	}
	defer rows.Close()

	moves, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ItemMove, error) {
		var m domain.ItemMove
		if err := row.Scan(&m.ID, &m.WorkspaceID, &m.ItemID, &m.OldDate, &m.NewDate, &m.MovedBy, &m.MovedAt); err != nil {
			return domain.ItemMove{}, err
		}
		m.OldDate = domain.DateOf(m.OldDate)
		m.NewDate = domain.DateOf(m.NewDate)
		return m, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list item moves: %w", err)
	}

	if moves == nil {
		moves = []domain.ItemMove{}
	}

	return moves, nil
}
