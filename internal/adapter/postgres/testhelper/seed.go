package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nordvik/studioplan-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedWorkspace creates a workspace row and returns its ID.
func SeedWorkspace(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	_, err := pool.Exec(ctx,
		`INSERT INTO workspaces (id, name, created_at) VALUES ($1, $2, $3)`,
		id, "Test Workspace "+uniqueSuffix(), now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWorkspace insert: %v", err)
	}

	return id
}

// SeedItem creates a scheduled item in the given workspace. Zero-value fields
// get sensible defaults: title, category TASK, source KANBAN, date of today.
func SeedItem(t *testing.T, pool *pgxpool.Pool, workspaceID uuid.UUID, mutate func(*domain.ScheduledItem)) domain.ScheduledItem {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	it := domain.ScheduledItem{
		ID:            uuid.New(),
		WorkspaceID:   workspaceID,
		Title:         "Item " + uniqueSuffix(),
		ScheduledDate: domain.DateOf(now),
		Category:      domain.CategoryTask,
		Source:        domain.SourceKanban,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if mutate != nil {
		mutate(&it)
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO scheduled_items
		        (id, workspace_id, title, scheduled_date, start_time, end_time,
		         responsible_id, category, source, recurrence_rule, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		it.ID, it.WorkspaceID, it.Title, it.ScheduledDate, it.StartTime, it.EndTime,
		it.ResponsibleID, string(it.Category), string(it.Source), it.RecurrenceRule,
		it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedItem insert: %v", err)
	}

	return it
}
