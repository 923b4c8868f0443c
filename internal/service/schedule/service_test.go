package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nordvik/studioplan-backend/internal/domain"
	"github.com/nordvik/studioplan-backend/pkg/ctxutil"
)

func newTestService(repo *itemRepoMock, moves *moveRepoMock) *Service {
	return NewService(testLogger(), repo, moves, &txManagerMock{}, testCfg())
}

func wsCtx(workspaceID uuid.UUID) context.Context {
	return ctxutil.WithWorkspaceID(context.Background(), workspaceID)
}

func TestService_RequiresWorkspace(t *testing.T) {
	t.Parallel()

	svc := newTestService(&itemRepoMock{}, &moveRepoMock{})
	ctx := context.Background()

	if _, err := svc.Load(ctx, LoadInput{From: day(1), To: day(28)}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Load without workspace: %v", err)
	}
	if err := svc.Reschedule(ctx, RescheduleInput{ItemID: uuid.New(), NewDate: day(5)}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Reschedule without workspace: %v", err)
	}
	if _, err := svc.Conflicts(ctx); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Conflicts without workspace: %v", err)
	}
}

func TestService_Load_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(&itemRepoMock{}, &moveRepoMock{})
	ctx := wsCtx(uuid.New())

	tests := []struct {
		name  string
		input LoadInput
	}{
		{"missing from", LoadInput{To: day(28)}},
		{"missing to", LoadInput{From: day(1)}},
		{"inverted window", LoadInput{From: day(28), To: day(1)}},
		{"oversized window", LoadInput{From: day(1), To: day(1).AddDate(1, 0, 0)}},
		{"bad category", LoadInput{From: day(1), To: day(28), Filter: domain.ItemFilter{Category: categoryPtr("PARTY")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Load(ctx, tt.input); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestService_WorkspacesAreIsolated(t *testing.T) {
	t.Parallel()

	wsA, wsB := uuid.New(), uuid.New()
	itemA := makeItem(5, func(it *domain.ScheduledItem) { it.WorkspaceID = wsA })
	itemB := makeItem(6, func(it *domain.ScheduledItem) { it.WorkspaceID = wsB })

	repo := &itemRepoMock{
		FetchWindowFunc: func(ctx context.Context, workspaceID uuid.UUID, from, to time.Time, filter domain.ItemFilter) ([]domain.ScheduledItem, error) {
			if workspaceID == wsA {
				return []domain.ScheduledItem{itemA}, nil
			}
			return []domain.ScheduledItem{itemB}, nil
		},
	}
	svc := newTestService(repo, &moveRepoMock{})

	gotA, err := svc.Load(wsCtx(wsA), LoadInput{From: day(1), To: day(28)})
	if err != nil {
		t.Fatalf("Load A: %v", err)
	}
	gotB, err := svc.Load(wsCtx(wsB), LoadInput{From: day(1), To: day(28)})
	if err != nil {
		t.Fatalf("Load B: %v", err)
	}

	if len(gotA) != 1 || gotA[0].ID != itemA.ID {
		t.Errorf("workspace A sees wrong items: %v", gotA)
	}
	if len(gotB) != 1 || gotB[0].ID != itemB.ID {
		t.Errorf("workspace B sees wrong items: %v", gotB)
	}

	// A's item is unknown in B's store.
	err = svc.Reschedule(wsCtx(wsB), RescheduleInput{ItemID: itemA.ID, NewDate: day(9)})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("cross-workspace reschedule: %v", err)
	}
}

func TestService_Reschedule_PassesUserFromContext(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	it := makeItem(5, nil)

	repo := &itemRepoMock{
		FetchWindowFunc: func(ctx context.Context, workspaceID uuid.UUID, from, to time.Time, filter domain.ItemFilter) ([]domain.ScheduledItem, error) {
			return []domain.ScheduledItem{it}, nil
		},
		UpdateDateFunc: func(ctx context.Context, workspaceID, itemID uuid.UUID, newDate time.Time, newStart, newEnd *time.Time) error {
			return nil
		},
	}
	moves := &moveRepoMock{CreateFunc: func(ctx context.Context, move domain.ItemMove) error { return nil }}
	svc := newTestService(repo, moves)

	ctx := ctxutil.WithUserID(wsCtx(uuid.New()), userID)
	if _, err := svc.Load(ctx, LoadInput{From: day(1), To: day(28)}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := svc.Reschedule(ctx, RescheduleInput{ItemID: it.ID, NewDate: day(9)}); err != nil {
		t.Fatalf("Reschedule: %v", err)
	}

	audits := moves.CreateCalls()
	if len(audits) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(audits))
	}
	if audits[0].Move.MovedBy == nil || *audits[0].Move.MovedBy != userID {
		t.Errorf("audit mover: %v", audits[0].Move.MovedBy)
	}
}

func TestService_ItemHistory_LimitDefaults(t *testing.T) {
	t.Parallel()

	itemID := uuid.New()
	moves := &moveRepoMock{
		ListByItemFunc: func(ctx context.Context, workspaceID, id uuid.UUID, limit int) ([]domain.ItemMove, error) {
			return []domain.ItemMove{}, nil
		},
	}
	svc := newTestService(&itemRepoMock{}, moves)
	ctx := wsCtx(uuid.New())

	if _, err := svc.ItemHistory(ctx, HistoryInput{ItemID: itemID}); err != nil {
		t.Fatalf("ItemHistory: %v", err)
	}
	if _, err := svc.ItemHistory(ctx, HistoryInput{ItemID: itemID, Limit: 500}); err != nil {
		t.Fatalf("ItemHistory with oversized limit: %v", err)
	}

	calls := moves.ListByItemCalls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 repo calls, got %d", len(calls))
	}
	if calls[0].Limit != defaultHistoryLimit {
		t.Errorf("default limit: got %d, want %d", calls[0].Limit, defaultHistoryLimit)
	}
	if calls[1].Limit != maxHistoryLimit {
		t.Errorf("clamped limit: got %d, want %d", calls[1].Limit, maxHistoryLimit)
	}

	if _, err := svc.ItemHistory(ctx, HistoryInput{}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing item id: %v", err)
	}
}

func TestService_Conflicts_EmptyBeforeLoad(t *testing.T) {
	t.Parallel()

	svc := newTestService(&itemRepoMock{}, &moveRepoMock{})
	conflicts, err := svc.Conflicts(wsCtx(uuid.New()))
	if err != nil {
		t.Fatalf("Conflicts: %v", err)
	}
	if len(conflicts) != 0 {
		t.Errorf("expected no conflicts before load, got %d", len(conflicts))
	}
}

func categoryPtr(s string) *domain.Category {
	c := domain.Category(s)
	return &c
}
