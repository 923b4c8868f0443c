// Package schedule implements calendar windows with drag-and-drop
// rescheduling: per-workspace in-memory snapshots, optimistic date moves with
// rollback on persistence failure, conflict detection and ICS export.
package schedule

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nordvik/studioplan-backend/internal/config"
	"github.com/nordvik/studioplan-backend/internal/domain"
	"github.com/nordvik/studioplan-backend/pkg/ctxutil"
)

type itemRepo interface {
	FetchWindow(ctx context.Context, workspaceID uuid.UUID, from, to time.Time, filter domain.ItemFilter) ([]domain.ScheduledItem, error)
	UpdateDate(ctx context.Context, workspaceID, itemID uuid.UUID, newDate time.Time, newStart, newEnd *time.Time) error
}

type moveRepo interface {
	Create(ctx context.Context, move domain.ItemMove) error
	ListByItem(ctx context.Context, workspaceID, itemID uuid.UUID, limit int) ([]domain.ItemMove, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service routes schedule operations to the per-workspace store of the caller.
// Stores are created lazily on first use and live for the process lifetime.
type Service struct {
	log   *slog.Logger
	items itemRepo
	moves moveRepo
	tx    txManager
	cfg   config.ScheduleConfig

	mu     sync.Mutex
	stores map[uuid.UUID]*Store
	closed bool
}

func NewService(log *slog.Logger, items itemRepo, moves moveRepo, tx txManager, cfg config.ScheduleConfig) *Service {
	if cfg.OverloadThreshold <= 0 {
		cfg.OverloadThreshold = 3
	}
	if cfg.RescheduleTimeout <= 0 {
		cfg.RescheduleTimeout = 10 * time.Second
	}
	return &Service{
		log:    log,
		items:  items,
		moves:  moves,
		tx:     tx,
		cfg:    cfg,
		stores: make(map[uuid.UUID]*Store),
	}
}

// storeFor returns the caller's workspace store, creating it on first use.
func (s *Service) storeFor(ctx context.Context) (*Store, error) {
	workspaceID, ok := ctxutil.WorkspaceIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, errStoreClosed
	}
	st, ok := s.stores[workspaceID]
	if !ok {
		st = NewStore(s.log, workspaceID, s.items, s.moves, s.tx, s.cfg)
		s.stores[workspaceID] = st
	}
	return st, nil
}

// Close shuts down every workspace store, releasing their subscribers.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, st := range s.stores {
		st.Close()
	}
}
