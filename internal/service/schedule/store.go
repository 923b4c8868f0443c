package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nordvik/studioplan-backend/internal/config"
	"github.com/nordvik/studioplan-backend/internal/domain"
	"github.com/nordvik/studioplan-backend/internal/service/schedule/conflict"
)

// Store is the materialized calendar window of one workspace. It caches the
// items of the currently visible date range, applies reschedules optimistically
// with rollback on a failed durable write, and recomputes conflicts on every
// change.
//
// The durable copy always wins: Load replaces the snapshot wholesale, and a
// failed write restores the last durably confirmed date. Mutation happens only
// through Load and Reschedule; readers get copies.
type Store struct {
	workspaceID uuid.UUID
	items       itemRepo
	moves       moveRepo
	tx          txManager
	cfg         config.ScheduleConfig
	log         *slog.Logger

	mu       sync.Mutex
	loaded   bool
	from, to time.Time
	filter   domain.ItemFilter
	// byID holds the concrete (stored) items of the window.
	byID map[uuid.UUID]domain.ScheduledItem
	// view is the display set: concrete items plus expanded recurrence
	// occurrences, rebuilt on every change.
	view []domain.ScheduledItem
	// inflight maps an item with a pending durable write to its pre-move copy,
	// kept for rollback. One entry per item enforces single-flight.
	inflight map[uuid.UUID]domain.ScheduledItem
	// epoch is bumped by Load so that completions of writes started against an
	// older snapshot do not touch the new one.
	epoch   uint64
	subs    map[uint64]chan []domain.Conflict
	nextSub uint64
	closed  bool
}

// NewStore creates an empty store for one workspace. Call Load before reading.
func NewStore(log *slog.Logger, workspaceID uuid.UUID, items itemRepo, moves moveRepo, tx txManager, cfg config.ScheduleConfig) *Store {
	return &Store{
		workspaceID: workspaceID,
		items:       items,
		moves:       moves,
		tx:          tx,
		cfg:         cfg,
		log:         log.With("workspace_id", workspaceID.String()),
		byID:        make(map[uuid.UUID]domain.ScheduledItem),
		inflight:    make(map[uuid.UUID]domain.ScheduledItem),
		subs:        make(map[uint64]chan []domain.Conflict),
	}
}

// Load replaces the snapshot with the repository's view of [from, to].
// Items outside the window or missing a scheduled date are dropped rather than
// trusted. Pending reschedules of the previous window are orphaned: their
// completions become no-ops and the durable outcome shows up on the next Load.
func (s *Store) Load(ctx context.Context, from, to time.Time, filter domain.ItemFilter) ([]domain.ScheduledItem, error) {
	from = domain.DateOf(from)
	to = domain.DateOf(to)

	fetched, err := s.items.FetchWindow(ctx, s.workspaceID, from, to, filter)
	if err != nil {
		return nil, fmt.Errorf("load window: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, errStoreClosed
	}

	s.loaded = true
	s.from, s.to = from, to
	s.filter = filter
	s.epoch++
	s.inflight = make(map[uuid.UUID]domain.ScheduledItem)

	s.byID = make(map[uuid.UUID]domain.ScheduledItem, len(fetched))
	for _, it := range fetched {
		if it.ScheduledDate.IsZero() {
			continue
		}
		d := domain.DateOf(it.ScheduledDate)
		if d.Before(from) || d.After(to) {
			continue
		}
		it.ScheduledDate = d
		s.byID[it.ID] = it
	}

	s.rebuildViewLocked()
	s.notifyLocked()

	return s.itemsLocked(), nil
}

// Reschedule moves an item to a new date. The in-memory item is updated
// immediately; the durable write follows under the configured timeout. On any
// write failure the item snaps back to its pre-move state. A second call for
// the same item while one is in flight fails fast with ErrRescheduleInFlight
// and issues no write.
//
// Dropping an item on its current date is an idempotent no-op: no state
// change, no write.
func (s *Store) Reschedule(ctx context.Context, itemID uuid.UUID, newDate time.Time, movedBy *uuid.UUID) error {
	newDate = domain.DateOf(newDate)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errStoreClosed
	}

	it, ok := s.byID[itemID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	if _, busy := s.inflight[itemID]; busy {
		s.mu.Unlock()
		return fmt.Errorf("item %s: %w", itemID, domain.ErrRescheduleInFlight)
	}
	if it.IsRecurring() {
		s.mu.Unlock()
		return domain.NewValidationError("item_id", "recurring items cannot be rescheduled")
	}
	if it.ScheduledDate.Equal(newDate) {
		s.mu.Unlock()
		return nil
	}

	prev := it
	moved := shiftToDate(it, newDate)

	// Optimistic apply: visible to readers before the write resolves.
	s.byID[itemID] = moved
	s.inflight[itemID] = prev
	epoch := s.epoch
	s.rebuildViewLocked()
	s.notifyLocked()
	s.mu.Unlock()

	err := s.persistMove(ctx, prev, moved, movedBy)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		// The window was reloaded while the write was in flight; the snapshot
		// this operation belonged to is gone. Report the outcome, touch nothing.
		return err
	}

	delete(s.inflight, itemID)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Deleted concurrently: drop it instead of resurrecting the old date.
			delete(s.byID, itemID)
		} else {
			s.byID[itemID] = prev
		}
		s.rebuildViewLocked()
		s.notifyLocked()
		return fmt.Errorf("reschedule item %s: %w", itemID, err)
	}

	return nil
}

// persistMove runs the durable update and its audit record in one transaction,
// bounded by the configured timeout. A hung write is indistinguishable from a
// failed one: both take the rollback path.
func (s *Store) persistMove(ctx context.Context, prev, moved domain.ScheduledItem, movedBy *uuid.UUID) error {
	wctx, cancel := context.WithTimeout(ctx, s.cfg.RescheduleTimeout)
	defer cancel()

	return s.tx.RunInTx(wctx, func(txCtx context.Context) error {
		if err := s.items.UpdateDate(txCtx, s.workspaceID, moved.ID, moved.ScheduledDate, moved.StartTime, moved.EndTime); err != nil {
			return err
		}
		return s.moves.Create(txCtx, domain.ItemMove{
			WorkspaceID: s.workspaceID,
			ItemID:      moved.ID,
			OldDate:     prev.ScheduledDate,
			NewDate:     moved.ScheduledDate,
			MovedBy:     movedBy,
			MovedAt:     time.Now().UTC(),
		})
	})
}

// Items returns a copy of the current display set (concrete items plus
// recurrence occurrences), ordered by date, start time, id.
func (s *Store) Items() []domain.ScheduledItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemsLocked()
}

// Conflicts recomputes the conflict list from the current snapshot.
func (s *Store) Conflicts() []domain.Conflict {
	s.mu.Lock()
	defer s.mu.Unlock()
	return conflict.Detect(s.view, s.cfg.OverloadThreshold)
}

// Window returns the currently loaded bounds and whether Load has run.
func (s *Store) Window() (from, to time.Time, loaded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.from, s.to, s.loaded
}

// Subscribe registers for conflict updates. Each snapshot change delivers the
// freshly computed conflict list; a slow consumer only ever sees the latest
// state and never blocks the store. The returned cancel func must be called.
func (s *Store) Subscribe() (<-chan []domain.Conflict, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan []domain.Conflict, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Close releases all subscribers. Further calls on the store fail.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

var errStoreClosed = errors.New("schedule store is closed")

// ---------------------------------------------------------------------------
// internals (callers hold s.mu)
// ---------------------------------------------------------------------------

func (s *Store) itemsLocked() []domain.ScheduledItem {
	out := make([]domain.ScheduledItem, len(s.view))
	copy(out, s.view)
	return out
}

// rebuildViewLocked recomputes the display set from the concrete items:
// every stored item plus the expanded occurrences of recurring ones.
func (s *Store) rebuildViewLocked() {
	view := make([]domain.ScheduledItem, 0, len(s.byID))
	for _, it := range s.byID {
		view = append(view, it)
		view = append(view, expandOccurrences(it, s.from, s.to, s.cfg.MaxOccurrences)...)
	}
	sortItems(view)
	s.view = view
}

func (s *Store) notifyLocked() {
	if len(s.subs) == 0 {
		return
	}
	conflicts := conflict.Detect(s.view, s.cfg.OverloadThreshold)
	for _, ch := range s.subs {
		// Replace a stale pending update so subscribers always see the latest.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- conflicts:
		default:
		}
	}
}

// shiftToDate moves an item to a new day, keeping the start's wall-clock time
// attached to the new date and preserving the duration, so timed items that
// run over midnight stay intact.
func shiftToDate(it domain.ScheduledItem, newDate time.Time) domain.ScheduledItem {
	newDate = domain.DateOf(newDate)
	if it.StartTime != nil {
		start := newDate.Add(it.StartTime.UTC().Sub(domain.DateOf(*it.StartTime)))
		if it.EndTime != nil {
			end := start.Add(it.EndTime.Sub(*it.StartTime))
			it.EndTime = &end
		}
		it.StartTime = &start
	}
	it.ScheduledDate = newDate
	return it
}
