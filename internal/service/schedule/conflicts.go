package schedule

import (
	"context"

	"github.com/nordvik/studioplan-backend/internal/domain"
)

// Conflicts recomputes the conflict list for the caller's loaded window.
// An unloaded window has no items and therefore no conflicts.
func (s *Service) Conflicts(ctx context.Context) ([]domain.Conflict, error) {
	st, err := s.storeFor(ctx)
	if err != nil {
		return nil, err
	}
	return st.Conflicts(), nil
}

// Items returns the display set of the caller's loaded window.
func (s *Service) Items(ctx context.Context) ([]domain.ScheduledItem, error) {
	st, err := s.storeFor(ctx)
	if err != nil {
		return nil, err
	}
	return st.Items(), nil
}

// Subscribe registers for conflict updates on the caller's workspace store.
// The cancel func must be called when the consumer goes away.
func (s *Service) Subscribe(ctx context.Context) (<-chan []domain.Conflict, func(), error) {
	st, err := s.storeFor(ctx)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := st.Subscribe()
	return ch, cancel, nil
}
