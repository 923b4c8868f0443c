package schedule

import (
	"context"
	"fmt"

	"github.com/nordvik/studioplan-backend/internal/domain"
)

// Load fetches the items of a date window into the caller's workspace store
// and returns the resulting display set. It replaces whatever window was
// loaded before.
func (s *Service) Load(ctx context.Context, input LoadInput) ([]domain.ScheduledItem, error) {
	if err := input.Validate(s.cfg.MaxWindowDays); err != nil {
		return nil, err
	}

	st, err := s.storeFor(ctx)
	if err != nil {
		return nil, err
	}

	items, err := st.Load(ctx, input.From, input.To, input.Filter)
	if err != nil {
		return nil, fmt.Errorf("schedule.Load: %w", err)
	}

	s.log.DebugContext(ctx, "schedule window loaded",
		"from", domain.DateOf(input.From).Format("2006-01-02"),
		"to", domain.DateOf(input.To).Format("2006-01-02"),
		"items", len(items),
	)
	return items, nil
}
