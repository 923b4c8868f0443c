package schedule

import (
	"context"
	"fmt"

	"github.com/nordvik/studioplan-backend/internal/domain"
	"github.com/nordvik/studioplan-backend/pkg/ctxutil"
)

// ItemHistory returns the reschedule audit trail of one item, newest first.
func (s *Service) ItemHistory(ctx context.Context, input HistoryInput) ([]domain.ItemMove, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	workspaceID, ok := ctxutil.WorkspaceIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	limit := input.Limit
	if limit == 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	moves, err := s.moves.ListByItem(ctx, workspaceID, input.ItemID, limit)
	if err != nil {
		return nil, fmt.Errorf("schedule.ItemHistory: %w", err)
	}
	return moves, nil
}
