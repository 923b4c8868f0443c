package schedule

import (
	"context"

	"github.com/google/uuid"

	"github.com/nordvik/studioplan-backend/pkg/ctxutil"
)

// Reschedule moves an item to a new date in the caller's workspace store.
// The move is applied optimistically and rolled back if the durable write
// fails; see Store.Reschedule for the exact semantics.
func (s *Service) Reschedule(ctx context.Context, input RescheduleInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	st, err := s.storeFor(ctx)
	if err != nil {
		return err
	}

	var movedBy *uuid.UUID
	if userID, ok := ctxutil.UserIDFromCtx(ctx); ok {
		movedBy = &userID
	}

	if err := st.Reschedule(ctx, input.ItemID, input.NewDate, movedBy); err != nil {
		s.log.WarnContext(ctx, "reschedule failed",
			"item_id", input.ItemID.String(),
			"new_date", input.NewDate.Format("2006-01-02"),
			"error", err,
		)
		return err
	}
	return nil
}
