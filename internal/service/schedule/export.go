package schedule

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/nordvik/studioplan-backend/internal/domain"
)

// ExportICS serializes the caller's loaded window as an iCalendar document.
// Timed items become timed VEVENTs, everything else all-day events spanning
// one day. Recurrence is exported as the already-expanded occurrences, so the
// file mirrors exactly what the calendar shows.
func (s *Service) ExportICS(ctx context.Context) ([]byte, error) {
	st, err := s.storeFor(ctx)
	if err != nil {
		return nil, err
	}

	_, _, loaded := st.Window()
	if !loaded {
		return nil, domain.NewValidationError("window", "no window loaded")
	}

	items := st.Items()
	if max := s.cfg.ExportMaxItems; max > 0 && len(items) > max {
		items = items[:max]
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//studioplan//schedule//EN")

	now := time.Now().UTC()
	for _, it := range items {
		ev := cal.AddEvent(fmt.Sprintf("%s@studioplan", it.ID))
		ev.SetDtStampTime(now)
		ev.SetSummary(it.Title)
		ev.SetProperty(ics.ComponentPropertyCategories, string(it.Category))

		if it.IsTimed() {
			ev.SetStartAt(it.StartTime.UTC())
			ev.SetEndAt(it.EndTime.UTC())
		} else {
			ev.SetAllDayStartAt(it.ScheduledDate)
			ev.SetAllDayEndAt(it.ScheduledDate.AddDate(0, 0, 1))
		}
	}

	return []byte(cal.Serialize()), nil
}
