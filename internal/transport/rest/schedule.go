package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/nordvik/studioplan-backend/internal/domain"
	"github.com/nordvik/studioplan-backend/internal/service/schedule"
)

// scheduleService defines the operations ScheduleHandler needs.
type scheduleService interface {
	Load(ctx context.Context, input schedule.LoadInput) ([]domain.ScheduledItem, error)
	Reschedule(ctx context.Context, input schedule.RescheduleInput) error
	Conflicts(ctx context.Context) ([]domain.Conflict, error)
	ItemHistory(ctx context.Context, input schedule.HistoryInput) ([]domain.ItemMove, error)
	ExportICS(ctx context.Context) ([]byte, error)
}

// ScheduleHandler serves the calendar REST endpoints.
type ScheduleHandler struct {
	svc scheduleService
	log *slog.Logger
}

// NewScheduleHandler creates a ScheduleHandler.
func NewScheduleHandler(svc scheduleService, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, log: logger.With("handler", "schedule")}
}

const dateLayout = "2006-01-02"

type itemResponse struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Date           string     `json:"date"`
	StartTime      *time.Time `json:"start_time,omitempty"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	ResponsibleID  *uuid.UUID `json:"responsible_id,omitempty"`
	Category       string     `json:"category"`
	Source         string     `json:"source"`
	RecurrenceRule *string    `json:"recurrence_rule,omitempty"`
	OccurrenceOf   *uuid.UUID `json:"occurrence_of,omitempty"`
}

type conflictResponse struct {
	Kind          string      `json:"kind"`
	Severity      string      `json:"severity"`
	ResponsibleID uuid.UUID   `json:"responsible_id"`
	Date          string      `json:"date"`
	ItemIDs       []uuid.UUID `json:"item_ids"`
	Count         int         `json:"count,omitempty"`
}

type moveResponse struct {
	ID      uuid.UUID  `json:"id"`
	ItemID  uuid.UUID  `json:"item_id"`
	OldDate string     `json:"old_date"`
	NewDate string     `json:"new_date"`
	MovedBy *uuid.UUID `json:"moved_by,omitempty"`
	MovedAt time.Time  `json:"moved_at"`
}

// Window handles GET /api/v1/schedule?from=...&to=...&responsible=...&category=...&source=...
func (h *ScheduleHandler) Window(w http.ResponseWriter, r *http.Request) {
	input, err := parseWindowQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	items, err := h.svc.Load(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	conflicts, err := h.svc.Conflicts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":     toItemResponses(items),
		"conflicts": toConflictResponses(conflicts),
	})
}

// Reschedule handles POST /api/v1/schedule/{id}/reschedule.
func (h *ScheduleHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, domain.NewValidationError("id", "must be a UUID"))
		return
	}

	var req struct {
		NewDate string `json:"new_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}
	newDate, err := time.Parse(dateLayout, req.NewDate)
	if err != nil {
		writeError(w, domain.NewValidationError("new_date", "must be YYYY-MM-DD"))
		return
	}

	if err := h.svc.Reschedule(r.Context(), schedule.RescheduleInput{ItemID: itemID, NewDate: newDate}); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Conflicts handles GET /api/v1/schedule/conflicts.
func (h *ScheduleHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	conflicts, err := h.svc.Conflicts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conflicts": toConflictResponses(conflicts)})
}

// History handles GET /api/v1/schedule/{id}/moves.
func (h *ScheduleHandler) History(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, domain.NewValidationError("id", "must be a UUID"))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, domain.NewValidationError("limit", "must be an integer"))
			return
		}
	}

	moves, err := h.svc.ItemHistory(r.Context(), schedule.HistoryInput{ItemID: itemID, Limit: limit})
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]moveResponse, 0, len(moves))
	for _, m := range moves {
		out = append(out, moveResponse{
			ID:      m.ID,
			ItemID:  m.ItemID,
			OldDate: m.OldDate.Format(dateLayout),
			NewDate: m.NewDate.Format(dateLayout),
			MovedBy: m.MovedBy,
			MovedAt: m.MovedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"moves": out})
}

// Export handles GET /api/v1/schedule/export.ics.
func (h *ScheduleHandler) Export(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.ExportICS(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck
}

func parseWindowQuery(r *http.Request) (schedule.LoadInput, error) {
	q := r.URL.Query()

	var input schedule.LoadInput
	var err error

	if raw := q.Get("from"); raw != "" {
		if input.From, err = time.Parse(dateLayout, raw); err != nil {
			return input, domain.NewValidationError("from", "must be YYYY-MM-DD")
		}
	}
	if raw := q.Get("to"); raw != "" {
		if input.To, err = time.Parse(dateLayout, raw); err != nil {
			return input, domain.NewValidationError("to", "must be YYYY-MM-DD")
		}
	}
	if raw := q.Get("responsible"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return input, domain.NewValidationError("responsible", "must be a UUID")
		}
		input.Filter.ResponsibleID = &id
	}
	if raw := q.Get("category"); raw != "" {
		c := domain.Category(raw)
		input.Filter.Category = &c
	}
	if raw := q.Get("source"); raw != "" {
		s := domain.Source(raw)
		input.Filter.Source = &s
	}
	return input, nil
}

func toItemResponses(items []domain.ScheduledItem) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, itemResponse{
			ID:             it.ID,
			Title:          it.Title,
			Date:           it.ScheduledDate.Format(dateLayout),
			StartTime:      it.StartTime,
			EndTime:        it.EndTime,
			ResponsibleID:  it.ResponsibleID,
			Category:       string(it.Category),
			Source:         string(it.Source),
			RecurrenceRule: it.RecurrenceRule,
			OccurrenceOf:   it.OccurrenceOf,
		})
	}
	return out
}

func toConflictResponses(conflicts []domain.Conflict) []conflictResponse {
	out := make([]conflictResponse, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, conflictResponse{
			Kind:          string(c.Kind),
			Severity:      string(c.Severity),
			ResponsibleID: c.ResponsibleID,
			Date:          c.Date.Format(dateLayout),
			ItemIDs:       c.ItemIDs,
			Count:         c.Count,
		})
	}
	return out
}

type errorResponse struct {
	Error  string             `json:"error"`
	Fields []fieldErrResponse `json:"fields,omitempty"`
}

type fieldErrResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		fields := make([]fieldErrResponse, 0, len(vErr.Errors))
		for _, fe := range vErr.Errors {
			fields = append(fields, fieldErrResponse{Field: fe.Field, Message: fe.Message})
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: fields})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrRescheduleInFlight):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "reschedule already in flight"})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "persistence timed out, change was rolled back"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
