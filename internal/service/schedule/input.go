package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/nordvik/studioplan-backend/internal/domain"
)

type LoadInput struct {
	From   time.Time
	To     time.Time
	Filter domain.ItemFilter
}

func (in LoadInput) Validate(maxWindowDays int) error {
	var fields []domain.FieldError

	switch {
	case in.From.IsZero():
		fields = append(fields, domain.FieldError{Field: "from", Message: "is required"})
	case in.To.IsZero():
		fields = append(fields, domain.FieldError{Field: "to", Message: "is required"})
	case domain.DateOf(in.To).Before(domain.DateOf(in.From)):
		fields = append(fields, domain.FieldError{Field: "to", Message: "must not be before from"})
	case maxWindowDays > 0 && int(domain.DateOf(in.To).Sub(domain.DateOf(in.From)).Hours()/24)+1 > maxWindowDays:
		fields = append(fields, domain.FieldError{Field: "to", Message: "window is too large"})
	}

	if in.Filter.Category != nil && !in.Filter.Category.Valid() {
		fields = append(fields, domain.FieldError{Field: "category", Message: "unknown category"})
	}
	if in.Filter.Source != nil && !in.Filter.Source.Valid() {
		fields = append(fields, domain.FieldError{Field: "source", Message: "unknown source"})
	}

	if len(fields) > 0 {
		return domain.NewValidationErrors(fields)
	}
	return nil
}

type RescheduleInput struct {
	ItemID  uuid.UUID
	NewDate time.Time
}

func (in RescheduleInput) Validate() error {
	var fields []domain.FieldError

	if in.ItemID == uuid.Nil {
		fields = append(fields, domain.FieldError{Field: "item_id", Message: "is required"})
	}
	if in.NewDate.IsZero() {
		fields = append(fields, domain.FieldError{Field: "new_date", Message: "is required"})
	}

	if len(fields) > 0 {
		return domain.NewValidationErrors(fields)
	}
	return nil
}

type HistoryInput struct {
	ItemID uuid.UUID
	Limit  int
}

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func (in HistoryInput) Validate() error {
	if in.ItemID == uuid.Nil {
		return domain.NewValidationError("item_id", "is required")
	}
	if in.Limit < 0 {
		return domain.NewValidationError("limit", "must not be negative")
	}
	return nil
}
