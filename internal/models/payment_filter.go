package models

import (
	"fmt"
	"strings"
)

// PaymentFilter enumerates the recognized listing filters. Values arrive
// from the client as free-form JSON, so Normalize validates them before any
// query is built.
type PaymentFilter struct {
	Search   string `json:"search"`
	Status   string `json:"status"`
	Category string `json:"category"`
	// Period filters by due date: "current_month", "last_month",
	// "overdue", "next_30_days" or "" for no period filter.
	Period string `json:"period"`
}

var validFilterPeriods = map[string]bool{
	"":             true,
	"current_month": true,
	"last_month":    true,
	"overdue":       true,
	"next_30_days":  true,
}

func (f *PaymentFilter) Normalize() error {
	f.Search = strings.TrimSpace(f.Search)
	f.Status = strings.TrimSpace(strings.ToLower(f.Status))
	f.Category = strings.TrimSpace(f.Category)
	f.Period = strings.TrimSpace(strings.ToLower(f.Period))

	switch PaymentStatus(f.Status) {
	case "", PaymentStatusPending, PaymentStatusPaid, PaymentStatusOverdue, PaymentStatusCancelled:
	default:
		return fmt.Errorf("%w: status %q", ErrInvalidFilter, f.Status)
	}
	if !validFilterPeriods[f.Period] {
		return fmt.Errorf("%w: period %q", ErrInvalidFilter, f.Period)
	}
	return nil
}
