package models

import (
	"errors"
	"testing"
)

func TestPaymentFilterNormalize(t *testing.T) {
	f := PaymentFilter{Search: "  Caminhão 12 ", Status: " PENDING", Period: "Current_Month"}
	if err := f.Normalize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Search != "Caminhão 12" {
		t.Errorf("Search = %q", f.Search)
	}
	if f.Status != "pending" {
		t.Errorf("Status = %q", f.Status)
	}
	if f.Period != "current_month" {
		t.Errorf("Period = %q", f.Period)
	}
}

func TestPaymentFilterNormalizeEmpty(t *testing.T) {
	var f PaymentFilter
	if err := f.Normalize(); err != nil {
		t.Fatalf("empty filter must be valid: %v", err)
	}
}

func TestPaymentFilterRejectsUnknownValues(t *testing.T) {
	cases := []PaymentFilter{
		{Status: "settled"},
		{Period: "this_week"},
	}
	for _, f := range cases {
		if err := f.Normalize(); !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("Normalize(%+v) = %v, want ErrInvalidFilter", f, err)
		}
	}
}
