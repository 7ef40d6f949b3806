package duedate

import (
	"errors"
	"testing"
	"time"

	"frotaBack/internal/models"
	"frotaBack/internal/timeutil"
)

var testNow = time.Date(2026, 4, 15, 10, 0, 0, 0, timeutil.Location())

func dateFrom(days int) string {
	return testNow.AddDate(0, 0, days).Format(DateLayout)
}

func TestClassifyTiers(t *testing.T) {
	cases := []struct {
		name         string
		offset       int
		wantText     string
		wantSeverity Severity
	}{
		{"three days overdue", -3, "3 dias em atraso", SeverityCritical},
		{"one day overdue singular", -1, "1 dia em atraso", SeverityCritical},
		{"due today", 0, "Vence hoje", SeverityCritical},
		{"due tomorrow singular", 1, "Vence em 1 dia", SeverityCritical},
		{"upper bound of critical", 2, "Vence em 2 dias", SeverityCritical},
		{"lower bound of elevated", 3, "Vence em 3 dias", SeverityElevated},
		{"upper bound of elevated", 4, "Vence em 4 dias", SeverityElevated},
		{"lower bound of caution", 5, "Vence em 5 dias", SeverityCaution},
		{"upper bound of caution", 7, "Vence em 7 dias", SeverityCaution},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Classify(dateFrom(tc.offset), models.PaymentStatusPending, testNow)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got == nil {
				t.Fatalf("expected indicator, got nil")
			}
			if got.Text != tc.wantText {
				t.Errorf("text mismatch: want %q got %q", tc.wantText, got.Text)
			}
			if got.Severity != tc.wantSeverity {
				t.Errorf("severity mismatch: want %q got %q", tc.wantSeverity, got.Severity)
			}
			if got.Days != tc.offset {
				t.Errorf("days mismatch: want %d got %d", tc.offset, got.Days)
			}
		})
	}
}

func TestClassifyBeyondWindow(t *testing.T) {
	for _, offset := range []int{8, 10, 60} {
		got, err := Classify(dateFrom(offset), models.PaymentStatusPending, testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Fatalf("offset %d: expected no indicator, got %+v", offset, got)
		}
	}
}

func TestClassifyPaidSuppressesIndicator(t *testing.T) {
	for _, offset := range []int{-30, -1, 0, 1, 7, 30} {
		got, err := Classify(dateFrom(offset), models.PaymentStatusPaid, testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Fatalf("offset %d: paid payment must not carry indicator, got %+v", offset, got)
		}
	}
}

func TestClassifyOverdueStatusStillClassifies(t *testing.T) {
	got, err := Classify(dateFrom(-10), models.PaymentStatusOverdue, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Text != "10 dias em atraso" {
		t.Fatalf("expected overdue label, got %+v", got)
	}
}

func TestClassifyInvalidDate(t *testing.T) {
	for _, bad := range []string{"", "15/04/2026", "2026-13-40", "soon"} {
		_, err := Classify(bad, models.PaymentStatusPending, testNow)
		if !errors.Is(err, models.ErrInvalidDate) {
			t.Fatalf("%q: expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestClassifyCrossesUTCDayBoundary(t *testing.T) {
	// 2026-04-16 01:00 UTC is still 2026-04-15 in Brasília, so a charge
	// due on the 15th is "Vence hoje", not overdue.
	now := time.Date(2026, 4, 16, 1, 0, 0, 0, time.UTC)
	got, err := Classify("2026-04-15", models.PaymentStatusPending, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Text != "Vence hoje" {
		t.Fatalf("expected 'Vence hoje', got %+v", got)
	}
}
