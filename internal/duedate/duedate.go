package duedate

import (
	"fmt"
	"time"

	"frotaBack/internal/models"
	"frotaBack/internal/timeutil"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityElevated Severity = "elevated"
	SeverityCaution  Severity = "caution"
)

// Indicator is the urgency badge shown next to a charge. A nil indicator
// means only the plain formatted date is displayed.
type Indicator struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
	Days     int      `json:"days"`
}

// DateLayout is the calendar-date format used for due dates everywhere.
const DateLayout = "2006-01-02"

// Classify maps a due date and payment status to an urgency indicator.
// Paid charges never carry an indicator, no matter how old the due date.
// The day offset is computed on civil dates in Brasília time:
//
//	< 0    overdue            critical
//	0      due today          critical
//	1..2   due in N days      critical
//	3..4   due in N days      elevated
//	5..7   due in N days      caution
//	> 7    no indicator
func Classify(dueDate string, status models.PaymentStatus, now time.Time) (*Indicator, error) {
	due, err := time.ParseInLocation(DateLayout, dueDate, timeutil.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidDate, dueDate)
	}
	if status == models.PaymentStatusPaid {
		return nil, nil
	}

	days := timeutil.DaysBetween(now, due)
	switch {
	case days < 0:
		return &Indicator{Text: overdueLabel(-days), Severity: SeverityCritical, Days: days}, nil
	case days == 0:
		return &Indicator{Text: "Vence hoje", Severity: SeverityCritical, Days: 0}, nil
	case days <= 2:
		return &Indicator{Text: upcomingLabel(days), Severity: SeverityCritical, Days: days}, nil
	case days <= 4:
		return &Indicator{Text: upcomingLabel(days), Severity: SeverityElevated, Days: days}, nil
	case days <= 7:
		return &Indicator{Text: upcomingLabel(days), Severity: SeverityCaution, Days: days}, nil
	default:
		return nil, nil
	}
}

func overdueLabel(days int) string {
	if days == 1 {
		return "1 dia em atraso"
	}
	return fmt.Sprintf("%d dias em atraso", days)
}

func upcomingLabel(days int) string {
	if days == 1 {
		return "Vence em 1 dia"
	}
	return fmt.Sprintf("Vence em %d dias", days)
}
