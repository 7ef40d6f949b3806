package models

import (
	"time"
)

// NotificationSettings holds the per-company reminder cadence. Exactly one
// row exists per company; repositories upsert on company_id.
type NotificationSettings struct {
	ID        int  `json:"id"`
	CompanyID int  `json:"company_id"`
	Enabled   bool `json:"enabled"`
	// SendHour is the hour of day (0-23, Brasília time) reminders are
	// scheduled at.
	SendHour             int    `json:"send_hour"`
	PreDueDays           []int  `json:"pre_due_days"`
	OnDueRepeatCount     int    `json:"on_due_repeat_count"`
	OnDueIntervalHours   int    `json:"on_due_interval_hours"`
	PostDueIntervalHours int    `json:"post_due_interval_hours"`
	MaxAttempts          int    `json:"max_attempts"`
	RetryIntervalHours   int    `json:"retry_interval_hours"`
	PreDueTemplate       string `json:"pre_due_template"`
	OnDueTemplate        string `json:"on_due_template"`
	PostDueTemplate      string `json:"post_due_template"`
	// WhatsAppInstance is joined in from the company row when listing
	// enabled settings for a cycle run.
	WhatsAppInstance string    `json:"whatsapp_instance,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}

func (s NotificationSettings) TemplateFor(event NotificationEvent) string {
	switch event {
	case NotificationEventPreDue:
		return s.PreDueTemplate
	case NotificationEventOnDue:
		return s.OnDueTemplate
	case NotificationEventPostDue:
		return s.PostDueTemplate
	}
	return ""
}
