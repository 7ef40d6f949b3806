package models

import (
	"time"
)

type NotificationEvent string

const (
	NotificationEventPreDue  NotificationEvent = "pre_due"
	NotificationEventOnDue   NotificationEvent = "on_due"
	NotificationEventPostDue NotificationEvent = "post_due"
)

type NotificationStatus string

const (
	NotificationStatusPending   NotificationStatus = "pending"
	NotificationStatusSent      NotificationStatus = "sent"
	NotificationStatusFailed    NotificationStatus = "failed"
	NotificationStatusCancelled NotificationStatus = "cancelled"
)

// PaymentNotification is one scheduled reminder for one payment. The pair
// (payment_id, event_type, period_key) is unique, which is what makes cycle
// runs idempotent under concurrent execution.
type PaymentNotification struct {
	ID           int                `json:"id"`
	CompanyID    int                `json:"company_id"`
	PaymentID    int                `json:"payment_id"`
	ClientID     int                `json:"client_id"`
	EventType    NotificationEvent  `json:"event_type"`
	PeriodKey    string             `json:"period_key"`
	Status       NotificationStatus `json:"status"`
	Attempts     int                `json:"attempts"`
	ScheduledFor time.Time          `json:"scheduled_for"`
	SentAt       *time.Time         `json:"sent_at,omitempty"`
	LastError    string             `json:"last_error,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}
