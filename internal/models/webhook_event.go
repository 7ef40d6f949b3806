package models

import (
	"encoding/json"
	"time"
)

// WebhookEvent is the raw audit log of every inbound provider notification.
// The payload is stored before any processing so events can be replayed.
type WebhookEvent struct {
	ID         string          `json:"id"`
	Provider   string          `json:"provider"`
	EventType  string          `json:"event_type"`
	CompanyID  *int            `json:"company_id,omitempty"`
	PaymentID  *int            `json:"payment_id,omitempty"`
	Payload    json.RawMessage `json:"payload"`
	Processed  bool            `json:"processed"`
	ReceivedAt time.Time       `json:"received_at"`
}
