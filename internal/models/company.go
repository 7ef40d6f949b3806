package models

import (
	"time"
)

type Company struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Document         string    `json:"document,omitempty"`
	WhatsAppInstance string    `json:"whatsapp_instance,omitempty"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}
