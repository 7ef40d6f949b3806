package models

import (
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusOverdue   PaymentStatus = "overdue"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// IsFinal reports whether the payment can no longer change status.
// Paid and cancelled charges are immutable.
func (s PaymentStatus) IsFinal() bool {
	return s == PaymentStatusPaid || s == PaymentStatusCancelled
}

type Payment struct {
	ID          int           `json:"id"`
	CompanyID   int           `json:"company_id"`
	ClientID    int           `json:"client_id"`
	Description string        `json:"description"`
	Category    string        `json:"category,omitempty"`
	Amount      float64       `json:"amount"`
	Status      PaymentStatus `json:"status"`
	// DueDate is a calendar date without time-of-day, format 2006-01-02.
	DueDate     string     `json:"due_date"`
	PaymentURL  string     `json:"payment_url,omitempty"`
	PixCode     string     `json:"pix_code,omitempty"`
	Barcode     string     `json:"barcode,omitempty"`
	NossoNumero string     `json:"nosso_numero,omitempty"`
	PixTxID     string     `json:"pix_txid,omitempty"`
	AsaasID     string     `json:"asaas_id,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at,omitempty"`
}
