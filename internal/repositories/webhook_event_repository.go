package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"frotaBack/internal/models"
)

type WebhookEventRepository struct {
	DB *sql.DB
}

// Insert persists the raw payload before any processing happens, so the
// event survives even when the matching payment is unknown.
func (r *WebhookEventRepository) Insert(ctx context.Context, e models.WebhookEvent) error {
	query := `INSERT INTO webhook_events (id, provider, event_type, company_id, payment_id, payload, processed, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query, e.ID, e.Provider, e.EventType,
		e.CompanyID, e.PaymentID, []byte(e.Payload), e.Processed, e.ReceivedAt)
	return err
}

// MarkProcessed back-fills the resolved tenant and payment once the event
// has been matched and applied.
func (r *WebhookEventRepository) MarkProcessed(ctx context.Context, id string, companyID, paymentID int) error {
	query := `UPDATE webhook_events SET processed = TRUE, company_id = $1, payment_id = $2 WHERE id = $3`
	_, err := r.DB.ExecContext(ctx, query, companyID, paymentID, id)
	return err
}

func (r *WebhookEventRepository) ListByCompany(ctx context.Context, companyID int) ([]models.WebhookEvent, error) {
	query := `SELECT id, provider, event_type, company_id, payment_id, payload, processed, received_at
		FROM webhook_events WHERE company_id = $1 ORDER BY received_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.WebhookEvent
	for rows.Next() {
		var e models.WebhookEvent
		var payload []byte
		var companyID, paymentID sql.NullInt64
		var receivedAt time.Time
		if err := rows.Scan(&e.ID, &e.Provider, &e.EventType, &companyID, &paymentID, &payload, &e.Processed, &receivedAt); err != nil {
			return nil, err
		}
		if companyID.Valid {
			v := int(companyID.Int64)
			e.CompanyID = &v
		}
		if paymentID.Valid {
			v := int(paymentID.Int64)
			e.PaymentID = &v
		}
		e.Payload = json.RawMessage(payload)
		e.ReceivedAt = receivedAt
		events = append(events, e)
	}
	return events, rows.Err()
}
