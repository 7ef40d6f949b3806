package repositories

import (
	"context"
	"database/sql"
	"time"

	"frotaBack/internal/models"
)

type PaymentNotificationRepository struct {
	DB *sql.DB
}

// CreateIfAbsent inserts a pending notification unless one already exists
// for the same (payment, event type, period). The unique index makes
// concurrent cycle runs race-safe: exactly one insert wins, the rest are
// no-ops. Returns true when a row was created.
func (r *PaymentNotificationRepository) CreateIfAbsent(ctx context.Context, n models.PaymentNotification) (bool, error) {
	query := `INSERT INTO payment_notifications
		(company_id, payment_id, client_id, event_type, period_key, status, attempts, scheduled_for, created_at)
		VALUES ($1, $2, $3, $4, $5, 'pending', 0, $6, NOW())
		ON CONFLICT (payment_id, event_type, period_key) DO NOTHING`
	res, err := r.DB.ExecContext(ctx, query, n.CompanyID, n.PaymentID, n.ClientID,
		n.EventType, n.PeriodKey, n.ScheduledFor)
	if err != nil {
		return false, err
	}
	inserted, _ := res.RowsAffected()
	return inserted > 0, nil
}

// ListDeliverable returns pending notifications for one company whose
// scheduled time has passed and whose attempt budget is not exhausted.
func (r *PaymentNotificationRepository) ListDeliverable(ctx context.Context, companyID int, now time.Time, maxAttempts int) ([]models.PaymentNotification, error) {
	query := `SELECT id, company_id, payment_id, client_id, event_type, period_key,
		status, attempts, scheduled_for, sent_at, last_error, created_at
		FROM payment_notifications
		WHERE company_id = $1 AND status = 'pending' AND scheduled_for <= $2 AND attempts < $3
		ORDER BY scheduled_for`
	rows, err := r.DB.QueryContext(ctx, query, companyID, now, maxAttempts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.PaymentNotification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func scanNotification(row interface{ Scan(...any) error }) (models.PaymentNotification, error) {
	var n models.PaymentNotification
	var lastError sql.NullString
	err := row.Scan(&n.ID, &n.CompanyID, &n.PaymentID, &n.ClientID, &n.EventType,
		&n.PeriodKey, &n.Status, &n.Attempts, &n.ScheduledFor, &n.SentAt, &lastError, &n.CreatedAt)
	n.LastError = lastError.String
	return n, err
}

// MarkSent finalizes a notification. Sent rows are immutable, hence the
// status guard in the WHERE clause.
func (r *PaymentNotificationRepository) MarkSent(ctx context.Context, id int, sentAt time.Time) error {
	query := `UPDATE payment_notifications
		SET status = 'sent', sent_at = $1, attempts = attempts + 1
		WHERE id = $2 AND status = 'pending'`
	res, err := r.DB.ExecContext(ctx, query, sentAt, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotificationFinal
	}
	return nil
}

// RecordFailure bumps the attempt counter, stores the error and reschedules
// the retry. Once the counter reaches maxAttempts the row flips to failed
// and is never picked up again.
func (r *PaymentNotificationRepository) RecordFailure(ctx context.Context, id int, deliveryErr string, maxAttempts int, retryAt time.Time) error {
	query := `UPDATE payment_notifications
		SET attempts = attempts + 1,
		    last_error = $1,
		    scheduled_for = $2,
		    status = CASE WHEN attempts + 1 >= $3 THEN 'failed' ELSE 'pending' END
		WHERE id = $4 AND status = 'pending'`
	res, err := r.DB.ExecContext(ctx, query, deliveryErr, retryAt, maxAttempts, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotificationFinal
	}
	return nil
}

// Cancel closes a pending notification whose payment settled before
// delivery. Already-final rows are left untouched.
func (r *PaymentNotificationRepository) Cancel(ctx context.Context, id int) error {
	query := `UPDATE payment_notifications SET status = 'cancelled'
		WHERE id = $1 AND status = 'pending'`
	_, err := r.DB.ExecContext(ctx, query, id)
	return err
}

func (r *PaymentNotificationRepository) ListByCompany(ctx context.Context, companyID int) ([]models.PaymentNotification, error) {
	query := `SELECT id, company_id, payment_id, client_id, event_type, period_key,
		status, attempts, scheduled_for, sent_at, last_error, created_at
		FROM payment_notifications WHERE company_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.PaymentNotification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}
