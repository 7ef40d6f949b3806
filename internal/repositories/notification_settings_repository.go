package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"frotaBack/internal/models"
)

type NotificationSettingsRepository struct {
	DB *sql.DB
}

// pre_due_days is stored as a comma separated list ("3,1") to keep the
// column readable in plain SQL tooling.
func joinDays(days []int) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ",")
}

func splitDays(s string) []int {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var days []int
	for _, part := range strings.Split(s, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	return days
}

func (r *NotificationSettingsRepository) GetByCompany(ctx context.Context, companyID int) (models.NotificationSettings, error) {
	var s models.NotificationSettings
	var preDue string
	query := `SELECT id, company_id, enabled, send_hour, pre_due_days, on_due_repeat_count,
		on_due_interval_hours, post_due_interval_hours, max_attempts, retry_interval_hours,
		pre_due_template, on_due_template, post_due_template, created_at, updated_at
		FROM notification_settings WHERE company_id = $1`
	err := r.DB.QueryRowContext(ctx, query, companyID).Scan(&s.ID, &s.CompanyID, &s.Enabled,
		&s.SendHour, &preDue, &s.OnDueRepeatCount, &s.OnDueIntervalHours, &s.PostDueIntervalHours,
		&s.MaxAttempts, &s.RetryIntervalHours, &s.PreDueTemplate, &s.OnDueTemplate,
		&s.PostDueTemplate, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NotificationSettings{}, models.ErrSettingsNotFound
	}
	if err != nil {
		return models.NotificationSettings{}, err
	}
	s.PreDueDays = splitDays(preDue)
	return s, nil
}

// Upsert keeps the one-row-per-company invariant via the unique index on
// company_id.
func (r *NotificationSettingsRepository) Upsert(ctx context.Context, s models.NotificationSettings) (models.NotificationSettings, error) {
	query := `INSERT INTO notification_settings
		(company_id, enabled, send_hour, pre_due_days, on_due_repeat_count, on_due_interval_hours,
		 post_due_interval_hours, max_attempts, retry_interval_hours,
		 pre_due_template, on_due_template, post_due_template, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		ON CONFLICT (company_id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			send_hour = EXCLUDED.send_hour,
			pre_due_days = EXCLUDED.pre_due_days,
			on_due_repeat_count = EXCLUDED.on_due_repeat_count,
			on_due_interval_hours = EXCLUDED.on_due_interval_hours,
			post_due_interval_hours = EXCLUDED.post_due_interval_hours,
			max_attempts = EXCLUDED.max_attempts,
			retry_interval_hours = EXCLUDED.retry_interval_hours,
			pre_due_template = EXCLUDED.pre_due_template,
			on_due_template = EXCLUDED.on_due_template,
			post_due_template = EXCLUDED.post_due_template,
			updated_at = NOW()
		RETURNING id`
	err := r.DB.QueryRowContext(ctx, query, s.CompanyID, s.Enabled, s.SendHour, joinDays(s.PreDueDays),
		s.OnDueRepeatCount, s.OnDueIntervalHours, s.PostDueIntervalHours, s.MaxAttempts,
		s.RetryIntervalHours, s.PreDueTemplate, s.OnDueTemplate, s.PostDueTemplate).Scan(&s.ID)
	if err != nil {
		return models.NotificationSettings{}, err
	}
	return s, nil
}

// ListEnabled returns settings for every active company with messaging
// enabled, joined with the company's WhatsApp instance key.
func (r *NotificationSettingsRepository) ListEnabled(ctx context.Context) ([]models.NotificationSettings, error) {
	query := `SELECT ns.id, ns.company_id, ns.enabled, ns.send_hour, ns.pre_due_days,
		ns.on_due_repeat_count, ns.on_due_interval_hours, ns.post_due_interval_hours,
		ns.max_attempts, ns.retry_interval_hours, ns.pre_due_template, ns.on_due_template,
		ns.post_due_template, ns.created_at, ns.updated_at, c.whatsapp_instance
		FROM notification_settings ns
		JOIN companies c ON c.id = ns.company_id
		WHERE ns.enabled = TRUE AND c.active = TRUE`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.NotificationSettings
	for rows.Next() {
		var s models.NotificationSettings
		var preDue string
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Enabled, &s.SendHour, &preDue,
			&s.OnDueRepeatCount, &s.OnDueIntervalHours, &s.PostDueIntervalHours,
			&s.MaxAttempts, &s.RetryIntervalHours, &s.PreDueTemplate, &s.OnDueTemplate,
			&s.PostDueTemplate, &s.CreatedAt, &s.UpdatedAt, &s.WhatsAppInstance); err != nil {
			return nil, err
		}
		s.PreDueDays = splitDays(preDue)
		list = append(list, s)
	}
	return list, rows.Err()
}
