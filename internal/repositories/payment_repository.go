package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"frotaBack/internal/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

const paymentColumns = `id, company_id, client_id, description, category, amount, status,
	to_char(due_date, 'YYYY-MM-DD'), payment_url, pix_code, barcode,
	nosso_numero, pix_txid, asaas_id, paid_at, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.CompanyID, &p.ClientID, &p.Description, &p.Category,
		&p.Amount, &p.Status, &p.DueDate, &p.PaymentURL, &p.PixCode, &p.Barcode,
		&p.NossoNumero, &p.PixTxID, &p.AsaasID, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PaymentRepository) CreatePayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	query := `INSERT INTO payments
		(company_id, client_id, description, category, amount, status, due_date,
		 payment_url, pix_code, barcode, nosso_numero, pix_txid, asaas_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query,
		p.CompanyID, p.ClientID, p.Description, p.Category, p.Amount, p.Status, p.DueDate,
		p.PaymentURL, p.PixCode, p.Barcode, p.NossoNumero, p.PixTxID, p.AsaasID,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return models.Payment{}, err
	}
	return p, nil
}

func (r *PaymentRepository) GetPaymentByID(ctx context.Context, companyID, id int) (models.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE company_id = $1 AND id = $2`, paymentColumns)
	p, err := scanPayment(r.DB.QueryRowContext(ctx, query, companyID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, models.ErrPaymentNotFound
	}
	return p, err
}

func (r *PaymentRepository) GetPayments(ctx context.Context, companyID int) ([]models.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE company_id = $1 ORDER BY due_date`, paymentColumns)
	rows, err := r.DB.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// GetFilteredPayments applies a normalized PaymentFilter. Period filters are
// evaluated against the due date in Brasília civil time (due_date is a plain
// DATE column, so CURRENT_DATE comparisons are enough when the DB runs UTC-3).
func (r *PaymentRepository) GetFilteredPayments(ctx context.Context, companyID int, f models.PaymentFilter) ([]models.Payment, error) {
	where := []string{"company_id = $1"}
	args := []any{companyID}

	if f.Search != "" {
		args = append(args, "%"+strings.ToLower(f.Search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(LOWER(description) LIKE $%d OR client_id IN (SELECT id FROM clients WHERE company_id = $1 AND LOWER(name) LIKE $%d))", n, n))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	switch f.Period {
	case "current_month":
		where = append(where, "date_trunc('month', due_date) = date_trunc('month', CURRENT_DATE)")
	case "last_month":
		where = append(where, "date_trunc('month', due_date) = date_trunc('month', CURRENT_DATE - INTERVAL '1 month')")
	case "overdue":
		where = append(where, "due_date < CURRENT_DATE AND status NOT IN ('paid', 'cancelled')")
	case "next_30_days":
		where = append(where, "due_date >= CURRENT_DATE AND due_date <= CURRENT_DATE + INTERVAL '30 days'")
	}

	query := fmt.Sprintf(`SELECT %s FROM payments WHERE %s ORDER BY due_date`,
		paymentColumns, strings.Join(where, " AND "))
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ListOpenByCompany returns payments still eligible for reminders.
func (r *PaymentRepository) ListOpenByCompany(ctx context.Context, companyID int) ([]models.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments
		WHERE company_id = $1 AND status NOT IN ('paid', 'cancelled')
		ORDER BY due_date`, paymentColumns)
	rows, err := r.DB.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) UpdatePayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	query := `UPDATE payments SET client_id = $1, description = $2, category = $3, amount = $4,
		status = $5, due_date = $6, payment_url = $7, pix_code = $8, barcode = $9, updated_at = NOW()
		WHERE company_id = $10 AND id = $11`
	res, err := r.DB.ExecContext(ctx, query, p.ClientID, p.Description, p.Category, p.Amount,
		p.Status, p.DueDate, p.PaymentURL, p.PixCode, p.Barcode, p.CompanyID, p.ID)
	if err != nil {
		return models.Payment{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Payment{}, models.ErrPaymentNotFound
	}
	return p, nil
}

func (r *PaymentRepository) DeletePayment(ctx context.Context, companyID, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM payments WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrPaymentNotFound
	}
	return nil
}

// FindByNossoNumero resolves a payment from an Inter boleto reference. Not
// tenant-scoped: the provider call carries no company identity, the matched
// row is what determines the tenant.
func (r *PaymentRepository) FindByNossoNumero(ctx context.Context, nossoNumero string) (models.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE nosso_numero = $1`, paymentColumns)
	p, err := scanPayment(r.DB.QueryRowContext(ctx, query, nossoNumero))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, models.ErrPaymentNotFound
	}
	return p, err
}

func (r *PaymentRepository) FindByPixTxID(ctx context.Context, txid string) (models.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE pix_txid = $1`, paymentColumns)
	p, err := scanPayment(r.DB.QueryRowContext(ctx, query, txid))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, models.ErrPaymentNotFound
	}
	return p, err
}

func (r *PaymentRepository) FindByAsaasID(ctx context.Context, asaasID string) (models.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE asaas_id = $1`, paymentColumns)
	p, err := scanPayment(r.DB.QueryRowContext(ctx, query, asaasID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, models.ErrPaymentNotFound
	}
	return p, err
}

// MarkPaid transitions a payment to paid. Paid and cancelled rows are
// immutable, so the guard lives in the WHERE clause.
func (r *PaymentRepository) MarkPaid(ctx context.Context, id int, paidAt time.Time) error {
	query := `UPDATE payments SET status = 'paid', paid_at = $1, updated_at = NOW()
		WHERE id = $2 AND status NOT IN ('paid', 'cancelled')`
	res, err := r.DB.ExecContext(ctx, query, paidAt, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM payments WHERE id = $1`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrPaymentNotFound
		}
		if err != nil {
			return err
		}
		return models.ErrPaymentFinal
	}
	return nil
}
