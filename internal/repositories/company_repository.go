package repositories

import (
	"context"
	"database/sql"
	"errors"

	"frotaBack/internal/models"
)

type CompanyRepository struct {
	DB *sql.DB
}

func (r *CompanyRepository) GetCompanyByID(ctx context.Context, id int) (models.Company, error) {
	var c models.Company
	query := `SELECT id, name, document, whatsapp_instance, active, created_at, updated_at
		FROM companies WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.Name, &c.Document, &c.WhatsAppInstance, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Company{}, models.ErrCompanyNotFound
	}
	return c, err
}
