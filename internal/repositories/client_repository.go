package repositories

import (
	"context"
	"database/sql"
	"errors"

	"frotaBack/internal/models"
)

type ClientRepository struct {
	DB *sql.DB
}

func (r *ClientRepository) CreateClient(ctx context.Context, client models.Client) (models.Client, error) {
	query := `INSERT INTO clients (company_id, name, phone, email, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, client.CompanyID, client.Name, client.Phone,
		client.Email, client.Document).Scan(&client.ID, &client.CreatedAt)
	if err != nil {
		return models.Client{}, err
	}
	return client, nil
}

func (r *ClientRepository) GetClients(ctx context.Context, companyID int) ([]models.Client, error) {
	query := `SELECT id, company_id, name, phone, email, document, created_at, updated_at
		FROM clients WHERE company_id = $1 ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Phone, &c.Email, &c.Document, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) GetClientByID(ctx context.Context, companyID, id int) (models.Client, error) {
	var c models.Client
	query := `SELECT id, company_id, name, phone, email, document, created_at, updated_at
		FROM clients WHERE company_id = $1 AND id = $2`
	err := r.DB.QueryRowContext(ctx, query, companyID, id).
		Scan(&c.ID, &c.CompanyID, &c.Name, &c.Phone, &c.Email, &c.Document, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Client{}, models.ErrClientNotFound
	}
	return c, err
}

func (r *ClientRepository) UpdateClient(ctx context.Context, client models.Client) (models.Client, error) {
	query := `UPDATE clients SET name = $1, phone = $2, email = $3, document = $4, updated_at = NOW()
		WHERE company_id = $5 AND id = $6`
	res, err := r.DB.ExecContext(ctx, query, client.Name, client.Phone, client.Email,
		client.Document, client.CompanyID, client.ID)
	if err != nil {
		return models.Client{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Client{}, models.ErrClientNotFound
	}
	return client, nil
}

func (r *ClientRepository) DeleteClient(ctx context.Context, companyID, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM clients WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrClientNotFound
	}
	return nil
}
