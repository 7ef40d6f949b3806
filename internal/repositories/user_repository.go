package repositories

import (
	"context"
	"database/sql"
	"errors"

	"frotaBack/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	query := `SELECT id, company_id, name, email, password_hash, role, created_at
		FROM users WHERE email = $1`
	err := r.DB.QueryRowContext(ctx, query, email).
		Scan(&u.ID, &u.CompanyID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrNoRecord
	}
	return u, err
}

func (r *UserRepository) CreateSession(ctx context.Context, s models.Session) error {
	query := `INSERT INTO sessions (user_id, company_id, role, refresh_token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())`
	_, err := r.DB.ExecContext(ctx, query, s.UserID, s.CompanyID, s.Role, s.RefreshToken, s.ExpiresAt)
	return err
}

func (r *UserRepository) GetSessionByToken(ctx context.Context, token string) (models.Session, error) {
	var s models.Session
	query := `SELECT id, user_id, company_id, role, refresh_token, expires_at, created_at
		FROM sessions WHERE refresh_token = $1`
	err := r.DB.QueryRowContext(ctx, query, token).
		Scan(&s.ID, &s.UserID, &s.CompanyID, &s.Role, &s.RefreshToken, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, models.ErrNoRecord
	}
	return s, err
}

func (r *UserRepository) DeleteSessionsByUser(ctx context.Context, userID int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}
