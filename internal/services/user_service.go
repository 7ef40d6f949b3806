package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"frotaBack/internal/models"
	"frotaBack/internal/repositories"
	"frotaBack/utils"
)

const (
	accessTokenTTL  = 20 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

type UserService struct {
	UserRepo *repositories.UserRepository
	Tokens   *utils.TokenManager
}

type SignInResult struct {
	User         models.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

func (s *UserService) SignIn(ctx context.Context, email, password string) (SignInResult, error) {
	user, err := s.UserRepo.GetUserByEmail(ctx, email)
	if errors.Is(err, models.ErrNoRecord) {
		return SignInResult{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return SignInResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return SignInResult{}, models.ErrInvalidCredentials
	}

	access, err := s.Tokens.NewAccessToken(user.ID, user.CompanyID, user.Role, accessTokenTTL)
	if err != nil {
		return SignInResult{}, err
	}

	// One active session per user: a new sign-in invalidates older
	// refresh tokens.
	if err := s.UserRepo.DeleteSessionsByUser(ctx, user.ID); err != nil {
		return SignInResult{}, err
	}

	refresh := s.Tokens.NewRefreshToken()
	err = s.UserRepo.CreateSession(ctx, models.Session{
		UserID:       user.ID,
		CompanyID:    user.CompanyID,
		Role:         user.Role,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(refreshTokenTTL),
	})
	if err != nil {
		return SignInResult{}, err
	}

	return SignInResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}
