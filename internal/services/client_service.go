package services

import (
	"context"

	"frotaBack/internal/models"
	"frotaBack/internal/repositories"
)

type ClientService struct {
	ClientRepo *repositories.ClientRepository
}

func (s *ClientService) CreateClient(ctx context.Context, client models.Client) (models.Client, error) {
	return s.ClientRepo.CreateClient(ctx, client)
}

func (s *ClientService) GetClients(ctx context.Context, companyID int) ([]models.Client, error) {
	return s.ClientRepo.GetClients(ctx, companyID)
}

func (s *ClientService) GetClientByID(ctx context.Context, companyID, id int) (models.Client, error) {
	return s.ClientRepo.GetClientByID(ctx, companyID, id)
}

func (s *ClientService) UpdateClient(ctx context.Context, client models.Client) (models.Client, error) {
	return s.ClientRepo.UpdateClient(ctx, client)
}

func (s *ClientService) DeleteClient(ctx context.Context, companyID, id int) error {
	return s.ClientRepo.DeleteClient(ctx, companyID, id)
}
