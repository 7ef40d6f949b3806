package services

import (
	"context"
	"errors"
	"fmt"

	"frotaBack/internal/models"
	"frotaBack/internal/repositories"
)

type SettingsService struct {
	SettingsRepo *repositories.NotificationSettingsRepository
}

// defaults applied when a company has no settings row yet.
func DefaultSettings(companyID int) models.NotificationSettings {
	return models.NotificationSettings{
		CompanyID:            companyID,
		Enabled:              false,
		SendHour:             9,
		PreDueDays:           []int{3, 1},
		OnDueRepeatCount:     1,
		OnDueIntervalHours:   4,
		PostDueIntervalHours: 48,
		MaxAttempts:          3,
		RetryIntervalHours:   2,
		PreDueTemplate:       "Olá {nome}! Lembrete: a cobrança {descricao} de {valor} vence em {vencimento}. {link_pagamento}",
		OnDueTemplate:        "Olá {nome}! A cobrança {descricao} de {valor} vence hoje. {link_pagamento}",
		PostDueTemplate:      "Olá {nome}! A cobrança {descricao} de {valor} venceu em {vencimento}. Pague via PIX: {codigo_pix}",
	}
}

func (s *SettingsService) GetByCompany(ctx context.Context, companyID int) (models.NotificationSettings, error) {
	settings, err := s.SettingsRepo.GetByCompany(ctx, companyID)
	if errors.Is(err, models.ErrSettingsNotFound) {
		return DefaultSettings(companyID), nil
	}
	return settings, err
}

func (s *SettingsService) Save(ctx context.Context, settings models.NotificationSettings) (models.NotificationSettings, error) {
	if settings.SendHour < 0 || settings.SendHour > 23 {
		return models.NotificationSettings{}, fmt.Errorf("send_hour out of range: %d", settings.SendHour)
	}
	for _, d := range settings.PreDueDays {
		if d <= 0 {
			return models.NotificationSettings{}, fmt.Errorf("pre_due_days must be positive, got %d", d)
		}
	}
	if settings.MaxAttempts <= 0 {
		settings.MaxAttempts = 3
	}
	return s.SettingsRepo.Upsert(ctx, settings)
}
