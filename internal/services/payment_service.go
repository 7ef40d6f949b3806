package services

import (
	"context"
	"fmt"
	"time"

	"frotaBack/internal/duedate"
	"frotaBack/internal/models"
	"frotaBack/internal/repositories"
	"frotaBack/internal/timeutil"
)

type PaymentService struct {
	PaymentRepo *repositories.PaymentRepository
}

func (s *PaymentService) CreatePayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	if _, err := time.ParseInLocation(duedate.DateLayout, p.DueDate, timeutil.Location()); err != nil {
		return models.Payment{}, fmt.Errorf("%w: %q", models.ErrInvalidDate, p.DueDate)
	}
	if p.Status == "" {
		p.Status = models.PaymentStatusPending
	}
	return s.PaymentRepo.CreatePayment(ctx, p)
}

func (s *PaymentService) GetPayments(ctx context.Context, companyID int) ([]models.Payment, error) {
	return s.PaymentRepo.GetPayments(ctx, companyID)
}

func (s *PaymentService) GetPaymentByID(ctx context.Context, companyID, id int) (models.Payment, error) {
	return s.PaymentRepo.GetPaymentByID(ctx, companyID, id)
}

func (s *PaymentService) GetFilteredPayments(ctx context.Context, companyID int, f models.PaymentFilter) ([]models.Payment, error) {
	if err := f.Normalize(); err != nil {
		return nil, err
	}
	return s.PaymentRepo.GetFilteredPayments(ctx, companyID, f)
}

// UpdatePayment rejects edits to paid or cancelled charges.
func (s *PaymentService) UpdatePayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	existing, err := s.PaymentRepo.GetPaymentByID(ctx, p.CompanyID, p.ID)
	if err != nil {
		return models.Payment{}, err
	}
	if existing.Status.IsFinal() {
		return models.Payment{}, models.ErrPaymentFinal
	}
	if _, err := time.ParseInLocation(duedate.DateLayout, p.DueDate, timeutil.Location()); err != nil {
		return models.Payment{}, fmt.Errorf("%w: %q", models.ErrInvalidDate, p.DueDate)
	}
	return s.PaymentRepo.UpdatePayment(ctx, p)
}

func (s *PaymentService) DeletePayment(ctx context.Context, companyID, id int) error {
	return s.PaymentRepo.DeletePayment(ctx, companyID, id)
}

// PaymentSummary counts open charges per urgency tier for the dashboard.
type PaymentSummary struct {
	Critical  int `json:"critical"`
	Elevated  int `json:"elevated"`
	Caution   int `json:"caution"`
	NoBadge   int `json:"no_badge"`
	Overdue   int `json:"overdue"`
	OpenTotal int `json:"open_total"`
}

func (s *PaymentService) Summary(ctx context.Context, companyID int, now time.Time) (PaymentSummary, error) {
	payments, err := s.PaymentRepo.ListOpenByCompany(ctx, companyID)
	if err != nil {
		return PaymentSummary{}, err
	}

	var summary PaymentSummary
	summary.OpenTotal = len(payments)
	for _, p := range payments {
		indicator, err := duedate.Classify(p.DueDate, p.Status, now)
		if err != nil {
			return PaymentSummary{}, fmt.Errorf("payment %d: %w", p.ID, err)
		}
		if indicator == nil {
			summary.NoBadge++
			continue
		}
		if indicator.Days < 0 {
			summary.Overdue++
		}
		switch indicator.Severity {
		case duedate.SeverityCritical:
			summary.Critical++
		case duedate.SeverityElevated:
			summary.Elevated++
		case duedate.SeverityCaution:
			summary.Caution++
		}
	}
	return summary, nil
}
