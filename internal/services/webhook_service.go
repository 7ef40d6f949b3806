package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"frotaBack/internal/models"
	"frotaBack/internal/timeutil"
)

// ProviderPaymentStore resolves payments from provider references and
// applies confirmed-payment transitions.
type ProviderPaymentStore interface {
	FindByNossoNumero(ctx context.Context, nossoNumero string) (models.Payment, error)
	FindByPixTxID(ctx context.Context, txid string) (models.Payment, error)
	FindByAsaasID(ctx context.Context, asaasID string) (models.Payment, error)
	MarkPaid(ctx context.Context, id int, paidAt time.Time) error
}

type WebhookEventLog interface {
	Insert(ctx context.Context, e models.WebhookEvent) error
	MarkProcessed(ctx context.Context, id string, companyID, paymentID int) error
}

// PayloadArchiver stores raw payloads out-of-band for audit/replay. Optional.
type PayloadArchiver interface {
	Archive(ctx context.Context, key string, payload []byte) error
}

// WebhookService ingests inbound provider notifications. The raw payload is
// always persisted first; processing failures afterwards never lose the
// event. The tenant is resolved from the matched payment row, never assumed
// from the request.
type WebhookService struct {
	Payments ProviderPaymentStore
	Events   WebhookEventLog
	Archiver PayloadArchiver
	Logger   *slog.Logger
}

func (s *WebhookService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// paid-type events per provider contract. Anything else is logged and
// acknowledged as a no-op.
var interPaidEvents = map[string]bool{
	"PIX_RECEBIDO":         true,
	"BOLETO_PAGO":          true,
	"PAGAMENTO_CONFIRMADO": true,
	"COBRANCA_LIQUIDADA":   true,
}

var asaasPaidEvents = map[string]bool{
	"PAYMENT_RECEIVED":  true,
	"PAYMENT_CONFIRMED": true,
}

type interEvent struct {
	Evento      string `json:"evento"`
	NossoNumero string `json:"nossoNumero"`
	TxID        string `json:"txid"`
}

// ProcessInterEvent handles a Banco Inter webhook body. The returned event
// row carries whatever tenant/payment resolution succeeded. A non-nil error
// means the payload could not be parsed; the raw body is logged regardless.
func (s *WebhookService) ProcessInterEvent(ctx context.Context, payload []byte) (models.WebhookEvent, error) {
	event := models.WebhookEvent{
		ID:         uuid.NewString(),
		Provider:   "inter",
		Payload:    json.RawMessage(payload),
		ReceivedAt: timeutil.Now(),
	}

	var body interEvent
	parseErr := json.Unmarshal(payload, &body)
	if parseErr == nil {
		event.EventType = body.Evento
	}

	if err := s.Events.Insert(ctx, event); err != nil {
		return event, fmt.Errorf("log webhook event: %w", err)
	}
	s.archive(ctx, event)

	if parseErr != nil {
		return event, fmt.Errorf("parse inter payload: %w", parseErr)
	}

	var payment models.Payment
	var err error
	switch {
	case body.TxID != "":
		payment, err = s.Payments.FindByPixTxID(ctx, body.TxID)
	case body.NossoNumero != "":
		payment, err = s.Payments.FindByNossoNumero(ctx, body.NossoNumero)
	default:
		s.logger().Info("inter webhook without provider reference", "evento", body.Evento)
		return event, nil
	}
	if errors.Is(err, models.ErrPaymentNotFound) {
		s.logger().Warn("inter webhook for unknown payment",
			"evento", body.Evento, "nossoNumero", body.NossoNumero, "txid", body.TxID)
		return event, nil
	}
	if err != nil {
		return event, fmt.Errorf("resolve payment: %w", err)
	}

	return event, s.applyPaidEvent(ctx, event, payment, interPaidEvents[body.Evento])
}

type asaasEvent struct {
	Event   string `json:"event"`
	Payment struct {
		ID string `json:"id"`
	} `json:"payment"`
}

// ProcessAsaasEvent handles an Asaas webhook body with the same
// log-first contract as ProcessInterEvent.
func (s *WebhookService) ProcessAsaasEvent(ctx context.Context, payload []byte) (models.WebhookEvent, error) {
	event := models.WebhookEvent{
		ID:         uuid.NewString(),
		Provider:   "asaas",
		Payload:    json.RawMessage(payload),
		ReceivedAt: timeutil.Now(),
	}

	var body asaasEvent
	parseErr := json.Unmarshal(payload, &body)
	if parseErr == nil {
		event.EventType = body.Event
	}

	if err := s.Events.Insert(ctx, event); err != nil {
		return event, fmt.Errorf("log webhook event: %w", err)
	}
	s.archive(ctx, event)

	if parseErr != nil {
		return event, fmt.Errorf("parse asaas payload: %w", parseErr)
	}
	if body.Payment.ID == "" {
		s.logger().Info("asaas webhook without payment id", "event", body.Event)
		return event, nil
	}

	payment, err := s.Payments.FindByAsaasID(ctx, body.Payment.ID)
	if errors.Is(err, models.ErrPaymentNotFound) {
		s.logger().Warn("asaas webhook for unknown payment", "event", body.Event, "payment", body.Payment.ID)
		return event, nil
	}
	if err != nil {
		return event, fmt.Errorf("resolve payment: %w", err)
	}

	return event, s.applyPaidEvent(ctx, event, payment, asaasPaidEvents[body.Event])
}

func (s *WebhookService) applyPaidEvent(ctx context.Context, event models.WebhookEvent, payment models.Payment, isPaidEvent bool) error {
	if isPaidEvent {
		err := s.Payments.MarkPaid(ctx, payment.ID, timeutil.Now())
		if err != nil && !errors.Is(err, models.ErrPaymentFinal) {
			return fmt.Errorf("mark payment %d paid: %w", payment.ID, err)
		}
		if errors.Is(err, models.ErrPaymentFinal) {
			// Provider retry of an already-settled charge; idempotent.
			s.logger().Info("paid event for settled payment", "payment", payment.ID, "event", event.EventType)
		}
	} else {
		s.logger().Info("unrecognized provider event", "provider", event.Provider, "event", event.EventType)
	}

	if err := s.Events.MarkProcessed(ctx, event.ID, payment.CompanyID, payment.ID); err != nil {
		return fmt.Errorf("mark event processed: %w", err)
	}
	return nil
}

func (s *WebhookService) archive(ctx context.Context, event models.WebhookEvent) {
	if s.Archiver == nil {
		return
	}
	key := fmt.Sprintf("%s/%s/%s.json", event.Provider, event.ReceivedAt.Format("2006/01/02"), event.ID)
	if err := s.Archiver.Archive(ctx, key, []byte(event.Payload)); err != nil {
		// Best effort: the DB row is the source of truth.
		s.logger().Warn("archive webhook payload failed", "key", key, "err", err)
	}
}
