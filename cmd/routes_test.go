package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"frotaBack/internal/handlers"
	"frotaBack/internal/models"
	"frotaBack/internal/services"
)

type noopProviderPayments struct{}

func (noopProviderPayments) FindByNossoNumero(ctx context.Context, ref string) (models.Payment, error) {
	return models.Payment{}, models.ErrPaymentNotFound
}

func (noopProviderPayments) FindByPixTxID(ctx context.Context, txid string) (models.Payment, error) {
	return models.Payment{}, models.ErrPaymentNotFound
}

func (noopProviderPayments) FindByAsaasID(ctx context.Context, id string) (models.Payment, error) {
	return models.Payment{}, models.ErrPaymentNotFound
}

func (noopProviderPayments) MarkPaid(ctx context.Context, id int, paidAt time.Time) error {
	return nil
}

type memoryEventLog struct {
	inserted int
}

func (l *memoryEventLog) Insert(ctx context.Context, e models.WebhookEvent) error {
	l.inserted++
	return nil
}

func (l *memoryEventLog) MarkProcessed(ctx context.Context, id string, companyID, paymentID int) error {
	return nil
}

func newTestApp(events *memoryEventLog) *application {
	return &application{
		webhookHandler: &handlers.WebhookHandler{
			Service: &services.WebhookService{
				Payments: noopProviderPayments{},
				Events:   events,
			},
		},
	}
}

// The app-level CORS allowlist covers the frontend routes only; provider
// preflights from any origin must reach the webhook handler's wildcard
// CORS.
func TestWebhookPreflightBypassesAppCORS(t *testing.T) {
	app := newTestApp(&memoryEventLog{})
	h := app.handler(newCORS())

	for _, path := range []string{"/inter-webhook", "/asaas-webhook"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Origin", "https://portal.bancointer.com.br")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s preflight status = %d, want 200", path, rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("%s Access-Control-Allow-Origin = %q, want *", path, got)
		}
	}
}

func TestWebhookPostFromForeignOrigin(t *testing.T) {
	events := &memoryEventLog{}
	app := newTestApp(events)
	h := app.handler(newCORS())

	req := httptest.NewRequest(http.MethodPost, "/inter-webhook", strings.NewReader(`{"evento":"WEBHOOK_TESTE"}`))
	req.Header.Set("Origin", "https://portal.bancointer.com.br")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body)
	}
	if events.inserted != 1 {
		t.Errorf("event rows = %d, want 1", events.inserted)
	}
}
