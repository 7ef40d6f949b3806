package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"frotaBack/internal/models"
	"frotaBack/internal/timeutil"
)

type stubSettings struct {
	list []models.NotificationSettings
}

func (s *stubSettings) ListEnabled(ctx context.Context) ([]models.NotificationSettings, error) {
	return s.list, nil
}

type stubPayments struct {
	byCompany map[int][]models.Payment
}

func (s *stubPayments) ListOpenByCompany(ctx context.Context, companyID int) ([]models.Payment, error) {
	return s.byCompany[companyID], nil
}

type stubClients struct {
	clients map[int]models.Client
}

func (s *stubClients) GetClientByID(ctx context.Context, companyID, id int) (models.Client, error) {
	c, ok := s.clients[id]
	if !ok {
		return models.Client{}, models.ErrClientNotFound
	}
	return c, nil
}

type stubNotifications struct {
	rows   map[string]*models.PaymentNotification
	nextID int
}

func newStubNotifications() *stubNotifications {
	return &stubNotifications{rows: make(map[string]*models.PaymentNotification)}
}

func (s *stubNotifications) key(paymentID int, event models.NotificationEvent, period string) string {
	return fmt.Sprintf("%d|%s|%s", paymentID, event, period)
}

func (s *stubNotifications) CreateIfAbsent(ctx context.Context, n models.PaymentNotification) (bool, error) {
	k := s.key(n.PaymentID, n.EventType, n.PeriodKey)
	if _, ok := s.rows[k]; ok {
		return false, nil
	}
	s.nextID++
	n.ID = s.nextID
	n.Status = models.NotificationStatusPending
	s.rows[k] = &n
	return true, nil
}

func (s *stubNotifications) ListDeliverable(ctx context.Context, companyID int, now time.Time, maxAttempts int) ([]models.PaymentNotification, error) {
	var list []models.PaymentNotification
	for _, n := range s.rows {
		if n.CompanyID == companyID && n.Status == models.NotificationStatusPending &&
			!n.ScheduledFor.After(now) && n.Attempts < maxAttempts {
			list = append(list, *n)
		}
	}
	return list, nil
}

func (s *stubNotifications) byID(id int) *models.PaymentNotification {
	for _, n := range s.rows {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (s *stubNotifications) MarkSent(ctx context.Context, id int, sentAt time.Time) error {
	n := s.byID(id)
	if n == nil || n.Status != models.NotificationStatusPending {
		return models.ErrNotificationFinal
	}
	n.Status = models.NotificationStatusSent
	n.SentAt = &sentAt
	n.Attempts++
	return nil
}

func (s *stubNotifications) RecordFailure(ctx context.Context, id int, deliveryErr string, maxAttempts int, retryAt time.Time) error {
	n := s.byID(id)
	if n == nil || n.Status != models.NotificationStatusPending {
		return models.ErrNotificationFinal
	}
	n.Attempts++
	n.LastError = deliveryErr
	n.ScheduledFor = retryAt
	if n.Attempts >= maxAttempts {
		n.Status = models.NotificationStatusFailed
	}
	return nil
}

func (s *stubNotifications) Cancel(ctx context.Context, id int) error {
	n := s.byID(id)
	if n != nil && n.Status == models.NotificationStatusPending {
		n.Status = models.NotificationStatusCancelled
	}
	return nil
}

type sentMessage struct {
	instance string
	phone    string
	text     string
}

type stubChannel struct {
	disconnected bool
	sendErr      error
	sent         []sentMessage
}

func (c *stubChannel) Connected(ctx context.Context, instance string) bool {
	return !c.disconnected
}

func (c *stubChannel) SendText(ctx context.Context, instance, phone, text string) error {
	c.sent = append(c.sent, sentMessage{instance, phone, text})
	return c.sendErr
}

func testSettings() models.NotificationSettings {
	return models.NotificationSettings{
		ID:                   1,
		CompanyID:            1,
		Enabled:              true,
		SendHour:             9,
		PreDueDays:           []int{3, 1},
		OnDueRepeatCount:     2,
		OnDueIntervalHours:   4,
		PostDueIntervalHours: 48,
		MaxAttempts:          3,
		RetryIntervalHours:   2,
		PreDueTemplate:       "Olá {nome}, {descricao} de {valor} vence em {vencimento}.",
		OnDueTemplate:        "Olá {nome}, {descricao} vence hoje.",
		PostDueTemplate:      "Olá {nome}, {descricao} está em atraso.",
		WhatsAppInstance:     "acme",
	}
}

func newTestService(settings models.NotificationSettings, payments []models.Payment, clients map[int]models.Client, channel *stubChannel) (*NotificationService, *stubNotifications) {
	store := newStubNotifications()
	svc := &NotificationService{
		Settings:      &stubSettings{list: []models.NotificationSettings{settings}},
		Payments:      &stubPayments{byCompany: map[int][]models.Payment{settings.CompanyID: payments}},
		Clients:       &stubClients{clients: clients},
		Notifications: store,
		Channel:       channel,
	}
	return svc, store
}

var cycleNow = time.Date(2026, 4, 15, 10, 0, 0, 0, timeutil.Location())

func preDuePayment() models.Payment {
	return models.Payment{
		ID:          42,
		CompanyID:   1,
		ClientID:    7,
		Description: "Mensalidade frota",
		Amount:      1234.56,
		Status:      models.PaymentStatusPending,
		DueDate:     "2026-04-18",
		PaymentURL:  "https://pay.example/42",
	}
}

func testClient() map[int]models.Client {
	return map[int]models.Client{7: {ID: 7, CompanyID: 1, Name: "João", Phone: "5511999990000"}}
}

func TestRunCycleCreatesAndDelivers(t *testing.T) {
	channel := &stubChannel{}
	svc, store := newTestService(testSettings(), []models.Payment{preDuePayment()}, testClient(), channel)

	report, err := svc.RunCycle(context.Background(), cycleNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Created != 1 {
		t.Errorf("expected 1 created, got %d", report.Created)
	}
	if report.Sent != 1 {
		t.Errorf("expected 1 sent, got %d", report.Sent)
	}
	if len(channel.sent) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(channel.sent))
	}
	msg := channel.sent[0]
	if msg.instance != "acme" || msg.phone != "5511999990000" {
		t.Errorf("wrong delivery target: %+v", msg)
	}
	if !strings.Contains(msg.text, "João") || !strings.Contains(msg.text, "R$ 1.234,56") || !strings.Contains(msg.text, "18/04/2026") {
		t.Errorf("template not rendered: %q", msg.text)
	}

	n := store.byID(1)
	if n == nil || n.Status != models.NotificationStatusSent {
		t.Fatalf("expected sent notification, got %+v", n)
	}
	if n.SentAt == nil {
		t.Error("sent_at not recorded")
	}
	if n.EventType != models.NotificationEventPreDue {
		t.Errorf("expected pre_due event, got %s", n.EventType)
	}
}

func TestRunCycleIdempotentWithinPeriod(t *testing.T) {
	channel := &stubChannel{}
	svc, store := newTestService(testSettings(), []models.Payment{preDuePayment()}, testClient(), channel)

	first, err := svc.RunCycle(context.Background(), cycleNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.RunCycle(context.Background(), cycleNow.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Created != 1 || second.Created != 0 {
		t.Errorf("expected 1 then 0 created, got %d then %d", first.Created, second.Created)
	}
	if len(store.rows) != 1 {
		t.Errorf("expected a single notification row, got %d", len(store.rows))
	}
	if second.Sent != 0 {
		t.Errorf("sent notification must not be delivered again, got %d", second.Sent)
	}
	if len(channel.sent) != 1 {
		t.Errorf("expected exactly 1 delivery, got %d", len(channel.sent))
	}
}

func TestRunCycleRetryBound(t *testing.T) {
	channel := &stubChannel{sendErr: errors.New("gateway returned 503")}
	svc, store := newTestService(testSettings(), []models.Payment{preDuePayment()}, testClient(), channel)

	now := cycleNow
	for i := 0; i < 5; i++ {
		if _, err := svc.RunCycle(context.Background(), now); err != nil {
			t.Fatalf("cycle %d: unexpected error: %v", i, err)
		}
		now = now.Add(3 * time.Hour)
	}

	if len(channel.sent) != 3 {
		t.Errorf("expected exactly max_attempts=3 deliveries, got %d", len(channel.sent))
	}
	n := store.byID(1)
	if n == nil {
		t.Fatal("notification row missing")
	}
	if n.Attempts != 3 {
		t.Errorf("attempts must stop at max, got %d", n.Attempts)
	}
	if n.Status != models.NotificationStatusFailed {
		t.Errorf("expected failed status, got %s", n.Status)
	}
	if !strings.Contains(n.LastError, "503") {
		t.Errorf("last error not recorded: %q", n.LastError)
	}
}

func TestRunCycleCancelsRowsForSettledPayments(t *testing.T) {
	channel := &stubChannel{sendErr: errors.New("gateway returned 503")}
	svc, store := newTestService(testSettings(), []models.Payment{preDuePayment()}, testClient(), channel)

	// First cycle creates the row; delivery fails, so it stays pending
	// with a retry scheduled.
	if _, err := svc.RunCycle(context.Background(), cycleNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The payment settles before the retry: it no longer lists as open.
	svc.Payments = &stubPayments{byCompany: map[int][]models.Payment{1: nil}}
	channel.sendErr = nil

	report, err := svc.RunCycle(context.Background(), cycleNow.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Cancelled != 1 {
		t.Errorf("expected 1 cancelled, got %d", report.Cancelled)
	}
	n := store.byID(1)
	if n == nil || n.Status != models.NotificationStatusCancelled {
		t.Fatalf("expected cancelled row, got %+v", n)
	}
	if len(channel.sent) != 1 {
		t.Errorf("settled payment must not be delivered, got %d sends", len(channel.sent))
	}

	// Cancelled rows never come back as deliverable.
	later, err := svc.RunCycle(context.Background(), cycleNow.Add(6*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if later.Cancelled != 0 || len(channel.sent) != 1 {
		t.Errorf("cancelled row resurfaced: cancelled=%d sends=%d", later.Cancelled, len(channel.sent))
	}
}

func TestRunCycleSkipsClientWithoutPhone(t *testing.T) {
	channel := &stubChannel{}
	clients := map[int]models.Client{7: {ID: 7, CompanyID: 1, Name: "João"}}
	svc, store := newTestService(testSettings(), []models.Payment{preDuePayment()}, clients, channel)

	report, err := svc.RunCycle(context.Background(), cycleNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.rows) != 0 {
		t.Errorf("no row may be created for a client without phone, got %d", len(store.rows))
	}
	if report.Skipped[models.SkipClientWithoutPhone] == 0 {
		t.Error("skip reason not recorded")
	}
	if len(channel.sent) != 0 {
		t.Errorf("nothing may be delivered, got %d", len(channel.sent))
	}
}

func TestRunCycleSkipsDisconnectedChannel(t *testing.T) {
	channel := &stubChannel{disconnected: true}
	svc, store := newTestService(testSettings(), []models.Payment{preDuePayment()}, testClient(), channel)

	report, err := svc.RunCycle(context.Background(), cycleNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.CompaniesSkipped != 1 {
		t.Errorf("expected 1 skipped company, got %d", report.CompaniesSkipped)
	}
	if report.Skipped[models.SkipChannelDisconnected] != 1 {
		t.Error("skip reason not recorded")
	}
	if len(store.rows) != 0 || len(channel.sent) != 0 {
		t.Error("disconnected channel must not create or deliver anything")
	}
}

func TestResolveEvent(t *testing.T) {
	st := testSettings()
	loc := timeutil.Location()

	cases := []struct {
		name       string
		now        time.Time
		dueDate    string
		wantEvent  models.NotificationEvent
		wantPeriod string
		wantOK     bool
	}{
		{"pre due at configured offset", cycleNow, "2026-04-18", models.NotificationEventPreDue, "pre:2026-04-18-3", true},
		{"pre due one day before", cycleNow, "2026-04-16", models.NotificationEventPreDue, "pre:2026-04-16-1", true},
		{"no pre due for unconfigured offset", cycleNow, "2026-04-20", "", "", false},
		{"on due first occurrence", cycleNow, "2026-04-15", models.NotificationEventOnDue, "on:2026-04-15#0", true},
		{"on due second occurrence", time.Date(2026, 4, 15, 13, 30, 0, 0, loc), "2026-04-15", models.NotificationEventOnDue, "on:2026-04-15#1", true},
		{"on due occurrences exhausted", time.Date(2026, 4, 15, 18, 0, 0, 0, loc), "2026-04-15", "", "", false},
		{"post due first interval", cycleNow, "2026-04-14", models.NotificationEventPostDue, "post:2026-04-14#0", true},
		{"post due later interval", time.Date(2026, 4, 19, 10, 0, 0, 0, loc), "2026-04-14", models.NotificationEventPostDue, "post:2026-04-14#2", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			event, period, ok, err := resolveEvent(tc.now, tc.dueDate, st)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tc.wantOK {
				t.Fatalf("ok mismatch: want %v got %v", tc.wantOK, ok)
			}
			if event != tc.wantEvent || period != tc.wantPeriod {
				t.Errorf("got (%s, %s), want (%s, %s)", event, period, tc.wantEvent, tc.wantPeriod)
			}
		})
	}
}

func TestResolveEventInvalidDate(t *testing.T) {
	_, _, _, err := resolveEvent(cycleNow, "not-a-date", testSettings())
	if !errors.Is(err, models.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
