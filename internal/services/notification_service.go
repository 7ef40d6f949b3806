package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"frotaBack/internal/models"
	"frotaBack/internal/timeutil"
)

// SettingsSource lists per-company reminder settings eligible for a cycle.
type SettingsSource interface {
	ListEnabled(ctx context.Context) ([]models.NotificationSettings, error)
}

type PaymentSource interface {
	ListOpenByCompany(ctx context.Context, companyID int) ([]models.Payment, error)
}

type ClientSource interface {
	GetClientByID(ctx context.Context, companyID, id int) (models.Client, error)
}

type NotificationStore interface {
	CreateIfAbsent(ctx context.Context, n models.PaymentNotification) (bool, error)
	ListDeliverable(ctx context.Context, companyID int, now time.Time, maxAttempts int) ([]models.PaymentNotification, error)
	MarkSent(ctx context.Context, id int, sentAt time.Time) error
	RecordFailure(ctx context.Context, id int, deliveryErr string, maxAttempts int, retryAt time.Time) error
	Cancel(ctx context.Context, id int) error
}

// MessageChannel is the outbound messaging gateway keyed by company instance.
type MessageChannel interface {
	Connected(ctx context.Context, instance string) bool
	SendText(ctx context.Context, instance, phone, text string) error
}

// NotificationService runs the reminder cycle: derive due reminder events
// for every open payment, create idempotent notification rows, and deliver
// the ones whose time has come.
type NotificationService struct {
	Settings      SettingsSource
	Payments      PaymentSource
	Clients       ClientSource
	Notifications NotificationStore
	Channel       MessageChannel

	// SendTimeout bounds each outbound delivery so one stuck call cannot
	// stall the whole cycle. Defaults to 10s.
	SendTimeout time.Duration

	InfoLog  *log.Logger
	ErrorLog *log.Logger
}

func (s *NotificationService) sendTimeout() time.Duration {
	if s.SendTimeout > 0 {
		return s.SendTimeout
	}
	return 10 * time.Second
}

// RunCycle processes every enabled company once. Per-record errors are
// collected in the report and never abort the run; only the initial
// settings query is a cycle-level failure.
func (s *NotificationService) RunCycle(ctx context.Context, now time.Time) (models.CycleReport, error) {
	report := models.NewCycleReport(now)

	settingsList, err := s.Settings.ListEnabled(ctx)
	if err != nil {
		return report, fmt.Errorf("list enabled settings: %w", err)
	}

	for _, st := range settingsList {
		if !s.Channel.Connected(ctx, st.WhatsAppInstance) {
			report.Skip(models.SkipChannelDisconnected)
			report.CompaniesSkipped++
			continue
		}

		payments, err := s.Payments.ListOpenByCompany(ctx, st.CompanyID)
		if err != nil {
			report.RecordError(fmt.Errorf("company %d: list payments: %w", st.CompanyID, err))
			report.CompaniesSkipped++
			continue
		}

		clients := make(map[int]models.Client)
		s.scheduleCompany(ctx, now, st, payments, clients, &report)
		s.deliverCompany(ctx, now, st, payments, clients, &report)
		report.CompaniesProcessed++
	}

	report.FinishedAt = timeutil.Now()
	return report, nil
}

func (s *NotificationService) client(ctx context.Context, companyID, clientID int, cache map[int]models.Client) (models.Client, error) {
	if c, ok := cache[clientID]; ok {
		return c, nil
	}
	c, err := s.Clients.GetClientByID(ctx, companyID, clientID)
	if err != nil {
		return models.Client{}, err
	}
	cache[clientID] = c
	return c, nil
}

func (s *NotificationService) scheduleCompany(ctx context.Context, now time.Time, st models.NotificationSettings, payments []models.Payment, clients map[int]models.Client, report *models.CycleReport) {
	for _, p := range payments {
		event, periodKey, ok, err := resolveEvent(now, p.DueDate, st)
		if err != nil {
			report.RecordError(fmt.Errorf("payment %d: %w", p.ID, err))
			continue
		}
		if !ok {
			continue
		}

		client, err := s.client(ctx, st.CompanyID, p.ClientID, clients)
		if err != nil {
			report.RecordError(fmt.Errorf("payment %d: load client: %w", p.ID, err))
			continue
		}
		// Structurally impossible delivery: no row is created, so no
		// retry budget is burnt once the phone is filled in.
		if client.Phone == "" {
			report.Skip(models.SkipClientWithoutPhone)
			continue
		}

		created, err := s.Notifications.CreateIfAbsent(ctx, models.PaymentNotification{
			CompanyID:    st.CompanyID,
			PaymentID:    p.ID,
			ClientID:     p.ClientID,
			EventType:    event,
			PeriodKey:    periodKey,
			Status:       models.NotificationStatusPending,
			ScheduledFor: scheduleAt(now, st.SendHour),
		})
		if err != nil {
			report.RecordError(fmt.Errorf("payment %d: create notification: %w", p.ID, err))
			continue
		}
		if created {
			report.Created++
		}
	}
}

func (s *NotificationService) deliverCompany(ctx context.Context, now time.Time, st models.NotificationSettings, payments []models.Payment, clients map[int]models.Client, report *models.CycleReport) {
	byID := make(map[int]models.Payment, len(payments))
	for _, p := range payments {
		byID[p.ID] = p
	}

	deliverable, err := s.Notifications.ListDeliverable(ctx, st.CompanyID, now, maxAttempts(st))
	if err != nil {
		report.RecordError(fmt.Errorf("company %d: list deliverable: %w", st.CompanyID, err))
		return
	}

	for _, n := range deliverable {
		payment, ok := byID[n.PaymentID]
		if !ok {
			// Payment went paid or cancelled since the row was created;
			// close the row so it never comes back as deliverable.
			if err := s.Notifications.Cancel(ctx, n.ID); err != nil {
				report.RecordError(fmt.Errorf("notification %d: cancel: %w", n.ID, err))
				continue
			}
			report.Cancelled++
			continue
		}
		client, err := s.client(ctx, st.CompanyID, n.ClientID, clients)
		if err != nil {
			report.RecordError(fmt.Errorf("notification %d: load client: %w", n.ID, err))
			continue
		}
		if client.Phone == "" {
			report.Skip(models.SkipClientWithoutPhone)
			continue
		}

		text := RenderTemplate(st.TemplateFor(n.EventType), payment, client)

		sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout())
		sendErr := s.Channel.SendText(sendCtx, st.WhatsAppInstance, client.Phone, text)
		cancel()

		if sendErr == nil {
			if err := s.Notifications.MarkSent(ctx, n.ID, now); err != nil {
				report.RecordError(fmt.Errorf("notification %d: mark sent: %w", n.ID, err))
				continue
			}
			report.Sent++
			continue
		}

		retryAt := now.Add(retryInterval(st))
		if err := s.Notifications.RecordFailure(ctx, n.ID, sendErr.Error(), maxAttempts(st), retryAt); err != nil {
			report.RecordError(fmt.Errorf("notification %d: record failure: %w", n.ID, err))
			continue
		}
		report.Failed++
		if s.ErrorLog != nil {
			s.ErrorLog.Printf("notification %d delivery failed (attempt %d): %v", n.ID, n.Attempts+1, sendErr)
		}
	}
}

func maxAttempts(st models.NotificationSettings) int {
	if st.MaxAttempts > 0 {
		return st.MaxAttempts
	}
	return 3
}

func retryInterval(st models.NotificationSettings) time.Duration {
	if st.RetryIntervalHours > 0 {
		return time.Duration(st.RetryIntervalHours) * time.Hour
	}
	return time.Hour
}

// scheduleAt places a new notification at the company send hour of the
// current civil day, or immediately when that hour has already passed.
func scheduleAt(now time.Time, sendHour int) time.Time {
	day := timeutil.CivilDate(now)
	at := day.Add(time.Duration(sendHour) * time.Hour)
	if at.Before(now) {
		return now
	}
	return at
}

// resolveEvent derives the reminder event and its de-duplication period key
// for a payment at the given instant. ok is false when no reminder applies.
//
// Period keys: pre-due fires once per configured offset; on-due repeats up
// to the configured count at the configured interval within the due day;
// post-due repeats every configured number of hours after the due date.
func resolveEvent(now time.Time, dueDate string, st models.NotificationSettings) (models.NotificationEvent, string, bool, error) {
	due, err := time.ParseInLocation("2006-01-02", dueDate, timeutil.Location())
	if err != nil {
		return "", "", false, fmt.Errorf("%w: %q", models.ErrInvalidDate, dueDate)
	}
	days := timeutil.DaysBetween(now, due)

	switch {
	case days > 0:
		for _, offset := range st.PreDueDays {
			if days == offset {
				return models.NotificationEventPreDue, fmt.Sprintf("pre:%s-%d", dueDate, offset), true, nil
			}
		}
		return "", "", false, nil

	case days == 0:
		repeat := st.OnDueRepeatCount
		if repeat <= 0 {
			repeat = 1
		}
		occurrence := 0
		if st.OnDueIntervalHours > 0 {
			elapsed := now.Sub(scheduleAt(timeutil.CivilDate(now), st.SendHour))
			if elapsed > 0 {
				occurrence = int(elapsed.Hours()) / st.OnDueIntervalHours
			}
		}
		if occurrence >= repeat {
			return "", "", false, nil
		}
		return models.NotificationEventOnDue, fmt.Sprintf("on:%s#%d", dueDate, occurrence), true, nil

	default:
		interval := st.PostDueIntervalHours
		if interval <= 0 {
			interval = 24
		}
		overdue := now.Sub(timeutil.CivilDate(due).Add(24 * time.Hour))
		if overdue < 0 {
			overdue = 0
		}
		period := int(overdue.Hours()) / interval
		return models.NotificationEventPostDue, fmt.Sprintf("post:%s#%d", dueDate, period), true, nil
	}
}
