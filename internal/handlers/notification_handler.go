package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"frotaBack/internal/repositories"
	"frotaBack/internal/services"
	"frotaBack/internal/timeutil"
)

type NotificationHandler struct {
	Service          *services.NotificationService
	NotificationRepo *repositories.PaymentNotificationRepository
	InfoLog          *log.Logger
}

func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.NotificationRepo.ListByCompany(r.Context(), companyID(r))
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(notifications)
}

// RunCycle triggers one scheduler pass on demand. Admin only; the periodic
// runner calls the same service.
func (h *NotificationHandler) RunCycle(w http.ResponseWriter, r *http.Request) {
	if h.InfoLog != nil {
		h.InfoLog.Printf("notification cycle triggered manually by user %d", userID(r))
	}
	report, err := h.Service.RunCycle(r.Context(), timeutil.Now())
	if err != nil {
		http.Error(w, "Cycle failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(report)
}
