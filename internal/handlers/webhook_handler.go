package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"frotaBack/internal/models"
	"frotaBack/internal/repositories"
	"frotaBack/internal/services"
)

// WebhookHandler exposes the provider callback endpoints. These routes are
// unauthenticated and carry their own wildcard CORS headers; once the
// payload is logged the response is 2xx so the provider stops retrying.
type WebhookHandler struct {
	Service   *services.WebhookService
	EventRepo *repositories.WebhookEventRepository
	ErrorLog  *log.Logger
}

type webhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func webhookCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
}

func (h *WebhookHandler) InterWebhook(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.Service.ProcessInterEvent)
}

func (h *WebhookHandler) AsaasWebhook(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.Service.ProcessAsaasEvent)
}

func (h *WebhookHandler) handle(w http.ResponseWriter, r *http.Request, process func(context.Context, []byte) (models.WebhookEvent, error)) {
	webhookCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.respond(w, http.StatusBadRequest, webhookResponse{Success: false, Error: "failed to read body"})
		return
	}

	event, err := process(r.Context(), payload)
	if err != nil {
		if h.ErrorLog != nil {
			h.ErrorLog.Printf("webhook %s: %v", event.Provider, err)
		}
		h.respond(w, http.StatusBadRequest, webhookResponse{Success: false, Error: err.Error()})
		return
	}

	h.respond(w, http.StatusOK, webhookResponse{Success: true, Message: "evento registrado"})
}

// ListEvents returns the tenant's received provider events, newest first.
// Unlike the callback routes this one sits behind auth.
func (h *WebhookHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.EventRepo.ListByCompany(r.Context(), companyID(r))
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(events)
}

func (h *WebhookHandler) respond(w http.ResponseWriter, status int, body webhookResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
