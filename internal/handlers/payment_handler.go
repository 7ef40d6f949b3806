package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"frotaBack/internal/models"
	"frotaBack/internal/services"
	"frotaBack/internal/timeutil"
)

type PaymentHandler struct {
	Service *services.PaymentService
}

func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var payment models.Payment
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	payment.CompanyID = companyID(r)
	created, err := h.Service.CreatePayment(r.Context(), payment)
	if err != nil {
		if errors.Is(err, models.ErrInvalidDate) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to create", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(created)
}

func (h *PaymentHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Service.GetPayments(r.Context(), companyID(r))
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(payments)
}

func (h *PaymentHandler) GetPaymentByID(w http.ResponseWriter, r *http.Request) {
	payment, err := h.Service.GetPaymentByID(r.Context(), companyID(r), paramInt(r, "id"))
	if err != nil {
		http.Error(w, "Payment not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(payment)
}

func (h *PaymentHandler) GetFilteredPayments(w http.ResponseWriter, r *http.Request) {
	var filter models.PaymentFilter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	payments, err := h.Service.GetFilteredPayments(r.Context(), companyID(r), filter)
	if err != nil {
		if errors.Is(err, models.ErrInvalidFilter) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(payments)
}

func (h *PaymentHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context(), companyID(r), timeutil.Now())
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(summary)
}

func (h *PaymentHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var payment models.Payment
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	payment.ID = paramInt(r, "id")
	payment.CompanyID = companyID(r)
	updated, err := h.Service.UpdatePayment(r.Context(), payment)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrPaymentNotFound):
			http.Error(w, "Payment not found", http.StatusNotFound)
		case errors.Is(err, models.ErrPaymentFinal):
			http.Error(w, "Payment is paid or cancelled", http.StatusConflict)
		case errors.Is(err, models.ErrInvalidDate):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Failed to update", http.StatusInternalServerError)
		}
		return
	}
	json.NewEncoder(w).Encode(updated)
}

func (h *PaymentHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeletePayment(r.Context(), companyID(r), paramInt(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrPaymentNotFound) {
			http.Error(w, "Payment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
