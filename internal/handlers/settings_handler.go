package handlers

import (
	"encoding/json"
	"net/http"

	"frotaBack/internal/models"
	"frotaBack/internal/services"
)

type SettingsHandler struct {
	Service *services.SettingsService
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Service.GetByCompany(r.Context(), companyID(r))
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(settings)
}

func (h *SettingsHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.NotificationSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	settings.CompanyID = companyID(r)
	saved, err := h.Service.Save(r.Context(), settings)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(saved)
}
