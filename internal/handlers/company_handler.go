package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"frotaBack/internal/models"
	"frotaBack/internal/repositories"
)

type CompanyHandler struct {
	Repo *repositories.CompanyRepository
}

// GetCompany returns the signed-in tenant's own company profile.
func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.Repo.GetCompanyByID(r.Context(), companyID(r))
	if errors.Is(err, models.ErrCompanyNotFound) {
		http.Error(w, "Company not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(company)
}
