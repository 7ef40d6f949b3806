package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"frotaBack/internal/models"
	"frotaBack/internal/services"
)

type ClientHandler struct {
	Service *services.ClientService
}

func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	client.CompanyID = companyID(r)
	created, err := h.Service.CreateClient(r.Context(), client)
	if err != nil {
		http.Error(w, "Failed to create", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(created)
}

func (h *ClientHandler) GetClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Service.GetClients(r.Context(), companyID(r))
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(clients)
}

func (h *ClientHandler) GetClientByID(w http.ResponseWriter, r *http.Request) {
	client, err := h.Service.GetClientByID(r.Context(), companyID(r), paramInt(r, "id"))
	if err != nil {
		http.Error(w, "Client not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(client)
}

func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	client.ID = paramInt(r, "id")
	client.CompanyID = companyID(r)
	updated, err := h.Service.UpdateClient(r.Context(), client)
	if err != nil {
		if errors.Is(err, models.ErrClientNotFound) {
			http.Error(w, "Client not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(updated)
}

func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteClient(r.Context(), companyID(r), paramInt(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrClientNotFound) {
			http.Error(w, "Client not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
