package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWhatsAppConnectionState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/instance/connectionState/acme" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("apikey") != "secret" {
			t.Errorf("missing apikey header")
		}
		json.NewEncoder(w).Encode(map[string]any{"instance": map[string]any{"state": "open"}})
	}))
	defer srv.Close()

	svc, err := NewWhatsAppService(WhatsAppConfig{BaseURL: srv.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state, err := svc.ConnectionState(context.Background(), "acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != "open" {
		t.Errorf("expected open, got %q", state)
	}
	if !svc.Connected(context.Background(), "acme") {
		t.Error("expected connected")
	}
}

func TestWhatsAppSendText(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/message/sendText/acme" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	svc, err := NewWhatsAppService(WhatsAppConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.SendText(context.Background(), "acme", "5511999990000", "olá"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody["number"] != "5511999990000" || gotBody["text"] != "olá" {
		t.Errorf("unexpected body: %+v", gotBody)
	}
}

func TestWhatsAppSendTextGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"instance offline"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc, _ := NewWhatsAppService(WhatsAppConfig{BaseURL: srv.URL})
	err := svc.SendText(context.Background(), "acme", "5511999990000", "olá")
	if err == nil {
		t.Fatal("expected error on 503")
	}
}

func TestWhatsAppRequiresBaseURL(t *testing.T) {
	if _, err := NewWhatsAppService(WhatsAppConfig{}); err == nil {
		t.Fatal("expected error for empty base url")
	}
}
