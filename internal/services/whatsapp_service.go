package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

type WhatsAppConfig struct {
	// BaseURL of the Evolution-style gateway, e.g. http://gateway:8080
	BaseURL string
	APIKey  string

	Client *http.Client
	Logger *slog.Logger
}

// WhatsAppService talks to the connection-oriented messaging gateway. Each
// company owns one instance on the gateway; the instance must report state
// "open" before any send is attempted.
type WhatsAppService struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewWhatsAppService(cfg WhatsAppConfig) (*WhatsAppService, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("whatsapp: base_url is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &WhatsAppService{
		baseURL:    u,
		apiKey:     cfg.APIKey,
		httpClient: client,
		logger:     logger,
	}, nil
}

func (s *WhatsAppService) endpoint(parts ...string) string {
	u := *s.baseURL
	u.Path = path.Join(append([]string{u.Path}, parts...)...)
	return u.String()
}

// ConnectionState returns the gateway state for an instance ("open" means
// connected and able to deliver).
func (s *WhatsAppService) ConnectionState(ctx context.Context, instance string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint("instance", "connectionState", instance), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("apikey", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("connection state: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("connection state: gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out struct {
		Instance struct {
			State string `json:"state"`
		} `json:"instance"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("connection state: decode: %w", err)
	}
	return out.Instance.State, nil
}

// Connected reports whether the instance can deliver messages right now.
func (s *WhatsAppService) Connected(ctx context.Context, instance string) bool {
	state, err := s.ConnectionState(ctx, instance)
	if err != nil {
		s.logger.Warn("whatsapp connection check failed", "instance", instance, "err", err)
		return false
	}
	return state == "open"
}

// SendText delivers one text message. Non-2xx responses come back as errors
// carrying the gateway message so the scheduler can record them on the
// notification row and retry.
func (s *WhatsAppService) SendText(ctx context.Context, instance, phone, text string) error {
	payload, err := json.Marshal(map[string]any{
		"number": phone,
		"text":   text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint("message", "sendText", instance), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send text: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return fmt.Errorf("send text: gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
