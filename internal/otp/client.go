package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/medicore/hms-api/pkg/errors"
	"github.com/medicore/hms-api/pkg/metrics"
)

// Sender abstracts the external one-time-passcode gateway
type Sender interface {
	Send(ctx context.Context, phone string) error
	Verify(ctx context.Context, phone, code string) error
}

type Config struct {
	BaseURL       string
	CountryPrefix string
	Timeout       time.Duration
	APIKey        string
}

type Client struct {
	cfg     Config
	http    *http.Client
	metrics *metrics.Metrics
}

func NewClient(cfg Config, m *metrics.Metrics) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CountryPrefix == "" {
		cfg.CountryPrefix = "+91"
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		metrics: m,
	}
}

type gatewayResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// NormalizePhone prefixes a bare 10-digit number with the configured
// country code; already-prefixed numbers pass through.
func (c *Client) NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return c.cfg.CountryPrefix + phone
}

func (c *Client) Send(ctx context.Context, phone string) error {
	err := c.post(ctx, "/api/send-otp", map[string]string{
		"phone": c.NormalizePhone(phone),
	})
	c.observe("send", err)
	return err
}

func (c *Client) Verify(ctx context.Context, phone, code string) error {
	err := c.post(ctx, "/api/verify-otp", map[string]string{
		"phone": c.NormalizePhone(phone),
		"otp":   code,
	})
	c.observe("verify", err)
	return err
}

func (c *Client) observe(operation string, err error) {
	if c.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.metrics.OTPRequests.WithLabelValues(operation, outcome).Inc()
}

func (c *Client) post(ctx context.Context, path string, body map[string]string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal otp request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build otp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.RemoteCall("otp gateway", err)
	}
	defer resp.Body.Close()

	var gw gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&gw); err != nil {
		return apperrors.RemoteCall("otp gateway", fmt.Errorf("failed to decode response: %w", err))
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return apperrors.RemoteCall("otp gateway", fmt.Errorf("status %d: %s", resp.StatusCode, gw.Error))
	}

	if !gw.Success {
		msg := gw.Error
		if msg == "" {
			msg = "verification failed"
		}
		return apperrors.Validation(msg, nil)
	}
	return nil
}
