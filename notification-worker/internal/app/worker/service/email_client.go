package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"barbersbuddies/notification-worker/internal/app/worker/entity"
	"barbersbuddies/pkg/metrics"
)

// EmailAPIClient sends mail through a transactional email HTTP API that
// accepts {from, to, subject, html}.
type EmailAPIClient struct {
	apiURL     string
	apiKey     string
	from       string
	httpClient *http.Client
}

func NewEmailAPIClient(apiURL, apiKey, from string, timeout time.Duration) *EmailAPIClient {
	return &EmailAPIClient{
		apiURL: apiURL,
		apiKey: apiKey,
		from:   from,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (c *EmailAPIClient) Send(ctx context.Context, email entity.Email) (err error) {
	defer func() { metrics.RecordNotification("email", err) }()

	if email.To == "" {
		return ErrNoRecipient
	}

	body, err := json.Marshal(emailRequest{
		From:    c.from,
		To:      []string{email.To},
		Subject: email.Subject,
		HTML:    email.HTML,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrEmailRejected, resp.StatusCode, string(detail))
	}

	return nil
}
