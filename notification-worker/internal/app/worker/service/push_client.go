package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2/google"

	"barbersbuddies/notification-worker/internal/app/worker/entity"
	"barbersbuddies/pkg/metrics"
)

const fcmScope = "https://www.googleapis.com/auth/firebase.messaging"

// FCMClient sends pushes through the FCM HTTP v1 API.
type FCMClient struct {
	baseURL    string
	projectID  string
	httpClient *http.Client
}

// NewFCMClient authenticates with a service-account key file.
func NewFCMClient(ctx context.Context, baseURL, credentialsFile string, timeout time.Duration) (*FCMClient, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	var key struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(credentialsJSON, &key); err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}
	if key.ProjectID == "" {
		return nil, fmt.Errorf("credentials file has no project_id")
	}

	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, fcmScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	client := jwtConfig.Client(ctx)
	client.Timeout = timeout

	return NewFCMClientWithHTTP(baseURL, key.ProjectID, client), nil
}

// NewFCMClientWithHTTP uses httpClient as is; it must attach credentials.
func NewFCMClientWithHTTP(baseURL, projectID string, httpClient *http.Client) *FCMClient {
	return &FCMClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		projectID:  projectID,
		httpClient: httpClient,
	}
}

type fcmRequest struct {
	Message fcmMessage `json:"message"`
}

type fcmMessage struct {
	Token        string            `json:"token"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (c *FCMClient) Send(ctx context.Context, msg entity.PushMessage) (err error) {
	defer func() { metrics.RecordNotification("push", err) }()

	if msg.Token == "" {
		return ErrNoRecipient
	}

	body, err := json.Marshal(fcmRequest{Message: fcmMessage{
		Token:        msg.Token,
		Notification: fcmNotification{Title: msg.Title, Body: msg.Body},
		Data:         msg.Data,
	}})
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	url := fmt.Sprintf("%s/v1/projects/%s/messages:send", c.baseURL, c.projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrPushRejected, resp.StatusCode, string(detail))
	}

	return nil
}
