package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barbersbuddies/notification-worker/internal/app/worker/entity"
)

func TestPushSend_Success(t *testing.T) {
	var received fcmRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/projects/barbersbuddies-app/messages:send", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"name":"projects/barbersbuddies-app/messages/1"}`))
	}))
	defer server.Close()

	client := NewFCMClientWithHTTP(server.URL+"/", "barbersbuddies-app", server.Client())

	err := client.Send(context.Background(), entity.PushMessage{
		Token: "device-token",
		Title: "New message from Fade Factory",
		Body:  "See you soon",
		Data:  map[string]string{"bookingId": "b1"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "device-token", received.Message.Token)
	assert.Equal(t, "New message from Fade Factory", received.Message.Notification.Title)
	assert.Equal(t, "See you soon", received.Message.Notification.Body)
	assert.Equal(t, "b1", received.Message.Data["bookingId"])
}

func TestPushSend_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"status":"UNREGISTERED"}}`))
	}))
	defer server.Close()

	client := NewFCMClientWithHTTP(server.URL, "p", server.Client())

	err := client.Send(context.Background(), entity.PushMessage{Token: "stale"})

	assert.ErrorIs(t, err, ErrPushRejected)
	assert.Contains(t, err.Error(), "UNREGISTERED")
}

func TestPushSend_NoToken(t *testing.T) {
	client := NewFCMClientWithHTTP("http://unused.invalid", "p", http.DefaultClient)

	assert.ErrorIs(t, client.Send(context.Background(), entity.PushMessage{Title: "x"}), ErrNoRecipient)
}

func TestNewFCMClient_MissingFile(t *testing.T) {
	_, err := NewFCMClient(context.Background(), "https://fcm.googleapis.com", filepath.Join(t.TempDir(), "missing.json"), time.Second)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unable to read credentials file")
}

func TestNewFCMClient_NoProjectID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"service_account"}`), 0o600))

	_, err := NewFCMClient(context.Background(), "https://fcm.googleapis.com", path, time.Second)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "project_id")
}
