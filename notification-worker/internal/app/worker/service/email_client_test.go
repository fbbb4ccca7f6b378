package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barbersbuddies/notification-worker/internal/app/worker/entity"
)

func TestEmailSend_Success(t *testing.T) {
	var received emailRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewEmailAPIClient(server.URL, "key-123", "bookings@barbersbuddies.com", 5*time.Second)

	err := client.Send(context.Background(), entity.Email{
		To:      "ann@example.com",
		Subject: "Hello",
		HTML:    "<p>hi</p>",
	})

	assert.NoError(t, err)
	assert.Equal(t, "bookings@barbersbuddies.com", received.From)
	assert.Equal(t, []string{"ann@example.com"}, received.To)
	assert.Equal(t, "Hello", received.Subject)
	assert.Equal(t, "<p>hi</p>", received.HTML)
}

func TestEmailSend_NoAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewEmailAPIClient(server.URL, "", "from@example.com", 5*time.Second)

	assert.NoError(t, client.Send(context.Background(), entity.Email{To: "ann@example.com"}))
}

func TestEmailSend_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"invalid recipient"}`))
	}))
	defer server.Close()

	client := NewEmailAPIClient(server.URL, "k", "from@example.com", 5*time.Second)

	err := client.Send(context.Background(), entity.Email{To: "ann@example.com"})

	assert.ErrorIs(t, err, ErrEmailRejected)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "invalid recipient")
}

func TestEmailSend_NoRecipient(t *testing.T) {
	client := NewEmailAPIClient("http://unused.invalid", "k", "from@example.com", time.Second)

	err := client.Send(context.Background(), entity.Email{Subject: "x"})

	assert.ErrorIs(t, err, ErrNoRecipient)
}

func TestEmailSend_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewEmailAPIClient(server.URL, "k", "from@example.com", 50*time.Millisecond)

	err := client.Send(context.Background(), entity.Email{To: "ann@example.com"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute request")
}
