package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestInitWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("logger-test", "warn", &buf)

	Info().Msg("hidden")
	assert.Empty(t, buf.String())

	Warn().Str("booking_id", "b1").Msg("shown")
	entry := lastLine(t, &buf)
	assert.Equal(t, "logger-test", entry["service"])
	assert.Equal(t, "b1", entry["booking_id"])
	assert.Equal(t, "warn", entry["level"])
}

func TestInitWithWriter_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("logger-test", "loud", &buf)

	Debug().Msg("hidden")
	Info().Msg("shown")

	assert.Equal(t, "shown", lastLine(t, &buf)["message"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestPrintf(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("logger-test", "info", &buf)

	Printf{Component: "cron"}.Printf("start %d jobs", 2)

	entry := lastLine(t, &buf)
	assert.Equal(t, "cron", entry["component"])
	assert.Equal(t, "start 2 jobs", entry["message"])
}

func TestGinLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	InitWithWriter("logger-test", "info", &buf)

	router := gin.New()
	router.Use(GinLoggerMiddleware())
	router.POST("/cancelBooking", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	})

	t.Run("propagates request id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodPost, "/cancelBooking", nil)
		req.Header.Set("X-Request-ID", "req-42")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
		entry := lastLine(t, &buf)
		assert.Equal(t, "req-42", entry["request_id"])
		assert.Equal(t, float64(http.StatusNotFound), entry["status"])
		assert.Equal(t, "warn", entry["level"])
	})

	t.Run("generates request id", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()

		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cancelBooking", nil))

		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
}
