package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"barbersbuddies/pkg/domain"
)

func TestWindowFor(t *testing.T) {
	tests := []struct {
		hours  float64
		window ReminderWindow
		ok     bool
	}{
		{0, "", false},
		{0.5, WindowOneHour, true},
		{1, WindowOneHour, true},
		{1.01, "", false},
		{23, "", false},
		{23.5, WindowOneDay, true},
		{24.0, WindowOneDay, true},
		{24.01, "", false},
		{72, WindowThreeDays, true},
		{71, "", false},
		{168, WindowOneWeek, true},
		{167.2, WindowOneWeek, true},
		{-3, "", false},
	}

	for _, tt := range tests {
		window, ok := WindowFor(tt.hours)
		assert.Equal(t, tt.ok, ok, "hours=%v", tt.hours)
		assert.Equal(t, tt.window, window, "hours=%v", tt.hours)
	}
}

func TestReminderWindow_EnabledIn(t *testing.T) {
	pref := domain.NotificationPreference{Enabled: true, OneDay: true}

	assert.True(t, WindowOneDay.EnabledIn(pref))
	assert.False(t, WindowOneHour.EnabledIn(pref))

	pref.Enabled = false
	assert.False(t, WindowOneDay.EnabledIn(pref))
}

func TestReminderWindow_Label(t *testing.T) {
	assert.Equal(t, "24 hours", WindowOneDay.Label())
	assert.Equal(t, "1 week", WindowOneWeek.Label())
}

func TestNewReminderClaim(t *testing.T) {
	booking := &domain.Booking{ID: "b1", SelectedDate: "2026-11-02", SelectedTime: "10:00"}

	claim := NewReminderClaim(booking, WindowOneDay)

	assert.Equal(t, ReminderClaim{BookingID: "b1", Appointment: "2026-11-02T10:00", Window: WindowOneDay}, claim)

	booking.SelectedDate = "2026-11-04"
	assert.NotEqual(t, claim, NewReminderClaim(booking, WindowOneDay))
}
