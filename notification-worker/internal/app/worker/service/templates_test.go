package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barbersbuddies/notification-worker/internal/app/worker/entity"
	"barbersbuddies/pkg/domain"
)

func sampleBooking() *domain.Booking {
	return &domain.Booking{
		ID:           "b1",
		ShopID:       "s1",
		ShopEmail:    "shop@fadefactory.com",
		ShopName:     "Fade Factory",
		UserID:       "u1",
		UserName:     "Ann",
		UserEmail:    "ann@example.com",
		SelectedDate: "2026-11-02",
		SelectedTime: "10:00",
		SelectedServices: []domain.Service{
			{Name: "Cut", Price: 25},
			{Name: "Beard", Price: 15},
		},
		TotalPrice: 40,
		Status:     domain.StatusPending,
	}
}

func TestBookingCreatedEmails(t *testing.T) {
	emails, err := bookingCreatedEmails(sampleBooking())

	require.NoError(t, err)
	require.Len(t, emails, 2)

	assert.Equal(t, "shop@fadefactory.com", emails[0].To)
	assert.Equal(t, "New Booking: Ann", emails[0].Subject)
	assert.Equal(t, "ann@example.com", emails[1].To)
	assert.Equal(t, "Booking Confirmation - Fade Factory", emails[1].Subject)

	for _, e := range emails {
		assert.Contains(t, e.HTML, "$40.00")
		assert.Contains(t, e.HTML, "Cut ($25.00)")
		assert.Contains(t, e.HTML, "2026-11-02")
	}
}

func TestBookingRescheduledEmails_ShowsBothSlots(t *testing.T) {
	b := sampleBooking()
	b.PreviousDate, b.PreviousTime = "2026-11-01", "09:00"
	b.RescheduleReason = "sick"

	emails, err := bookingRescheduledEmails(b)

	require.NoError(t, err)
	require.Len(t, emails, 2)
	assert.Equal(t, "ann@example.com", emails[0].To)
	assert.Equal(t, "shop@fadefactory.com", emails[1].To)
	assert.Contains(t, emails[0].HTML, "2026-11-01 at 09:00")
	assert.Contains(t, emails[0].HTML, "Reason: sick")
}

func TestStatusChangedEmail(t *testing.T) {
	before := sampleBooking()
	after := sampleBooking()
	after.Status = domain.StatusConfirmed

	email, err := statusChangedEmail(before, after)

	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", email.To)
	assert.Equal(t, "Booking Confirmed - Fade Factory", email.Subject)
	assert.Contains(t, email.HTML, "from pending to confirmed")
}

func TestMessageEmail_EscapesContent(t *testing.T) {
	msg := &domain.Message{
		Content:            "<script>alert(1)</script>",
		AppointmentDetails: &domain.AppointmentDetails{Date: "2026-11-02", Time: "10:00", Services: []string{"Cut", "Beard"}},
	}

	email, err := messageEmail("ann@example.com", "Fade Factory", msg)

	require.NoError(t, err)
	assert.NotContains(t, email.HTML, "<script>")
	assert.Contains(t, email.HTML, "&lt;script&gt;")
	assert.Contains(t, email.HTML, "Cut, Beard")
}

func TestReminderEmail(t *testing.T) {
	email, err := reminderEmail(sampleBooking(), entity.WindowOneDay)

	require.NoError(t, err)
	assert.Equal(t, "Reminder: your appointment at Fade Factory is in 24 hours", email.Subject)
}

func TestShopName_Fallback(t *testing.T) {
	b := sampleBooking()
	b.ShopName = ""

	assert.Equal(t, "BarbersBuddies", shopName(b))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "Cancelled", capitalize("cancelled"))
}
