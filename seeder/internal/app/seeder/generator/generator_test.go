package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barbersbuddies/pkg/domain"
)

var seedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func generate(t *testing.T) *Dataset {
	t.Helper()
	return Generate(Options{Users: 20, Shops: 4, Bookings: 80, PasswordHash: "hash", Seed: 7, Now: seedNow})
}

func TestGenerate_Counts(t *testing.T) {
	data := generate(t)

	assert.Len(t, data.Users, 20)
	assert.Len(t, data.Preferences, 20)
	assert.Len(t, data.Shops, 4)
	assert.Len(t, data.ShopNames, 4)
	assert.NotEmpty(t, data.Bookings)
	assert.LessOrEqual(t, len(data.Bookings), 80)
}

func TestGenerate_Deterministic(t *testing.T) {
	first := generate(t)
	second := generate(t)

	assert.Equal(t, first, second)
}

func TestGenerate_UsersAreValid(t *testing.T) {
	data := generate(t)

	emails := make(map[string]bool)
	for i, user := range data.Users {
		assert.True(t, domain.IsValidEmail(user.Email), user.Email)
		assert.True(t, domain.IsValidPhone(user.Phone), user.Phone)
		assert.Equal(t, "hash", user.PasswordHash)
		assert.False(t, emails[user.Email], "duplicate email %s", user.Email)
		emails[user.Email] = true
		if i < 4 {
			assert.Equal(t, "owner", user.Role)
		}
	}
}

func TestGenerate_ShopNamesMatchShops(t *testing.T) {
	data := generate(t)

	require.Len(t, data.ShopNames, len(data.Shops))
	for i, shop := range data.Shops {
		entry := data.ShopNames[i]
		assert.Equal(t, shop.ID, entry.ID)
		assert.Equal(t, shop.Name, entry.Name)
		assert.Equal(t, domain.SearchKey(shop.Name), entry.SearchName)
	}
}

func TestGenerate_BookingsAreConsistent(t *testing.T) {
	data := generate(t)

	shops := make(map[string]domain.Shop)
	for _, shop := range data.Shops {
		shops[shop.ID] = shop
	}
	active := make(map[string]bool)

	for _, booking := range data.Bookings {
		shop, ok := shops[booking.ShopID]
		require.True(t, ok)
		assert.Equal(t, shop.Email, booking.ShopEmail)
		assert.Equal(t, domain.TotalPrice(booking.SelectedServices), booking.TotalPrice)
		assert.True(t, booking.Status.Valid())

		at, err := domain.AppointmentTime(booking.SelectedDate, booking.SelectedTime, time.UTC)
		require.NoError(t, err)
		if at.Before(seedNow) {
			assert.True(t, booking.Status.Terminal(), "past booking %s is %s", booking.ID, booking.Status)
		}

		if booking.Status.BlocksSlot() {
			slot := booking.ShopID + "|" + booking.SelectedDate + "|" + booking.SelectedTime
			assert.False(t, active[slot], "double-booked slot %s", slot)
			active[slot] = true
		}
	}
}

func TestGenerate_RatingAggregates(t *testing.T) {
	data := generate(t)

	bookings := make(map[string]domain.Booking)
	for _, booking := range data.Bookings {
		bookings[booking.ID] = booking
	}
	scores := make(map[string]int)
	for _, rating := range data.Ratings {
		booking := bookings[rating.BookingID]
		assert.Equal(t, domain.StatusCompleted, booking.Status)
		assert.True(t, booking.IsRated)
		assert.Equal(t, rating.ID, booking.RatingID)
		assert.GreaterOrEqual(t, rating.Rating, 1)
		assert.LessOrEqual(t, rating.Rating, 5)
		scores[rating.ShopID]++
	}

	for _, shop := range data.Shops {
		assert.Equal(t, scores[shop.ID], shop.RatingCount)
		assert.Len(t, shop.Ratings, shop.RatingCount)
		assert.Len(t, shop.RatingDistribution, 5)
	}
}

func TestGenerate_MessagesOnlyOnActiveBookings(t *testing.T) {
	data := generate(t)

	bookings := make(map[string]domain.Booking)
	for _, booking := range data.Bookings {
		bookings[booking.ID] = booking
	}
	for _, message := range data.Messages {
		assert.False(t, bookings[message.BookingID].Status.Terminal())
		assert.True(t, message.SenderType.Valid())
	}
}

func TestGenerate_NoShops(t *testing.T) {
	data := Generate(Options{Users: 3, Bookings: 10, Now: seedNow})

	assert.Len(t, data.Users, 3)
	assert.Empty(t, data.Shops)
	assert.Empty(t, data.Bookings)
}
