package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"barbersbuddies/pkg/domain"
	"barbersbuddies/pkg/store"
)

type Options struct {
	Users    int
	Shops    int
	Bookings int
	// PasswordHash is stored on every demo account.
	PasswordHash string
	Seed         int64
	Now          time.Time
}

// Dataset is one consistent batch of demo documents: every booking points at
// a generated shop and customer, and shop rating aggregates match the
// generated ratings.
type Dataset struct {
	Users         []domain.User
	Preferences   []domain.NotificationPreference
	Shops         []domain.Shop
	ShopNames     []domain.ShopName
	Bookings      []domain.Booking
	Ratings       []domain.Rating
	Messages      []domain.Message
	Notifications []domain.Notification
}

var (
	firstNames = []string{"Ann", "Ben", "Carla", "Dmitri", "Elif", "Femi", "Grace", "Hiro", "Ines", "Jonas", "Kai", "Lena"}
	lastNames  = []string{"Berg", "Costa", "Diaz", "Evans", "Fischer", "Garcia", "Haddad", "Ito", "Jensen", "Kowalski"}

	shopPrefixes = []string{"Fade", "Sharp", "Classic", "Urban", "Golden", "Royal", "Clipper", "Northside"}
	shopSuffixes = []string{"Factory", "Cuts", "Barbers", "Lounge", "Studio", "Parlour"}

	serviceCatalog = []domain.Service{
		{Name: "Cut", Price: 25, Duration: 30},
		{Name: "Beard", Price: 15, Duration: 20},
		{Name: "Fade", Price: 30, Duration: 40},
		{Name: "Hot Towel Shave", Price: 22.5, Duration: 30},
		{Name: "Kids Cut", Price: 18, Duration: 25},
		{Name: "Line Up", Price: 10, Duration: 15},
	}

	reviews = []string{
		"Great cut, will be back.",
		"Friendly staff and on time.",
		"Good fade but a short wait.",
		"Best beard trim in town.",
	}

	messageLines = []string{
		"Can I bring my son along?",
		"Running five minutes late, sorry!",
		"Is parking available nearby?",
	}
)

type generator struct {
	opts Options
	rng  *rand.Rand
}

func Generate(opts Options) *Dataset {
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	g := &generator{opts: opts, rng: rand.New(rand.NewSource(opts.Seed))}

	data := &Dataset{}
	g.users(data)
	g.shops(data)
	g.bookings(data)
	g.ratings(data)
	g.messages(data)
	return data
}

func (g *generator) id() string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (g *generator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}

func (g *generator) users(data *Dataset) {
	for i := 0; i < g.opts.Users; i++ {
		first, last := g.pick(firstNames), g.pick(lastNames)
		role := "customer"
		if i < g.opts.Shops {
			role = "owner"
		}

		user := domain.User{
			ID:           g.id(),
			Name:         first + " " + last,
			Email:        fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i+1),
			Phone:        fmt.Sprintf("+1 555 %03d %04d", g.rng.Intn(1000), i+1),
			Role:         role,
			PasswordHash: g.opts.PasswordHash,
			CreatedAt:    g.opts.Now.AddDate(0, 0, -60),
		}
		data.Users = append(data.Users, user)

		data.Preferences = append(data.Preferences, domain.NotificationPreference{
			UserID:    user.ID,
			Enabled:   g.rng.Intn(5) > 0,
			OneHour:   g.rng.Intn(2) == 0,
			OneDay:    true,
			ThreeDays: g.rng.Intn(3) == 0,
			OneWeek:   g.rng.Intn(4) == 0,
			UpdatedAt: user.CreatedAt,
		})
	}
}

func weeklyHours() map[string]domain.DayHours {
	hours := make(map[string]domain.DayHours, 7)
	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"} {
		hours[day] = domain.DayHours{Open: "09:00", Close: "18:00"}
	}
	hours["sunday"] = domain.DayHours{Closed: true}
	return hours
}

func (g *generator) shops(data *Dataset) {
	used := make(map[string]int)

	for i := 0; i < g.opts.Shops; i++ {
		name := g.pick(shopPrefixes) + " " + g.pick(shopSuffixes)
		used[name]++
		if n := used[name]; n > 1 {
			name = fmt.Sprintf("%s %d", name, n)
		}

		ownerID := ""
		if len(data.Users) > 0 {
			ownerID = data.Users[i%len(data.Users)].ID
		}

		services := make([]domain.Service, 0, 4)
		for _, j := range g.rng.Perm(len(serviceCatalog))[:3+g.rng.Intn(2)] {
			services = append(services, serviceCatalog[j])
		}

		slug := strings.ReplaceAll(domain.SearchKey(name), " ", "")
		shop := domain.Shop{
			ID:           g.id(),
			OwnerID:      ownerID,
			Name:         name,
			Email:        fmt.Sprintf("hello@%s.example.com", slug),
			Phone:        fmt.Sprintf("+1 555 200 %04d", i+1),
			Address:      fmt.Sprintf("%d Main Street", 10+i),
			Services:     services,
			Employees:    []domain.Employee{{Name: g.pick(firstNames)}, {Name: g.pick(firstNames)}},
			Availability: weeklyHours(),
			CreatedAt:    g.opts.Now.AddDate(0, 0, -45),
			UpdatedAt:    g.opts.Now.AddDate(0, 0, -45),
		}
		data.Shops = append(data.Shops, shop)
		data.ShopNames = append(data.ShopNames, domain.ShopName{
			ID:         shop.ID,
			Name:       shop.Name,
			SearchName: domain.SearchKey(shop.Name),
			UpdatedAt:  shop.UpdatedAt,
		})
	}
}

// bookings spreads appointments over the month around Now. Past slots end
// up completed or cancelled; a shop never gets two active bookings in the
// same slot.
func (g *generator) bookings(data *Dataset) {
	if len(data.Shops) == 0 || len(data.Users) == 0 {
		return
	}
	taken := make(map[string]bool)

	for i := 0; i < g.opts.Bookings; i++ {
		shop := &data.Shops[g.rng.Intn(len(data.Shops))]
		customer := data.Users[g.rng.Intn(len(data.Users))]

		var date, clock string
		placed := false
		for attempt := 0; attempt < 10 && !placed; attempt++ {
			day := g.opts.Now.AddDate(0, 0, g.rng.Intn(61)-30)
			if day.Weekday() == time.Sunday {
				continue
			}
			date = day.Format("2006-01-02")
			clock = fmt.Sprintf("%02d:%s", 9+g.rng.Intn(9), g.pick([]string{"00", "30"}))
			placed = !taken[shop.ID+"|"+date+"|"+clock]
		}
		if !placed {
			continue
		}

		at, _ := domain.AppointmentTime(date, clock, time.UTC)
		status := g.status(at)
		if status.BlocksSlot() {
			taken[shop.ID+"|"+date+"|"+clock] = true
		}

		services := g.selectServices(shop.Services)
		created := at.AddDate(0, 0, -3-g.rng.Intn(7))
		if created.After(g.opts.Now) {
			created = g.opts.Now
		}

		booking := domain.Booking{
			ID:               g.id(),
			ShopID:           shop.ID,
			ShopEmail:        shop.Email,
			ShopName:         shop.Name,
			UserID:           customer.ID,
			UserName:         customer.Name,
			UserEmail:        customer.Email,
			UserPhone:        customer.Phone,
			SelectedDate:     date,
			SelectedTime:     clock,
			SelectedServices: services,
			TotalPrice:       domain.TotalPrice(services),
			Status:           status,
			CreatedAt:        created,
			UpdatedAt:        created,
			Version:          1,
		}

		switch status {
		case domain.StatusCancelled:
			cancelledAt := created.Add(time.Hour)
			booking.CancelledAt = &cancelledAt
			booking.CancelledBy = g.pick([]string{"customer", "shop"})
			booking.CancellationReason = "Schedule conflict"
			booking.UpdatedAt = cancelledAt
			booking.Version = 2
		case domain.StatusRescheduled:
			rescheduledAt := created.Add(2 * time.Hour)
			booking.PreviousDate = at.AddDate(0, 0, -1).Format("2006-01-02")
			booking.PreviousTime = clock
			booking.RescheduledAt = &rescheduledAt
			booking.RescheduledBy = "customer"
			booking.RescheduleReason = "Work meeting moved"
			booking.UpdatedAt = rescheduledAt
			booking.Version = 2
		case domain.StatusConfirmed:
			booking.Version = 2
			data.Notifications = append(data.Notifications, domain.Notification{
				ID:        g.id(),
				UserID:    customer.ID,
				Type:      domain.NotificationStatusChanged,
				Title:     "Booking Confirmed",
				Message:   fmt.Sprintf("Your booking at %s on %s at %s is confirmed", shop.Name, date, clock),
				BookingID: booking.ID,
				CreatedAt: created.Add(30 * time.Minute),
			})
		}

		data.Bookings = append(data.Bookings, booking)
	}
}

func (g *generator) status(at time.Time) domain.BookingStatus {
	roll := g.rng.Intn(10)
	if at.Before(g.opts.Now) {
		if roll < 8 {
			return domain.StatusCompleted
		}
		return domain.StatusCancelled
	}
	switch {
	case roll < 4:
		return domain.StatusConfirmed
	case roll < 7:
		return domain.StatusPending
	case roll < 8:
		return domain.StatusRescheduled
	default:
		return domain.StatusCancelled
	}
}

func (g *generator) selectServices(offered []domain.Service) []domain.Service {
	n := 1 + g.rng.Intn(2)
	if n > len(offered) {
		n = len(offered)
	}
	selected := make([]domain.Service, 0, n)
	for _, j := range g.rng.Perm(len(offered))[:n] {
		selected = append(selected, offered[j])
	}
	return selected
}

// ratings rates most completed bookings and rebuilds each shop's aggregate
// from the generated scores.
func (g *generator) ratings(data *Dataset) {
	scores := make(map[string][]int)
	lastRated := make(map[string]time.Time)

	for i := range data.Bookings {
		booking := &data.Bookings[i]
		if booking.Status != domain.StatusCompleted || g.rng.Intn(10) >= 7 {
			continue
		}

		at, _ := domain.AppointmentTime(booking.SelectedDate, booking.SelectedTime, time.UTC)
		rating := domain.Rating{
			ID:        g.id(),
			ShopID:    booking.ShopID,
			BookingID: booking.ID,
			UserID:    booking.UserID,
			Rating:    3 + g.rng.Intn(3),
			Review:    g.pick(reviews),
			CreatedAt: at.Add(4 * time.Hour),
		}
		if g.rng.Intn(2) == 0 {
			rating.ShopResponse = &domain.ShopResponse{
				Content:   "Thanks for visiting, see you next time!",
				Timestamp: rating.CreatedAt.Add(2 * time.Hour),
			}
			data.Notifications = append(data.Notifications, domain.Notification{
				ID:        g.id(),
				UserID:    booking.UserID,
				Type:      domain.NotificationRatingReply,
				Title:     "New response to your review",
				Message:   fmt.Sprintf("%s responded to your review", booking.ShopName),
				BookingID: booking.ID,
				RatingID:  rating.ID,
				CreatedAt: rating.ShopResponse.Timestamp,
			})
		}
		data.Ratings = append(data.Ratings, rating)

		booking.IsRated = true
		booking.Rating = rating.Rating
		booking.Review = rating.Review
		booking.RatingID = rating.ID

		scores[booking.ShopID] = append(scores[booking.ShopID], rating.Rating)
		if rating.CreatedAt.After(lastRated[booking.ShopID]) {
			lastRated[booking.ShopID] = rating.CreatedAt
		}
	}

	for i := range data.Shops {
		shop := &data.Shops[i]
		summary := store.SummarizeRatings(scores[shop.ID], lastRated[shop.ID])
		shop.Ratings = summary.Ratings
		shop.AverageRating = summary.Average
		shop.RatingCount = summary.Count
		shop.RatingDistribution = summary.Distribution
		if summary.Count > 0 {
			lastRatedAt := summary.LastRatedAt
			shop.LastRatedAt = &lastRatedAt
		}
	}
}

// messages adds a short customer/shop exchange to some active bookings.
func (g *generator) messages(data *Dataset) {
	for _, booking := range data.Bookings {
		if booking.Status.Terminal() || g.rng.Intn(3) != 0 {
			continue
		}

		details := &domain.AppointmentDetails{
			Date:     booking.SelectedDate,
			Time:     booking.SelectedTime,
			Services: domain.ServiceNames(booking.SelectedServices),
		}
		sent := booking.CreatedAt.Add(time.Hour)

		question := domain.Message{
			ID:                 g.id(),
			BookingID:          booking.ID,
			ShopID:             booking.ShopID,
			CustomerID:         booking.UserID,
			ShopName:           booking.ShopName,
			CustomerName:       booking.UserName,
			Content:            g.pick(messageLines),
			SenderType:         domain.SenderCustomer,
			AppointmentDetails: details,
			Timestamp:          sent,
			Read:               true,
		}
		answer := question
		answer.ID = g.id()
		answer.Content = "No problem, see you then!"
		answer.SenderType = domain.SenderShop
		answer.Timestamp = sent.Add(20 * time.Minute)
		answer.Read = false

		data.Messages = append(data.Messages, question, answer)
		data.Notifications = append(data.Notifications, domain.Notification{
			ID:        g.id(),
			UserID:    booking.UserID,
			Type:      domain.NotificationNewMessage,
			Title:     "New message from " + booking.ShopName,
			Message:   answer.Content,
			BookingID: booking.ID,
			CreatedAt: answer.Timestamp,
		})
	}
}
