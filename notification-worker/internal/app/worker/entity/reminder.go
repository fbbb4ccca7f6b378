package entity

import (
	"time"

	"github.com/google/uuid"

	"barbersbuddies/pkg/domain"
)

// ReminderWindow names one of the fixed reminder lead times.
type ReminderWindow string

const (
	WindowOneHour   ReminderWindow = "oneHour"
	WindowOneDay    ReminderWindow = "oneDay"
	WindowThreeDays ReminderWindow = "threeDays"
	WindowOneWeek   ReminderWindow = "oneWeek"
)

type windowBounds struct {
	window ReminderWindow
	lower  float64 // exclusive
	upper  float64 // inclusive
	label  string
}

// Windows are disjoint; an hourly job hits each of them exactly once.
var windows = []windowBounds{
	{WindowOneHour, 0, 1, "1 hour"},
	{WindowOneDay, 23, 24, "24 hours"},
	{WindowThreeDays, 71, 72, "3 days"},
	{WindowOneWeek, 167, 168, "1 week"},
}

// WindowFor returns the window containing hoursUntil, if any.
func WindowFor(hoursUntil float64) (ReminderWindow, bool) {
	for _, w := range windows {
		if hoursUntil > w.lower && hoursUntil <= w.upper {
			return w.window, true
		}
	}
	return "", false
}

func (w ReminderWindow) Label() string {
	for _, b := range windows {
		if b.window == w {
			return b.label
		}
	}
	return string(w)
}

// EnabledIn reports whether pref has opted into this window.
func (w ReminderWindow) EnabledIn(pref domain.NotificationPreference) bool {
	if !pref.Enabled {
		return false
	}
	switch w {
	case WindowOneHour:
		return pref.OneHour
	case WindowOneDay:
		return pref.OneDay
	case WindowThreeDays:
		return pref.ThreeDays
	case WindowOneWeek:
		return pref.OneWeek
	}
	return false
}

// ReminderClaim identifies one reminder: a booking's appointment slot and
// window. A rescheduled booking gets fresh claims for its new slot.
type ReminderClaim struct {
	BookingID   string
	Appointment string
	Window      ReminderWindow
}

func NewReminderClaim(booking *domain.Booking, window ReminderWindow) ReminderClaim {
	return ReminderClaim{
		BookingID:   booking.ID,
		Appointment: booking.SelectedDate + "T" + booking.SelectedTime,
		Window:      window,
	}
}

// ReminderAudit is one sent reminder, kept in PostgreSQL.
type ReminderAudit struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID  string    `gorm:"type:varchar(64);not null;index"`
	UserID     string    `gorm:"type:varchar(64);not null"`
	Email      string    `gorm:"type:varchar(255);not null"`
	Window     string    `gorm:"column:reminder_window;type:varchar(16);not null"`
	HoursUntil float64   `gorm:"not null"`
	SentAt     time.Time `gorm:"not null"`
}

func (ReminderAudit) TableName() string {
	return "reminder_audits"
}

// ReminderReport summarizes one run of the reminder job.
type ReminderReport struct {
	Checked    int
	Sent       int
	Duplicates int
	Failed     int
}
