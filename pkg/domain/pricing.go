package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// TotalPrice sums service prices in whole cents so the result does not
// depend on the order of services.
func TotalPrice(services []Service) float64 {
	var cents int64
	for _, s := range services {
		cents += int64(math.Round(s.Price * 100))
	}
	return float64(cents) / 100
}

func FormatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

func ServiceNames(services []Service) []string {
	names := make([]string, 0, len(services))
	for _, s := range services {
		names = append(names, s.Name)
	}
	return names
}

var timeLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "03:04 PM"}

// AppointmentTime combines a YYYY-MM-DD date and a clock time in loc.
func AppointmentTime(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	clock = strings.ToUpper(strings.TrimSpace(clock))
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, clock)
		if err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", clock)
}
