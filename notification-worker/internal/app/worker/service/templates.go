package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"barbersbuddies/notification-worker/internal/app/worker/entity"
	"barbersbuddies/pkg/domain"
)

const emailTemplates = `
{{define "details"}}
<table>
  <tr><td>Date</td><td>{{.Booking.SelectedDate}}</td></tr>
  <tr><td>Time</td><td>{{.Booking.SelectedTime}}</td></tr>
  <tr><td>Services</td><td>{{range $i, $s := .Booking.SelectedServices}}{{if $i}}, {{end}}{{$s.Name}} (${{price $s.Price}}){{end}}</td></tr>
  {{if .Booking.CustomService}}<tr><td>Special request</td><td>{{.Booking.CustomService}}</td></tr>{{end}}
  <tr><td>Total</td><td>${{price .Booking.TotalPrice}}</td></tr>
</table>
{{end}}

{{define "booking_created_shop"}}
<h2>New booking from {{.Booking.UserName}}</h2>
<p>Customer: {{.Booking.UserName}} &lt;{{.Booking.UserEmail}}&gt;{{if .Booking.UserPhone}}, {{.Booking.UserPhone}}{{end}}</p>
{{template "details" .}}
{{end}}

{{define "booking_created_customer"}}
<h2>Your booking at {{.ShopName}} is received</h2>
<p>Hi {{.Booking.UserName}}, thanks for booking with {{.ShopName}}. The shop will confirm shortly.</p>
{{template "details" .}}
{{end}}

{{define "booking_updated"}}
<h2>Your booking at {{.ShopName}} was updated</h2>
{{template "details" .}}
{{end}}

{{define "booking_cancelled"}}
<h2>Booking cancelled</h2>
<p>The appointment of {{.Booking.UserName}} at {{.ShopName}} on {{.Booking.SelectedDate}} at {{.Booking.SelectedTime}} was cancelled{{if .Booking.CancelledBy}} by {{.Booking.CancelledBy}}{{end}}.</p>
{{if .Booking.CancellationReason}}<p>Reason: {{.Booking.CancellationReason}}</p>{{end}}
{{end}}

{{define "booking_rescheduled"}}
<h2>Appointment rescheduled</h2>
<p>The appointment of {{.Booking.UserName}} at {{.ShopName}} moved from {{.Booking.PreviousDate}} at {{.Booking.PreviousTime}} to {{.Booking.SelectedDate}} at {{.Booking.SelectedTime}}{{if .Booking.RescheduledBy}} ({{.Booking.RescheduledBy}}){{end}}.</p>
{{if .Booking.RescheduleReason}}<p>Reason: {{.Booking.RescheduleReason}}</p>{{end}}
{{template "details" .}}
{{end}}

{{define "booking_status"}}
<h2>Booking {{.NewStatus}}</h2>
<p>Hi {{.Booking.UserName}}, your booking at {{.ShopName}} changed from {{.OldStatus}} to {{.NewStatus}}.</p>
{{template "details" .}}
{{end}}

{{define "new_message"}}
<h2>New message from {{.SenderName}}</h2>
<blockquote>{{.Message.Content}}</blockquote>
{{with .Message.AppointmentDetails}}<p>Appointment: {{.Date}} {{.Time}}{{if .Services}} ({{join .Services ", "}}){{end}}</p>{{end}}
{{end}}

{{define "reminder"}}
<h2>Appointment reminder</h2>
<p>Hi {{.Booking.UserName}}, your appointment at {{.ShopName}} is in {{.Label}}.</p>
{{template "details" .}}
{{end}}
`

var templates = template.Must(template.New("emails").Funcs(template.FuncMap{
	"price": domain.FormatPrice,
	"join":  strings.Join,
}).Parse(emailTemplates))

type emailData struct {
	Booking    *domain.Booking
	ShopName   string
	OldStatus  string
	NewStatus  string
	Label      string
	Message    *domain.Message
	SenderName string
}

func render(to, subject, name string, data emailData) (entity.Email, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return entity.Email{}, fmt.Errorf("failed to render %s email: %w", name, err)
	}
	return entity.Email{To: to, Subject: subject, HTML: buf.String()}, nil
}

func shopName(b *domain.Booking) string {
	if b.ShopName != "" {
		return b.ShopName
	}
	return "BarbersBuddies"
}

func bookingData(b *domain.Booking) emailData {
	return emailData{Booking: b, ShopName: shopName(b)}
}

func bookingCreatedEmails(b *domain.Booking) ([]entity.Email, error) {
	shop, err := render(b.ShopEmail, "New Booking: "+b.UserName, "booking_created_shop", bookingData(b))
	if err != nil {
		return nil, err
	}
	customer, err := render(b.UserEmail, "Booking Confirmation - "+shopName(b), "booking_created_customer", bookingData(b))
	if err != nil {
		return nil, err
	}
	return []entity.Email{shop, customer}, nil
}

func bookingUpdatedEmail(b *domain.Booking) ([]entity.Email, error) {
	email, err := render(b.UserEmail, "Booking Updated - "+shopName(b), "booking_updated", bookingData(b))
	if err != nil {
		return nil, err
	}
	return []entity.Email{email}, nil
}

func bookingCancelledEmails(b *domain.Booking) ([]entity.Email, error) {
	subject := fmt.Sprintf("Booking Cancelled - %s %s", b.SelectedDate, b.SelectedTime)
	return renderPair(b, subject, "booking_cancelled")
}

func bookingRescheduledEmails(b *domain.Booking) ([]entity.Email, error) {
	subject := fmt.Sprintf("Appointment Rescheduled - %s %s", b.SelectedDate, b.SelectedTime)
	return renderPair(b, subject, "booking_rescheduled")
}

// renderPair renders the same message for the customer and the shop.
func renderPair(b *domain.Booking, subject, name string) ([]entity.Email, error) {
	customer, err := render(b.UserEmail, subject, name, bookingData(b))
	if err != nil {
		return nil, err
	}
	shop, err := render(b.ShopEmail, subject, name, bookingData(b))
	if err != nil {
		return nil, err
	}
	return []entity.Email{customer, shop}, nil
}

func statusChangedEmail(before, after *domain.Booking) (entity.Email, error) {
	data := bookingData(after)
	data.OldStatus = string(before.Status)
	data.NewStatus = string(after.Status)
	subject := fmt.Sprintf("Booking %s - %s", capitalize(data.NewStatus), shopName(after))
	return render(after.UserEmail, subject, "booking_status", data)
}

func messageEmail(to, senderName string, msg *domain.Message) (entity.Email, error) {
	return render(to, "New message from "+senderName, "new_message", emailData{
		Message:    msg,
		SenderName: senderName,
	})
}

func reminderEmail(b *domain.Booking, window entity.ReminderWindow) (entity.Email, error) {
	data := bookingData(b)
	data.Label = window.Label()
	subject := fmt.Sprintf("Reminder: your appointment at %s is in %s", shopName(b), data.Label)
	return render(b.UserEmail, subject, "reminder", data)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
