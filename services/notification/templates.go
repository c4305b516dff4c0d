package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"portfolio/models"
)

var (
	bookingConfirmationTmpl = template.Must(template.New("booking_confirmation").Parse(`<h2>Booking confirmed</h2>
<p>Hi {{.CustomerName}},</p>
<p>Your <strong>{{.ServiceTitle}}</strong> session is confirmed.</p>
<ul>
  <li>When: {{.When}}</li>
  <li>Duration: {{.Duration}} minutes</li>
  <li>Amount paid: {{.Amount}}</li>
  {{if .MeetingLink}}<li>Meeting link: <a href="{{.MeetingLink}}">{{.MeetingLink}}</a></li>{{end}}
</ul>
<p>You can cancel up to 24 hours before the session.</p>`))

	bookingReminderTmpl = template.Must(template.New("booking_reminder").Parse(`<h2>Your session is tomorrow</h2>
<p>Hi {{.CustomerName}},</p>
<p>This is a reminder of your <strong>{{.ServiceTitle}}</strong> session on {{.When}}.</p>
{{if .MeetingLink}}<p>Join here: <a href="{{.MeetingLink}}">{{.MeetingLink}}</a></p>{{end}}`))

	purchaseConfirmationTmpl = template.Must(template.New("purchase_confirmation").Parse(`<h2>Thank you for your purchase</h2>
<p>Hi {{.CustomerName}},</p>
<p>Your payment for <strong>{{.ResourceTitle}}</strong> ({{.Amount}}) was received. Payment reference: {{.PaymentID}}.</p>
<p><a href="{{.DownloadURL}}">Download your file</a></p>
<p>The link can be used once and expires in 24 hours. Each purchase allows up to {{.MaxDownloads}} downloads.</p>`))
)

type bookingView struct {
	models.BookingEmailPayload
	When   string
	Amount string
}

type purchaseView struct {
	models.PurchaseEmailPayload
	Amount string
}

func formatMoney(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}

// RenderBookingConfirmation returns the subject and HTML body of a booking confirmation.
func RenderBookingConfirmation(p models.BookingEmailPayload, loc *time.Location) (string, string, error) {
	body, err := render(bookingConfirmationTmpl, bookingView{
		BookingEmailPayload: p,
		When:                p.ScheduledDateTime.In(loc).Format("Monday, 2 Jan 2006 15:04 MST"),
		Amount:              formatMoney(p.Amount, p.Currency),
	})
	return "Booking confirmed: " + p.ServiceTitle, body, err
}

// RenderBookingReminder returns the subject and HTML body of a session reminder.
func RenderBookingReminder(p models.BookingEmailPayload, loc *time.Location) (string, string, error) {
	body, err := render(bookingReminderTmpl, bookingView{
		BookingEmailPayload: p,
		When:                p.ScheduledDateTime.In(loc).Format("Monday, 2 Jan 2006 15:04 MST"),
	})
	return "Reminder: " + p.ServiceTitle + " tomorrow", body, err
}

// RenderPurchaseConfirmation returns the subject and HTML body of a purchase receipt.
func RenderPurchaseConfirmation(p models.PurchaseEmailPayload) (string, string, error) {
	body, err := render(purchaseConfirmationTmpl, purchaseView{
		PurchaseEmailPayload: p,
		Amount:               formatMoney(p.Amount, p.Currency),
	})
	return "Your download: " + p.ResourceTitle, body, err
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
