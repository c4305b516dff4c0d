package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"portfolio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type fakeOwner struct {
	alerts []models.OwnerAlertPayload
}

func (o *fakeOwner) NotifyOwner(_ context.Context, a models.OwnerAlertPayload) error {
	o.alerts = append(o.alerts, a)
	return nil
}

func bookingPayload() models.BookingEmailPayload {
	return models.BookingEmailPayload{
		BookingID:         "b-1",
		To:                "ada@example.com",
		CustomerName:      "Ada <script>",
		ServiceTitle:      "Portfolio Review",
		ScheduledDateTime: time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC),
		Duration:          60,
		Amount:            999,
		Currency:          "INR",
		MeetingLink:       "https://meet.example.com/abc",
	}
}

func TestSendBookingConfirmation(t *testing.T) {
	mailer := &fakeMailer{}
	svc := &DefaultNotificationService{Mailer: mailer, Logger: zap.NewNop()}

	require.NoError(t, svc.SendBookingConfirmation(context.Background(), bookingPayload()))
	require.Len(t, mailer.sent, 1)

	mail := mailer.sent[0]
	assert.Equal(t, "ada@example.com", mail.to)
	assert.Equal(t, "Booking confirmed: Portfolio Review", mail.subject)
	assert.Contains(t, mail.body, "Monday, 7 Jan 2030 10:00 UTC")
	assert.Contains(t, mail.body, "999.00 INR")
	assert.Contains(t, mail.body, "https://meet.example.com/abc")
	assert.Contains(t, mail.body, "Ada &lt;script&gt;")
	assert.NotContains(t, mail.body, "<script>")
}

func TestSendBookingReminder_UsesLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	mailer := &fakeMailer{}
	svc := &DefaultNotificationService{Mailer: mailer, Location: kolkata, Logger: zap.NewNop()}

	require.NoError(t, svc.SendBookingReminder(context.Background(), bookingPayload()))
	assert.Contains(t, mailer.sent[0].body, "15:30 IST")
}

func TestSendPurchaseConfirmation(t *testing.T) {
	mailer := &fakeMailer{}
	svc := &DefaultNotificationService{Mailer: mailer, Logger: zap.NewNop()}

	err := svc.SendPurchaseConfirmation(context.Background(), models.PurchaseEmailPayload{
		PurchaseID:    "p-1",
		To:            "ada@example.com",
		CustomerName:  "Ada",
		ResourceTitle: "Design System Guide",
		Amount:        499,
		Currency:      "INR",
		PaymentID:     "pay_1",
		DownloadURL:   "https://portfolio.example.com/download/abc",
		MaxDownloads:  5,
	})
	require.NoError(t, err)
	assert.Contains(t, mailer.sent[0].body, `href="https://portfolio.example.com/download/abc"`)
	assert.Contains(t, mailer.sent[0].body, "up to 5 downloads")
}

func TestSend_PropagatesMailerError(t *testing.T) {
	svc := &DefaultNotificationService{Mailer: &fakeMailer{err: errors.New("relay down")}, Logger: zap.NewNop()}
	assert.Error(t, svc.SendBookingConfirmation(context.Background(), bookingPayload()))
}

func TestNotifyOwner(t *testing.T) {
	owner := &fakeOwner{}
	svc := &DefaultNotificationService{Mailer: &fakeMailer{}, Owner: owner, Logger: zap.NewNop()}
	require.NoError(t, svc.NotifyOwner(context.Background(), models.OwnerAlertPayload{Title: "New booking"}))
	assert.Len(t, owner.alerts, 1)

	bare := &DefaultNotificationService{Mailer: &fakeMailer{}, Logger: zap.NewNop()}
	assert.NoError(t, bare.NotifyOwner(context.Background(), models.OwnerAlertPayload{}))
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("from@example.com", "to@example.com", "Hi", "<p>x</p>")
	assert.Contains(t, msg, "Content-Type: text/html; charset=utf-8\r\n")
	assert.Contains(t, msg, "Subject: Hi\r\n")
}
