package models

import "time"

// BookingEmailPayload is the task payload for booking confirmation and reminder emails.
type BookingEmailPayload struct {
	BookingID         string    `json:"bookingId"`
	To                string    `json:"to"`
	CustomerName      string    `json:"customerName"`
	ServiceTitle      string    `json:"serviceTitle"`
	ScheduledDateTime time.Time `json:"scheduledDateTime"`
	Duration          int       `json:"duration"`
	Amount            float64   `json:"amount"`
	Currency          string    `json:"currency"`
	MeetingLink       string    `json:"meetingLink"`
}

// PurchaseEmailPayload is the task payload for purchase confirmation emails.
type PurchaseEmailPayload struct {
	PurchaseID    string  `json:"purchaseId"`
	To            string  `json:"to"`
	CustomerName  string  `json:"customerName"`
	ResourceTitle string  `json:"resourceTitle"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	PaymentID     string  `json:"paymentId"`
	DownloadURL   string  `json:"downloadUrl"`
	MaxDownloads  int     `json:"maxDownloads"`
}

// OwnerAlertPayload is pushed to the site owner's devices.
type OwnerAlertPayload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

// ExpireBookingPayload asks the worker to release an unpaid booking.
type ExpireBookingPayload struct {
	BookingID string `json:"bookingId"`
}
