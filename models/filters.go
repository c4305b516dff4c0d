package models

import "time"

// BookingFilter enumerates the supported booking queries. Zero-valued fields
// are ignored; UserID and Email are OR-ed together when both are set.
type BookingFilter struct {
	ServiceID     string
	Statuses      []BookingStatus
	ScheduledFrom *time.Time // inclusive
	ScheduledTo   *time.Time // exclusive
	CreatedBefore *time.Time
	UserID        string
	Email         string
}

// PurchaseFilter enumerates the supported purchase queries.
type PurchaseFilter struct {
	UserID string
	Email  string
}
