package models

import "time"

// TimeWindow is a daily wall-clock window such as 09:00-12:00.
type TimeWindow struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// WeeklyAvailability lists the weekdays a service is offered and its daily windows.
type WeeklyAvailability struct {
	Days      []string     `bson:"days" json:"days"` // "Monday" ... "Sunday"
	TimeSlots []TimeWindow `bson:"timeSlots" json:"timeSlots"`
}

// Service is a bookable offering from the catalog.
type Service struct {
	ID            string             `bson:"id" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Category      string             `bson:"category,omitempty" json:"category,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	Currency      string             `bson:"currency" json:"currency"`
	Duration      int                `bson:"duration" json:"duration"` // minutes
	Availability  WeeklyAvailability `bson:"availability" json:"availability"`
	TotalBookings int                `bson:"totalBookings" json:"totalBookings"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ServiceSummary is the slice of a service embedded in booking listings.
type ServiceSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Duration    int    `json:"duration"`
}

func (s *Service) Summary() *ServiceSummary {
	return &ServiceSummary{ID: s.ID, Title: s.Title, Description: s.Description, Duration: s.Duration}
}

// Slot is one bookable hour.
type Slot struct {
	Time     string    `json:"time"`     // "10:00"
	DateTime time.Time `json:"datetime"` // absolute instant
}
