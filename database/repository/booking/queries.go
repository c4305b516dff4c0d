package bookingRepo

import (
	"portfolio/models"

	"go.mongodb.org/mongo-driver/bson"
)

// buildBookingFilter translates a BookingFilter into one Mongo query document.
func buildBookingFilter(f models.BookingFilter) bson.M {
	filter := bson.M{}
	if f.ServiceID != "" {
		filter["serviceId"] = f.ServiceID
	}
	if len(f.Statuses) > 0 {
		filter["status"] = bson.M{"$in": f.Statuses}
	}
	if f.ScheduledFrom != nil || f.ScheduledTo != nil {
		window := bson.M{}
		if f.ScheduledFrom != nil {
			window["$gte"] = *f.ScheduledFrom
		}
		if f.ScheduledTo != nil {
			window["$lt"] = *f.ScheduledTo
		}
		filter["scheduledDateTime"] = window
	}
	if f.CreatedBefore != nil {
		filter["createdAt"] = bson.M{"$lt": *f.CreatedBefore}
	}

	var owners bson.A
	if f.UserID != "" {
		owners = append(owners, bson.M{"userId": f.UserID})
	}
	if f.Email != "" {
		owners = append(owners, bson.M{"customerInfo.email": f.Email})
	}
	switch len(owners) {
	case 1:
		for k, v := range owners[0].(bson.M) {
			filter[k] = v
		}
	case 2:
		filter["$or"] = owners
	}
	return filter
}
