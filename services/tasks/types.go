package tasks

import (
	"encoding/json"
	"time"

	"portfolio/models"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingConfirmationEmail  = "booking:confirmation-email"
	TypeBookingReminderEmail      = "booking:reminder-email"
	TypeBookingExpire             = "booking:expire"
	TypeBookingSweepExpired       = "booking:sweep-expired"
	TypePurchaseConfirmationEmail = "purchase:confirmation-email"
	TypeOwnerAlert                = "owner:alert"
)

const maxRetry = 5

func newTask(typename string, payload any, opts ...asynq.Option) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(typename, b, append([]asynq.Option{asynq.MaxRetry(maxRetry)}, opts...)...), nil
}

func NewBookingConfirmationTask(p models.BookingEmailPayload) (*asynq.Task, []asynq.Option, error) {
	task, err := newTask(TypeBookingConfirmationEmail, p)
	return task, []asynq.Option{asynq.TaskID("booking-confirmation:" + p.BookingID)}, err
}

func NewBookingReminderTask(p models.BookingEmailPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	task, err := newTask(TypeBookingReminderEmail, p)
	return task, []asynq.Option{asynq.TaskID("booking-reminder:" + p.BookingID), asynq.ProcessAt(fireAt)}, err
}

func NewBookingExpireTask(bookingID string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	task, err := newTask(TypeBookingExpire, models.ExpireBookingPayload{BookingID: bookingID})
	return task, []asynq.Option{asynq.TaskID("booking-expire:" + bookingID), asynq.ProcessAt(fireAt)}, err
}

func NewSweepExpiredTask() *asynq.Task {
	return asynq.NewTask(TypeBookingSweepExpired, nil, asynq.MaxRetry(0))
}

func NewPurchaseConfirmationTask(p models.PurchaseEmailPayload) (*asynq.Task, []asynq.Option, error) {
	task, err := newTask(TypePurchaseConfirmationEmail, p)
	return task, []asynq.Option{asynq.TaskID("purchase-confirmation:" + p.PurchaseID)}, err
}

func NewOwnerAlertTask(p models.OwnerAlertPayload, id string) (*asynq.Task, []asynq.Option, error) {
	task, err := newTask(TypeOwnerAlert, p)
	return task, []asynq.Option{asynq.TaskID("owner-alert:" + id)}, err
}
