package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the part of asynq.Client the dispatcher uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher turns committed booking and purchase changes into background
// tasks. Each task carries a stable id so a repeated event enqueues nothing.
type Dispatcher struct {
	Queue  Enqueuer
	Logger *zap.Logger
	Now    func() time.Time
}

func NewDispatcher(queue Enqueuer, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{Queue: queue, Logger: logger, Now: time.Now}
}

// BookingCreated schedules the release of the slot if payment never arrives.
func (d *Dispatcher) BookingCreated(ctx context.Context, b *models.Booking, expireAt time.Time) error {
	task, opts, err := NewBookingExpireTask(b.ID, expireAt)
	if err != nil {
		return err
	}
	return d.enqueue(ctx, task, opts...)
}

// BookingConfirmed sends the confirmation email, schedules the 24h reminder
// and alerts the owner.
func (d *Dispatcher) BookingConfirmed(ctx context.Context, b *models.Booking, svc *models.Service) error {
	title := "Consultation"
	if svc != nil {
		title = svc.Title
	}
	payload := models.BookingEmailPayload{
		BookingID:         b.ID,
		To:                b.CustomerInfo.Email,
		CustomerName:      b.CustomerInfo.Name,
		ServiceTitle:      title,
		ScheduledDateTime: b.ScheduledDateTime,
		Duration:          b.Duration,
		Amount:            b.Amount,
		Currency:          b.Currency,
		MeetingLink:       b.MeetingLink,
	}

	var errs []error
	if task, opts, err := NewBookingConfirmationTask(payload); err != nil {
		errs = append(errs, err)
	} else if err := d.enqueue(ctx, task, opts...); err != nil {
		errs = append(errs, err)
	}

	remindAt := b.ScheduledDateTime.Add(-24 * time.Hour)
	if remindAt.After(d.Now()) {
		if task, opts, err := NewBookingReminderTask(payload, remindAt); err != nil {
			errs = append(errs, err)
		} else if err := d.enqueue(ctx, task, opts...); err != nil {
			errs = append(errs, err)
		}
	}

	alert := models.OwnerAlertPayload{
		Title: "New booking: " + title,
		Body:  fmt.Sprintf("%s booked %s", b.CustomerInfo.Name, b.ScheduledDateTime.UTC().Format(time.RFC3339)),
		Data:  map[string]string{"bookingId": b.ID, "kind": string(models.OrderKindBooking)},
	}
	if task, opts, err := NewOwnerAlertTask(alert, "booking:"+b.ID); err != nil {
		errs = append(errs, err)
	} else if err := d.enqueue(ctx, task, opts...); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// PurchaseCompleted emails the download link and alerts the owner.
func (d *Dispatcher) PurchaseCompleted(ctx context.Context, p *models.Purchase, r *models.Resource, downloadURL string) error {
	payload := models.PurchaseEmailPayload{
		PurchaseID:    p.ID,
		To:            p.CustomerInfo.Email,
		CustomerName:  p.CustomerInfo.Name,
		ResourceTitle: r.Title,
		Amount:        p.Amount,
		Currency:      p.Currency,
		PaymentID:     p.PaymentID,
		DownloadURL:   downloadURL,
		MaxDownloads:  p.MaxDownloads,
	}

	var errs []error
	if task, opts, err := NewPurchaseConfirmationTask(payload); err != nil {
		errs = append(errs, err)
	} else if err := d.enqueue(ctx, task, opts...); err != nil {
		errs = append(errs, err)
	}

	alert := models.OwnerAlertPayload{
		Title: "New sale: " + r.Title,
		Body:  fmt.Sprintf("%s bought %s", p.CustomerInfo.Name, r.Title),
		Data:  map[string]string{"purchaseId": p.ID, "kind": string(models.OrderKindResource)},
	}
	if task, opts, err := NewOwnerAlertTask(alert, "purchase:"+p.ID); err != nil {
		errs = append(errs, err)
	} else if err := d.enqueue(ctx, task, opts...); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) error {
	info, err := d.Queue.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		d.Logger.Debug("task already enqueued", zap.String("type", task.Type()))
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	d.Logger.Debug("task enqueued", zap.String("type", task.Type()), zap.String("id", info.ID), zap.Time("processAt", info.NextProcessAt))
	return nil
}
