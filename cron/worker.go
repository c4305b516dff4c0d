package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"portfolio/models"
	"portfolio/services/booking"
	"portfolio/services/notification"
	"portfolio/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// SweepSchedule is how often stale pending bookings are swept.
const (
	SweepSchedule = "@every 5m"
	SweepInterval = 5 * time.Minute
)

// Worker processes background tasks and schedules the periodic expiry sweep.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	logger    *zap.Logger
}

func NewWorker(redisOpts asynq.RedisClientOpt, notifier notification.NotificationService, bookings booking.BookingService, logger *zap.Logger) *Worker {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)
	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{
		Location: time.UTC,
		Logger:   logger.Sugar(),
	})
	return &Worker{
		server:    srv,
		scheduler: scheduler,
		mux:       NewMux(notifier, bookings, logger),
		logger:    logger,
	}
}

// Start runs the task server and registers the sweep with the scheduler.
func (w *Worker) Start() error {
	if _, err := w.scheduler.Register(SweepSchedule, tasks.NewSweepExpiredTask(), asynq.TaskID("booking-sweep")); err != nil {
		return fmt.Errorf("register sweep: %w", err)
	}
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("start task server: %w", err)
	}
	if err := w.scheduler.Start(); err != nil {
		w.server.Shutdown()
		return fmt.Errorf("start scheduler: %w", err)
	}
	w.logger.Info("task worker started")
	return nil
}

func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
	w.logger.Info("task worker stopped")
}

// NewMux routes every task type to its handler.
func NewMux(notifier notification.NotificationService, bookings booking.BookingService, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingConfirmationEmail, handleBookingEmail(notifier.SendBookingConfirmation, logger))
	mux.HandleFunc(tasks.TypeBookingReminderEmail, handleBookingEmail(notifier.SendBookingReminder, logger))
	mux.HandleFunc(tasks.TypePurchaseConfirmationEmail, handlePurchaseEmail(notifier, logger))
	mux.HandleFunc(tasks.TypeOwnerAlert, handleOwnerAlert(notifier, logger))
	mux.HandleFunc(tasks.TypeBookingExpire, handleExpire(bookings, logger))
	mux.HandleFunc(tasks.TypeBookingSweepExpired, handleSweep(bookings))
	return mux
}

func decode(task *asynq.Task, v any, logger *zap.Logger) error {
	if err := json.Unmarshal(task.Payload(), v); err != nil {
		logger.Error("invalid task payload", zap.String("type", task.Type()), zap.Error(err))
		return fmt.Errorf("%s: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	return nil
}

func handleBookingEmail(send func(context.Context, models.BookingEmailPayload) error, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.BookingEmailPayload
		if err := decode(task, &p, logger); err != nil {
			return err
		}
		return send(ctx, p)
	}
}

func handlePurchaseEmail(notifier notification.NotificationService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.PurchaseEmailPayload
		if err := decode(task, &p, logger); err != nil {
			return err
		}
		return notifier.SendPurchaseConfirmation(ctx, p)
	}
}

func handleOwnerAlert(notifier notification.NotificationService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.OwnerAlertPayload
		if err := decode(task, &p, logger); err != nil {
			return err
		}
		if err := notifier.NotifyOwner(ctx, p); err != nil {
			logger.Warn("owner alert failed", zap.String("title", p.Title), zap.Error(err))
			return err
		}
		return nil
	}
}

func handleExpire(bookings booking.BookingService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ExpireBookingPayload
		if err := decode(task, &p, logger); err != nil {
			return err
		}
		_, err := bookings.ExpirePending(ctx, p.BookingID)
		return err
	}
}

func handleSweep(bookings booking.BookingService) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		_, err := bookings.SweepExpired(ctx)
		return err
	}
}

// MonitorRedis pings Redis periodically and logs lost connections until ctx is done.
func MonitorRedis(ctx context.Context, client *redis.Client, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				logger.Warn("redis connection lost", zap.Error(err))
			}
		}
	}
}

// SweepPending runs the pending-booking sweep in process every interval until
// ctx is done. It replaces the scheduled sweep when there is no task queue.
func SweepPending(ctx context.Context, bookings booking.BookingService, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := bookings.SweepExpired(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.Warn("pending booking sweep failed", zap.Error(err))
				}
				continue
			}
			if n > 0 {
				logger.Info("expired pending bookings", zap.Int("count", n))
			}
		}
	}
}
