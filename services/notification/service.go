package notification

import (
	"context"
	"time"

	"portfolio/models"

	"go.uber.org/zap"
)

// NotificationService delivers the customer emails and owner alerts that the
// task worker processes.
type NotificationService interface {
	SendBookingConfirmation(ctx context.Context, p models.BookingEmailPayload) error
	SendBookingReminder(ctx context.Context, p models.BookingEmailPayload) error
	SendPurchaseConfirmation(ctx context.Context, p models.PurchaseEmailPayload) error
	NotifyOwner(ctx context.Context, alert models.OwnerAlertPayload) error
}

// DefaultNotificationService renders templates and hands them to a Mailer.
type DefaultNotificationService struct {
	Mailer   Mailer
	Owner    OwnerNotifier
	Location *time.Location
	Logger   *zap.Logger
}

var _ NotificationService = (*DefaultNotificationService)(nil)

func (s *DefaultNotificationService) SendBookingConfirmation(ctx context.Context, p models.BookingEmailPayload) error {
	subject, body, err := RenderBookingConfirmation(p, s.location())
	if err != nil {
		return err
	}
	return s.send(ctx, p.To, subject, body, zap.String("bookingId", p.BookingID))
}

func (s *DefaultNotificationService) SendBookingReminder(ctx context.Context, p models.BookingEmailPayload) error {
	subject, body, err := RenderBookingReminder(p, s.location())
	if err != nil {
		return err
	}
	return s.send(ctx, p.To, subject, body, zap.String("bookingId", p.BookingID))
}

func (s *DefaultNotificationService) SendPurchaseConfirmation(ctx context.Context, p models.PurchaseEmailPayload) error {
	subject, body, err := RenderPurchaseConfirmation(p)
	if err != nil {
		return err
	}
	return s.send(ctx, p.To, subject, body, zap.String("purchaseId", p.PurchaseID))
}

func (s *DefaultNotificationService) NotifyOwner(ctx context.Context, alert models.OwnerAlertPayload) error {
	if s.Owner == nil {
		return nil
	}
	return s.Owner.NotifyOwner(ctx, alert)
}

func (s *DefaultNotificationService) send(ctx context.Context, to, subject, body string, ref zap.Field) error {
	if err := s.Mailer.Send(ctx, to, subject, body); err != nil {
		s.Logger.Error("email delivery failed", ref, zap.String("subject", subject), zap.Error(err))
		return err
	}
	s.Logger.Info("email sent", ref, zap.String("subject", subject))
	return nil
}

func (s *DefaultNotificationService) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}
