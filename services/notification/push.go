package notification

import (
	"context"
	"fmt"

	"portfolio/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// OwnerNotifier alerts the site owner about new bookings and sales.
type OwnerNotifier interface {
	NotifyOwner(ctx context.Context, alert models.OwnerAlertPayload) error
}

// FCMOwnerNotifier pushes owner alerts to an FCM topic the owner's devices subscribe to.
type FCMOwnerNotifier struct {
	client *messaging.Client
	topic  string
}

// NewFCMOwnerNotifier initializes Firebase from a service account file.
func NewFCMOwnerNotifier(ctx context.Context, credentialsFile, topic string) (*FCMOwnerNotifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("FCMOwnerNotifier: failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("FCMOwnerNotifier: failed to create messaging client: %w", err)
	}
	return &FCMOwnerNotifier{client: client, topic: topic}, nil
}

func (n *FCMOwnerNotifier) NotifyOwner(ctx context.Context, alert models.OwnerAlertPayload) error {
	msg := &messaging.Message{
		Topic: n.topic,
		Notification: &messaging.Notification{
			Title: alert.Title,
			Body:  alert.Body,
		},
		Data: alert.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
	if _, err := n.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("FCMOwnerNotifier: failed to send message: %w", err)
	}
	return nil
}

// NoopOwnerNotifier drops alerts when no push credentials are configured.
type NoopOwnerNotifier struct{}

func (NoopOwnerNotifier) NotifyOwner(context.Context, models.OwnerAlertPayload) error { return nil }
