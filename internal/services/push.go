package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// PushService relays admin broadcast messages to registered devices via
// Firebase Cloud Messaging. It is optional: when credentials are absent the
// daemon runs without it and broadcasts stay local.
type PushService struct {
	client *messaging.Client
}

func newPushService(ctx context.Context, opt option.ClientOption) (*PushService, error) {
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}
	return &PushService{client: client}, nil
}

// NewPushService creates a push service from a credentials file.
func NewPushService(credentialsFile string) (*PushService, error) {
	return newPushService(context.Background(), option.WithCredentialsFile(credentialsFile))
}

// NewPushServiceFromBase64 creates a push service from base64-encoded
// credentials, for cloud deployments where uploading a file is awkward.
func NewPushServiceFromBase64(credentialsBase64 string) (*PushService, error) {
	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}
	return newPushService(context.Background(), option.WithCredentialsJSON(credentialsJSON))
}

// SendBroadcast fans a console broadcast out to the given device tokens.
// A nil or empty token list is a no-op so the daemon can call it
// unconditionally after a local broadcast.
func (s *PushService) SendBroadcast(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	if len(tokens) == 0 {
		return nil
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	resp, err := s.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending multicast message: %w", err)
	}

	log.Printf("✅ Push broadcast sent: %d success, %d failures", resp.SuccessCount, resp.FailureCount)
	return nil
}
