package fcm

import (
	"context"
	"fmt"

	"bookmark-backend/pkg/logger"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

const defaultIcon = "/icon-192.svg"

// multicastSender is the part of *messaging.Client the client uses
type multicastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// Client sends reminder pushes through Firebase Cloud Messaging
type Client struct {
	sender multicastSender
}

// NewClient initializes Firebase from a service account file. An empty path
// falls back to application default credentials.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	logger.Component("fcm").Info("Client initialized")
	return &Client{sender: messagingClient}, nil
}

// NotificationData is one push. Tag groups pushes for the same reminder so a
// device shows only the latest one.
type NotificationData struct {
	Title       string
	Body        string
	Data        map[string]string
	ClickAction string
	Tag         string
}

// SendResult reports a multicast outcome. Stale lists tokens FCM rejected as
// unregistered or malformed; transient failures are not included.
type SendResult struct {
	Delivered int
	Failed    int
	Stale     []string
}

// SendToDevices pushes n to every token
func (c *Client) SendToDevices(ctx context.Context, tokens []string, n NotificationData) (*SendResult, error) {
	if len(tokens) == 0 {
		return &SendResult{}, nil
	}

	resp, err := c.sender.SendEachForMulticast(ctx, buildMulticast(tokens, n))
	if err != nil {
		return nil, fmt.Errorf("failed to send FCM multicast message: %w", err)
	}

	result := collectResult(tokens, resp)
	logger.Component("fcm").WithFields(logrus.Fields{
		"delivered": result.Delivered,
		"failed":    result.Failed,
		"stale":     len(result.Stale),
		"tag":       n.Tag,
	}).Debug("Multicast sent")
	return result, nil
}

func buildMulticast(tokens []string, n NotificationData) *messaging.MulticastMessage {
	msg := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: n.Data,
		Android: &messaging.AndroidConfig{
			CollapseKey: n.Tag,
			Priority:    "high",
			Notification: &messaging.AndroidNotification{
				Tag: n.Tag,
			},
		},
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: n.Title,
				Body:  n.Body,
				Icon:  defaultIcon,
				Tag:   n.Tag,
			},
		},
	}
	if n.ClickAction != "" {
		msg.Webpush.FCMOptions = &messaging.WebpushFCMOptions{Link: n.ClickAction}
	}
	return msg
}

func collectResult(tokens []string, resp *messaging.BatchResponse) *SendResult {
	result := &SendResult{}
	for i, r := range resp.Responses {
		if r.Success {
			result.Delivered++
			continue
		}
		result.Failed++
		if messaging.IsUnregistered(r.Error) || messaging.IsInvalidArgument(r.Error) {
			result.Stale = append(result.Stale, tokens[i])
		}
	}
	return result
}
