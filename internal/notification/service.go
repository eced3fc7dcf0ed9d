package notification

import (
	"context"
	"fmt"

	authrepo "bookmark-backend/internal/auth/repository"
	"bookmark-backend/pkg/fcm"
	"bookmark-backend/pkg/logger"

	"github.com/sirupsen/logrus"
)

const reminderClickAction = "/reminders"

// pushClient is the FCM surface the service needs
type pushClient interface {
	SendToDevices(ctx context.Context, tokens []string, notification fcm.NotificationData) (*fcm.SendResult, error)
}

// Service fans reminder notifications out to every registered device of a user
type Service struct {
	fcmRepo   authrepo.FCMTokenRepository
	fcmClient pushClient
}

// NewService creates a push service. fcmClient is usually a *fcm.Client.
func NewService(fcmRepo authrepo.FCMTokenRepository, fcmClient pushClient) *Service {
	return &Service{
		fcmRepo:   fcmRepo,
		fcmClient: fcmClient,
	}
}

// NotifyUser sends one notification to all of the user's devices and returns
// how many accepted it. Tokens FCM reports as stale are removed.
func (s *Service) NotifyUser(ctx context.Context, userID, title, body string, data map[string]string) (int, error) {
	log := logger.Component("push").WithField("user_id", userID)

	tokens, err := s.fcmRepo.GetTokensByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get FCM tokens: %w", err)
	}
	if len(tokens) == 0 {
		log.Debug("No FCM tokens, skipping push notification")
		return 0, nil
	}

	tokenStrings := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	result, err := s.fcmClient.SendToDevices(ctx, tokenStrings, fcm.NotificationData{
		Title:       title,
		Body:        body,
		Data:        data,
		ClickAction: reminderClickAction,
		Tag:         data["reminder_id"],
	})
	if err != nil {
		return 0, fmt.Errorf("failed to send push notification: %w", err)
	}

	// Cleanup stale tokens
	if len(result.Stale) > 0 {
		log.WithField("count", len(result.Stale)).Info("Cleaning up stale tokens")
		for _, token := range result.Stale {
			if err := s.fcmRepo.DeleteToken(ctx, token); err != nil {
				log.WithError(err).Warn("Failed to delete FCM token")
			}
		}
	}

	log.WithFields(logrus.Fields{
		"delivered": result.Delivered,
		"devices":   len(tokenStrings),
	}).Debug("Push notification sent")
	return result.Delivered, nil
}
