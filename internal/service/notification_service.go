package service

import (
	"context"
	"time"

	"geneailogy/tree-service/internal/models"
	"geneailogy/tree-service/internal/repository"
	"geneailogy/tree-service/pkg/helpers"
)

// PublishNotificationInput carries a notification from a producing collaborator
type PublishNotificationInput struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Type        string `json:"type" validate:"required,max=50"`
	Message     string `json:"message" validate:"required"`
	SenderID    string `json:"sender_id"`
	RelatedID   string `json:"related_id"`
}

// NotificationService persists notifications and produces the raw events the
// live feed fans out to sessions
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	validator        *helpers.CustomValidator
	ids              *helpers.IDGenerator
}

func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	validator *helpers.CustomValidator,
	ids *helpers.IDGenerator,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		validator:        validator,
		ids:              ids,
	}
}

// Publish persists the notification and returns both the stored record and
// the live-stream event to broadcast
func (s *NotificationService) Publish(ctx context.Context, input PublishNotificationInput) (*models.Notification, models.NotificationEvent, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, models.NotificationEvent{}, err
	}

	notification := &models.Notification{
		ID:        s.ids.GenerateUUID(),
		UserID:    input.RecipientID,
		Type:      input.Type,
		Message:   input.Message,
		SenderID:  input.SenderID,
		RelatedID: input.RelatedID,
		CreatedAt: time.Now(),
	}

	if err := s.notificationRepo.CreateNotification(ctx, notification); err != nil {
		return nil, models.NotificationEvent{}, err
	}

	event := models.NotificationEvent{
		ID:        notification.ID,
		Timestamp: models.NewNativeTimestamp(notification.CreatedAt),
		Type:      notification.Type,
		Message:   notification.Message,
		SenderID:  notification.SenderID,
		RelatedID: notification.RelatedID,
	}

	return notification, event, nil
}

// List retrieves the most recent notifications for a user
func (s *NotificationService) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	return s.notificationRepo.ListNotifications(ctx, userID, limit)
}

// MarkAsRead marks one notification as read
func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	return s.notificationRepo.MarkAsRead(ctx, notificationID, userID)
}
