package service

import (
	"context"

	"silentlibrary/internal/model"
	"silentlibrary/internal/repository"
)

const dashboardNotificationLimit = 10

// NotificationService exposes user notifications.
type NotificationService interface {
	Notify(ctx context.Context, userID uint, message string) error
	Recent(ctx context.Context, userID uint) ([]model.Notification, error)
}

type notificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService creates a new notification service.
func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) Notify(ctx context.Context, userID uint, message string) error {
	return s.repo.Create(ctx, &model.Notification{UserID: userID, Message: message})
}

func (s *notificationService) Recent(ctx context.Context, userID uint) ([]model.Notification, error) {
	return s.repo.ListByUser(ctx, userID, dashboardNotificationLimit)
}
