package notify

import (
	"alumnihub/backend/internal/apperr"
	"alumnihub/backend/internal/models"
	"alumnihub/backend/internal/storage"
	"context"
	"errors"
)

// listLimit caps the bell dropdown.
const listLimit = 50

// Service reads and updates the caller's own notifications.
type Service struct {
	store storage.NotificationStore
}

func NewService(store storage.NotificationStore) *Service {
	return &Service{store: store}
}

// Inbox is the notification list with the unread total.
type Inbox struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
}

func (s *Service) List(ctx context.Context, userID string) (*Inbox, error) {
	list, err := s.store.ListNotifications(ctx, userID, listLimit)
	if err != nil {
		return nil, apperr.Internalf(err, "list notifications")
	}
	unread, err := s.store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return nil, apperr.Internalf(err, "count notifications")
	}
	if list == nil {
		list = []models.Notification{}
	}
	return &Inbox{Notifications: list, UnreadCount: unread}, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, apperr.Internalf(err, "count notifications")
	}
	return n, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	return ownErr(s.store.MarkNotificationRead(ctx, userID, id), "mark notification read")
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		return 0, apperr.Internalf(err, "mark all notifications read")
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return ownErr(s.store.DeleteNotification(ctx, userID, id), "delete notification")
}

func ownErr(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return apperr.NotFoundf("Notification not found")
	}
	return apperr.Internalf(err, "%s", op)
}
