package notify

import (
	"alumnihub/backend/internal/mailer"
	"alumnihub/backend/internal/models"
	"alumnihub/backend/internal/storage"
	"context"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) PublishNotification(ctx context.Context, userID string, payload []byte) error {
	args := m.Called(ctx, userID, payload)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, mail mailer.Mail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

type MockTelegram struct {
	mock.Mock
}

func (m *MockTelegram) Send(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

// fakeNotificationStore is an in-memory storage.NotificationStore.
type fakeNotificationStore struct {
	items []models.Notification
	err   error
}

var _ storage.NotificationStore = (*fakeNotificationStore)(nil)

func (f *fakeNotificationStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	f.items = append(f.items, *n)
	return f.err
}

func (f *fakeNotificationStore) ListNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Notification
	for _, n := range f.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeNotificationStore) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	var n int64
	for _, it := range f.items {
		if it.UserID == userID && !it.IsRead {
			n++
		}
	}
	return n, f.err
}

func (f *fakeNotificationStore) MarkNotificationRead(ctx context.Context, userID, id string) error {
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].UserID == userID {
			f.items[i].IsRead = true
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeNotificationStore) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	var n int64
	for i := range f.items {
		if f.items[i].UserID == userID && !f.items[i].IsRead {
			f.items[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationStore) DeleteNotification(ctx context.Context, userID, id string) error {
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}
