package auth

import (
	"alumnihub/backend/internal/models"
	"alumnihub/backend/internal/notify"
	"alumnihub/backend/internal/storage"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type fakeStore struct {
	users     map[string]*models.User
	cooldowns map[string]bool
	codes     map[string]string
	err       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[string]*models.User{},
		cooldowns: map[string]bool{},
		codes:     map[string]string{},
	}
}

func (f *fakeStore) CreateUser(ctx context.Context, user *models.User) error {
	if f.err != nil {
		return f.err
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return storage.ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeStore) SaveUser(ctx context.Context, user *models.User) error {
	cp := *user
	f.users[user.ID] = &cp
	return f.err
}

func (f *fakeStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetUserByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	for _, u := range f.users {
		if u.EmailVerificationToken != nil && *u.EmailVerificationToken == token &&
			u.EmailVerificationExpires != nil && u.EmailVerificationExpires.After(time.Now()) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) AcquireCooldown(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if f.cooldowns[key] {
		return false, nil
	}
	f.cooldowns[key] = true
	return true, nil
}

func (f *fakeStore) SaveLinkCode(ctx context.Context, code, userID string, ttl time.Duration) error {
	f.codes[code] = userID
	return nil
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(n notify.Notice) {
	m.Called(n)
}
