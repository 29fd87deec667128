package handler

import (
	"alumnihub/backend/internal/attachments"
	"alumnihub/backend/internal/auth"
	"alumnihub/backend/internal/matching"
	"alumnihub/backend/internal/mentorship"
	"alumnihub/backend/internal/messaging"
	"alumnihub/backend/internal/models"
	"alumnihub/backend/internal/storage"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockAuth struct {
	mock.Mock
}

func (m *MockAuth) Register(ctx context.Context, in auth.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, in)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockAuth) VerifyEmail(ctx context.Context, token string) (*auth.Session, error) {
	args := m.Called(ctx, token)
	s, _ := args.Get(0).(*auth.Session)
	return s, args.Error(1)
}

func (m *MockAuth) ResendVerification(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuth) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	args := m.Called(ctx, email, password)
	s, _ := args.Get(0).(*auth.Session)
	return s, args.Error(1)
}

func (m *MockAuth) Authenticate(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *MockAuth) Me(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockAuth) ChangePassword(ctx context.Context, userID, current, next string) error {
	return m.Called(ctx, userID, current, next).Error(0)
}

func (m *MockAuth) TelegramLinkCode(ctx context.Context, userID string) (string, time.Time, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type MockMentorship struct {
	mock.Mock
}

func (m *MockMentorship) ListMentors(ctx context.Context, f storage.MentorFilter) ([]models.User, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]models.User)
	return list, args.Error(1)
}

func (m *MockMentorship) Recommend(ctx context.Context, goals string) ([]matching.Match, error) {
	args := m.Called(ctx, goals)
	list, _ := args.Get(0).([]matching.Match)
	return list, args.Error(1)
}

func (m *MockMentorship) CreateRequest(ctx context.Context, menteeID string, in mentorship.CreateInput) (*models.MentorshipRequest, error) {
	args := m.Called(ctx, menteeID, in)
	r, _ := args.Get(0).(*models.MentorshipRequest)
	return r, args.Error(1)
}

func (m *MockMentorship) UpdateStatus(ctx context.Context, callerID, requestID string, in mentorship.StatusInput) (*models.MentorshipRequest, error) {
	args := m.Called(ctx, callerID, requestID, in)
	r, _ := args.Get(0).(*models.MentorshipRequest)
	return r, args.Error(1)
}

func (m *MockMentorship) ListForUser(ctx context.Context, userID string) ([]models.MentorshipRequest, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]models.MentorshipRequest)
	return list, args.Error(1)
}

func (m *MockMentorship) UpdateAvailability(ctx context.Context, mentorID string, in mentorship.AvailabilityInput) (*models.User, error) {
	args := m.Called(ctx, mentorID, in)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type MockMessaging struct {
	mock.Mock
}

func (m *MockMessaging) Send(ctx context.Context, senderID string, in messaging.SendInput) (*models.Message, error) {
	args := m.Called(ctx, senderID, in)
	msg, _ := args.Get(0).(*models.Message)
	return msg, args.Error(1)
}

func (m *MockMessaging) History(ctx context.Context, userID, mentorshipID string) ([]models.Message, error) {
	args := m.Called(ctx, userID, mentorshipID)
	list, _ := args.Get(0).([]models.Message)
	return list, args.Error(1)
}

func (m *MockMessaging) UnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessaging) MarkRead(ctx context.Context, userID, mentorshipID string) (int64, error) {
	args := m.Called(ctx, userID, mentorshipID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessaging) AttachmentUploadURL(ctx context.Context, userID, mentorshipID, fileName string) (*attachments.Upload, error) {
	args := m.Called(ctx, userID, mentorshipID, fileName)
	up, _ := args.Get(0).(*attachments.Upload)
	return up, args.Error(1)
}
