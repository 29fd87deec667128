package messaging

import (
	"alumnihub/backend/internal/attachments"
	"alumnihub/backend/internal/models"
	"alumnihub/backend/internal/notify"
	"alumnihub/backend/internal/storage"
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"
)

type fakeStore struct {
	mentorships map[string]models.MentorshipRequest
	users       map[string]models.User
	messages    []models.Message
	createErr   error
}

var _ storage.MessageStore = (*fakeStore)(nil)

func (f *fakeStore) GetMentorship(ctx context.Context, id string) (*models.MentorshipRequest, error) {
	m, ok := f.mentorships[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &m, nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (f *fakeStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	if f.createErr != nil {
		return f.createErr
	}
	msg.ID = fmt.Sprintf("msg-%d", len(f.messages)+1)
	cp := *msg
	cp.Attachments = append([]models.Attachment(nil), msg.Attachments...)
	f.messages = append(f.messages, cp)
	return nil
}

func (f *fakeStore) ListMessages(ctx context.Context, mentorshipID string) ([]models.Message, error) {
	var out []models.Message
	for _, m := range f.messages {
		if m.MentorshipID == mentorshipID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkMessagesRead(ctx context.Context, mentorshipID, receiverID string) (int64, error) {
	var n int64
	for i := range f.messages {
		m := &f.messages[i]
		if m.MentorshipID == mentorshipID && m.ReceiverID == receiverID && !m.Read {
			m.Read = true
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CountUnreadMessages(ctx context.Context, receiverID string) (int64, error) {
	var n int64
	for _, m := range f.messages {
		if m.ReceiverID == receiverID && !m.Read {
			n++
		}
	}
	return n, nil
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(n notify.Notice) {
	m.Called(n)
}

type MockPresigner struct {
	mock.Mock
}

func (m *MockPresigner) PutURL(ctx context.Context, prefix, fileName string) (*attachments.Upload, error) {
	args := m.Called(ctx, prefix, fileName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attachments.Upload), args.Error(1)
}

func (m *MockPresigner) GetURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
