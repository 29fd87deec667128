package notify

import (
	"alumnihub/backend/internal/logging"
	"alumnihub/backend/internal/mailer"
	"alumnihub/backend/internal/models"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestDispatcher(store *MockStore, mail *MockMailer, size int) *Dispatcher {
	return NewDispatcher(store, mail, logging.Discard(), size)
}

func TestDispatcher_DeliverPersistsAndPublishes(t *testing.T) {
	// Arrange
	store := new(MockStore)
	mail := new(MockMailer)
	d := newTestDispatcher(store, mail, 4)

	store.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == "u1" && n.Type == models.NotifyMentorshipAccepted && n.RelatedModel == models.RelatedMentorship
	})).Return(nil).Once()
	store.On("PublishNotification", mock.Anything, "u1", mock.Anything).Return(nil).Once()

	// Act
	d.deliver(Notice{
		UserID:       "u1",
		Type:         models.NotifyMentorshipAccepted,
		Title:        "Accepted",
		Message:      "Ravi accepted",
		RelatedID:    "r1",
		RelatedModel: models.RelatedMentorship,
	})

	// Assert
	store.AssertExpectations(t)
	mail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestDispatcher_FailuresAreSwallowed(t *testing.T) {
	store := new(MockStore)
	mail := new(MockMailer)
	d := newTestDispatcher(store, mail, 4)

	store.On("CreateNotification", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
	mail.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

	assert.NotPanics(t, func() {
		d.deliver(Notice{
			UserID: "u1",
			Type:   models.NotifyMentorshipRequest,
			Email:  &mailer.Mail{To: "m@example.com", Subject: "s"},
		})
	})

	store.AssertExpectations(t)
	store.AssertNotCalled(t, "PublishNotification", mock.Anything, mock.Anything, mock.Anything)
	mail.AssertExpectations(t)
}

func TestDispatcher_EmailOnly(t *testing.T) {
	store := new(MockStore)
	mail := new(MockMailer)
	d := newTestDispatcher(store, mail, 4)

	mail.On("Send", mock.Anything, mailer.Mail{To: "x@example.com", Subject: "Verify"}).Return(nil).Once()

	d.deliver(Notice{UserID: "u1", Email: &mailer.Mail{To: "x@example.com", Subject: "Verify"}})

	mail.AssertExpectations(t)
	store.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
}

func TestDispatcher_Telegram(t *testing.T) {
	chatID := int64(777)

	tests := []struct {
		name     string
		user     *models.User
		wantSend bool
	}{
		{"linked and opted in", &models.User{ID: "u1", TelegramChatID: &chatID, TelegramNotify: true}, true},
		{"linked but opted out", &models.User{ID: "u1", TelegramChatID: &chatID, TelegramNotify: false}, false},
		{"not linked", &models.User{ID: "u1", TelegramNotify: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			mail := new(MockMailer)
			tg := new(MockTelegram)
			d := newTestDispatcher(store, mail, 4)
			d.SetTelegram(tg)

			store.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)
			store.On("PublishNotification", mock.Anything, "u1", mock.Anything).Return(nil)
			store.On("GetUserByID", mock.Anything, "u1").Return(tt.user, nil)
			if tt.wantSend {
				tg.On("Send", mock.Anything, chatID, "New Message\nRavi sent you a message").Return(nil).Once()
			}

			d.deliver(Notice{UserID: "u1", Type: models.NotifyMessage, Title: "New Message", Message: "Ravi sent you a message"})

			if tt.wantSend {
				tg.AssertExpectations(t)
			} else {
				tg.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestDispatcher_NotifyDropsWhenFull(t *testing.T) {
	d := newTestDispatcher(new(MockStore), new(MockMailer), 1)

	d.Notify(Notice{UserID: "a"})
	d.Notify(Notice{UserID: "b"})

	assert.Len(t, d.queue, 1)
	got := <-d.queue
	assert.Equal(t, "a", got.UserID)
}

func TestDispatcher_RunDrainsOnShutdown(t *testing.T) {
	store := new(MockStore)
	mail := new(MockMailer)
	d := newTestDispatcher(store, mail, 8)

	mail.On("Send", mock.Anything, mock.Anything).Return(nil).Times(3)
	for i := 0; i < 3; i++ {
		d.Notify(Notice{Email: &mailer.Mail{To: "x@example.com"}})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Run(ctx)

	mail.AssertExpectations(t)
	assert.Empty(t, d.queue)
}
