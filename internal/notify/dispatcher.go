// Package notify delivers notices to users after the action that caused them
// has committed. Delivery is best effort: every failure is logged and dropped
// and callers never see it.
package notify

import (
	"alumnihub/backend/internal/config"
	"alumnihub/backend/internal/logging"
	"alumnihub/backend/internal/mailer"
	"alumnihub/backend/internal/models"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Notice is one thing to tell one user. Type empty means no in-app record
// (and therefore no live push or Telegram message); Email nil means no mail.
type Notice struct {
	UserID       string
	Type         string
	Title        string
	Message      string
	RelatedID    string
	RelatedModel string
	Email        *mailer.Mail
}

// Notifier accepts notices without blocking the caller.
type Notifier interface {
	Notify(n Notice)
}

// Store is what the dispatcher persists and publishes through.
type Store interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	PublishNotification(ctx context.Context, userID string, payload []byte) error
}

// TelegramSender pushes a text to a linked chat.
type TelegramSender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Dispatcher queues notices in memory and delivers them from Run.
// Notices still queued when the process dies are lost.
type Dispatcher struct {
	store    Store
	mail     mailer.Sender
	telegram TelegramSender
	log      *logging.Logger
	queue    chan Notice
	timeout  time.Duration
	now      func() time.Time
}

func NewDispatcher(store Store, mail mailer.Sender, log *logging.Logger, size int) *Dispatcher {
	if size <= 0 {
		size = config.NotificationQueueSize
	}
	return &Dispatcher{
		store:   store,
		mail:    mail,
		log:     log.With("component", "notify"),
		queue:   make(chan Notice, size),
		timeout: config.NotificationTimeout,
		now:     time.Now,
	}
}

// SetTelegram enables delivery to linked Telegram chats.
func (d *Dispatcher) SetTelegram(t TelegramSender) {
	d.telegram = t
}

// Notify enqueues n. When the queue is full the notice is dropped.
func (d *Dispatcher) Notify(n Notice) {
	select {
	case d.queue <- n:
	default:
		d.log.Warn("notification queue full, dropping notice", "user_id", n.UserID, "type", n.Type)
	}
}

// Run delivers queued notices until ctx is cancelled, then drains what is left.
func (d *Dispatcher) Run(ctx context.Context) {
	d.log.Info("notification dispatcher started")
	for {
		select {
		case n := <-d.queue:
			d.deliver(n)
		case <-ctx.Done():
			d.drain()
			d.log.Info("notification dispatcher stopped")
			return
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case n := <-d.queue:
			d.deliver(n)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(n Notice) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if n.Type != "" {
		rec := &models.Notification{
			UserID:       n.UserID,
			Type:         n.Type,
			Title:        n.Title,
			Message:      n.Message,
			RelatedID:    n.RelatedID,
			RelatedModel: n.RelatedModel,
			CreatedAt:    d.now(),
		}
		if err := d.store.CreateNotification(ctx, rec); err != nil {
			d.log.Error("failed to save notification", "user_id", n.UserID, "type", n.Type, "error", err)
		} else {
			d.publish(ctx, rec)
		}
		d.sendTelegram(ctx, n)
	}

	if n.Email != nil {
		if err := d.mail.Send(ctx, *n.Email); err != nil {
			d.log.Error("failed to send email", "to", n.Email.To, "subject", n.Email.Subject, "error", err)
		}
	}
}

func (d *Dispatcher) publish(ctx context.Context, rec *models.Notification) {
	payload, err := json.Marshal(rec)
	if err != nil {
		d.log.Error("failed to encode notification", "id", rec.ID, "error", err)
		return
	}
	if err := d.store.PublishNotification(ctx, rec.UserID, payload); err != nil {
		d.log.Warn("failed to publish notification", "user_id", rec.UserID, "error", err)
	}
}

func (d *Dispatcher) sendTelegram(ctx context.Context, n Notice) {
	if d.telegram == nil {
		return
	}
	user, err := d.store.GetUserByID(ctx, n.UserID)
	if err != nil {
		d.log.Warn("failed to load user for telegram delivery", "user_id", n.UserID, "error", err)
		return
	}
	if user.TelegramChatID == nil || !user.TelegramNotify {
		return
	}
	text := fmt.Sprintf("%s\n%s", n.Title, n.Message)
	if err := d.telegram.Send(ctx, *user.TelegramChatID, text); err != nil {
		d.log.Warn("failed to send telegram notification", "user_id", n.UserID, "error", err)
	}
}
