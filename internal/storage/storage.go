// Package storage persists the domain in PostgreSQL through GORM and keeps the
// short-lived state (pub/sub, cooldowns, link codes) in Redis.
package storage

import (
	"alumnihub/backend/internal/models"
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// MentorFilter narrows the mentor listing. Zero values disable a condition.
type MentorFilter struct {
	Expertise string
	Available *bool
}

// UserStats counts what a user has taken part in.
type UserStats struct {
	Posts       int64 `json:"posts"`
	Events      int64 `json:"events"`
	Mentorships int64 `json:"mentorships"`
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	SaveUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByVerificationToken(ctx context.Context, token string) (*models.User, error)
	GetUserByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListMentors(ctx context.Context, f MentorFilter) ([]models.User, error)
	GetUserStats(ctx context.Context, userID string) (UserStats, error)
}

// MentorshipStore is what the mentorship lifecycle needs. WithMentorLock runs fn
// in a transaction holding a row lock on the mentor, so counter changes for
// one mentor never interleave.
type MentorshipStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	ListMentors(ctx context.Context, f MentorFilter) ([]models.User, error)

	CreateMentorship(ctx context.Context, req *models.MentorshipRequest) error
	GetMentorship(ctx context.Context, id string) (*models.MentorshipRequest, error)
	FindOpenMentorship(ctx context.Context, mentorID, menteeID string) (*models.MentorshipRequest, error)
	SaveMentorship(ctx context.Context, req *models.MentorshipRequest) error
	ListMentorshipsForUser(ctx context.Context, userID string) ([]models.MentorshipRequest, error)
	ListMentorships(ctx context.Context) ([]models.MentorshipRequest, error)
	AdjustActiveMentees(ctx context.Context, mentorID string, delta int) error

	WithMentorLock(ctx context.Context, mentorID string, fn func(tx MentorshipStore, mentor *models.User) error) error
}

type MessageStore interface {
	GetMentorship(ctx context.Context, id string) (*models.MentorshipRequest, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, mentorshipID string) ([]models.Message, error)
	MarkMessagesRead(ctx context.Context, mentorshipID, receiverID string) (int64, error)
	CountUnreadMessages(ctx context.Context, receiverID string) (int64, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID string) (int64, error)
	MarkNotificationRead(ctx context.Context, userID, id string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error)
	DeleteNotification(ctx context.Context, userID, id string) error
}

type PostStore interface {
	ListPosts(ctx context.Context, category string) ([]models.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, p *models.Post) error
	SetPostLikes(ctx context.Context, p *models.Post) error
	AddPostReply(ctx context.Context, r *models.PostReply) error
	DeletePost(ctx context.Context, id string) error
}

type EventStore interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	ListEventsForUser(ctx context.Context, userID string) ([]models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	CreateEvent(ctx context.Context, e *models.Event) error
	AddEventAttendee(ctx context.Context, a *models.EventAttendee) error
}

// LiveStore holds the Redis side: fan-out of notifications and short-lived keys.
type LiveStore interface {
	PublishNotification(ctx context.Context, userID string, payload []byte) error
	SubscribeNotifications(ctx context.Context) *redis.PubSub
	AcquireCooldown(ctx context.Context, key string, ttl time.Duration) (bool, error)
	SaveLinkCode(ctx context.Context, code, userID string, ttl time.Duration) error
	ConsumeLinkCode(ctx context.Context, code string) (string, error)
}

// Storage is the full persistence surface of the service.
type Storage interface {
	UserStore
	MentorshipStore
	MessageStore
	NotificationStore
	PostStore
	EventStore
	LiveStore
}

// Service implements Storage on top of GORM and Redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

var _ Storage = (*Service)(nil)

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// invalidTextRepresentation is the PostgreSQL code for a value that does not
// parse as its column type, such as a malformed uuid.
const invalidTextRepresentation = "22P02"

// translate maps GORM sentinel errors to the package ones. An id that is not
// a valid uuid cannot match a row, so it reads as ErrNotFound.
func translate(err error) error {
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation:
		return ErrNotFound
	}
	return err
}
