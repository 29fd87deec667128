// Package handler exposes the services over HTTP with gin.
package handler

import (
	"alumnihub/backend/internal/attachments"
	"alumnihub/backend/internal/auth"
	"alumnihub/backend/internal/events"
	"alumnihub/backend/internal/livehub"
	"alumnihub/backend/internal/logging"
	"alumnihub/backend/internal/matching"
	"alumnihub/backend/internal/mentorship"
	"alumnihub/backend/internal/messaging"
	"alumnihub/backend/internal/models"
	"alumnihub/backend/internal/notify"
	"alumnihub/backend/internal/posts"
	"alumnihub/backend/internal/storage"
	"alumnihub/backend/internal/users"
	"context"
	"time"
)

type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*models.User, error)
	VerifyEmail(ctx context.Context, token string) (*auth.Session, error)
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*auth.Session, error)
	Authenticate(token string) (string, error)
	Me(ctx context.Context, userID string) (*models.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	TelegramLinkCode(ctx context.Context, userID string) (string, time.Time, error)
}

type MentorshipService interface {
	ListMentors(ctx context.Context, f storage.MentorFilter) ([]models.User, error)
	Recommend(ctx context.Context, goals string) ([]matching.Match, error)
	CreateRequest(ctx context.Context, menteeID string, in mentorship.CreateInput) (*models.MentorshipRequest, error)
	UpdateStatus(ctx context.Context, callerID, requestID string, in mentorship.StatusInput) (*models.MentorshipRequest, error)
	ListForUser(ctx context.Context, userID string) ([]models.MentorshipRequest, error)
	UpdateAvailability(ctx context.Context, mentorID string, in mentorship.AvailabilityInput) (*models.User, error)
}

type MessagingService interface {
	Send(ctx context.Context, senderID string, in messaging.SendInput) (*models.Message, error)
	History(ctx context.Context, userID, mentorshipID string) ([]models.Message, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, mentorshipID string) (int64, error)
	AttachmentUploadURL(ctx context.Context, userID, mentorshipID, fileName string) (*attachments.Upload, error)
}

type NotificationService interface {
	List(ctx context.Context, userID string) (*notify.Inbox, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID, id string) error
}

type PostService interface {
	List(ctx context.Context, category string) ([]models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, authorID string, in posts.PostInput) (*models.Post, error)
	Reply(ctx context.Context, userID, postID, content string) (*models.Post, error)
	ToggleLike(ctx context.Context, userID, postID string) (*posts.LikeResult, error)
	Delete(ctx context.Context, userID, postID string) error
}

type EventService interface {
	List(ctx context.Context) ([]models.Event, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, in events.EventInput) (*models.Event, error)
	Register(ctx context.Context, userID, eventID string, in events.RegisterInput) (*models.Event, error)
	ListForUser(ctx context.Context, userID string) ([]models.Event, error)
}

type UserService interface {
	Directory(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, in users.ProfileInput) (*models.User, error)
	MyPosts(ctx context.Context, userID string) ([]models.Post, error)
	MyEvents(ctx context.Context, userID string) ([]models.Event, error)
	MyMentorships(ctx context.Context, userID string) ([]models.MentorshipRequest, error)
	Stats(ctx context.Context, userID string) (storage.UserStats, error)
}

// Services bundles what the handlers call. Hub may be nil, which turns the
// notification socket off.
type Services struct {
	Auth          AuthService
	Mentorship    MentorshipService
	Messages      MessagingService
	Notifications NotificationService
	Posts         PostService
	Events        EventService
	Users         UserService
	Hub           *livehub.Hub
}

// Handler holds the services behind the HTTP routes.
type Handler struct {
	Services
	origins []string
	log     *logging.Logger
}

// NewHandler creates the handler. origins is the CORS allow list and is
// also used to check websocket upgrades; empty allows any origin.
func NewHandler(s Services, origins []string, log *logging.Logger) *Handler {
	return &Handler{Services: s, origins: origins, log: log.With("component", "http")}
}
