package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types.
const (
	NotifyMentorshipRequest   = "mentorship_request"
	NotifyMentorshipAccepted  = "mentorship_accepted"
	NotifyMentorshipRejected  = "mentorship_rejected"
	NotifyMentorshipCompleted = "mentorship_completed"
	NotifyEventReminder       = "event_reminder"
	NotifyPostReply           = "post_reply"
	NotifyEventRegistration   = "event_registration"
	NotifyMessage             = "message"
)

// Models a notification can point at.
const (
	RelatedMentorship = "Mentorship"
	RelatedPost       = "Post"
	RelatedEvent      = "Event"
)

// Notification is an in-app notice shown in the user's bell.
type Notification struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string    `gorm:"type:uuid;not null;index:idx_notification_user" json:"userId"`
	Type         string    `gorm:"type:text;not null" json:"type"`
	Title        string    `gorm:"type:text;not null" json:"title"`
	Message      string    `gorm:"type:text;not null" json:"message"`
	RelatedID    string    `gorm:"type:text" json:"relatedId,omitempty"`
	RelatedModel string    `gorm:"type:text" json:"relatedModel,omitempty"`
	IsRead       bool      `gorm:"not null;default:false;index:idx_notification_user" json:"isRead"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}
