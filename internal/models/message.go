package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is one entry in the conversation log of a mentorship.
// The embedded timestamps order the log; only Read ever changes after insert.
type Message struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`
	// MentorshipID is the request this message belongs to.
	MentorshipID string `gorm:"type:uuid;not null;index:idx_message_mentorship" json:"mentorshipId"`
	// SenderID and ReceiverID are always the two parties of the mentorship.
	SenderID   string `gorm:"type:uuid;not null" json:"senderId"`
	ReceiverID string `gorm:"type:uuid;not null;index:idx_message_receiver" json:"receiverId"`
	// Content is the trimmed message text.
	Content string `gorm:"type:text;not null" json:"content"`
	// Read flips to true once the receiver has fetched the conversation.
	Read bool `gorm:"not null;default:false;index:idx_message_receiver" json:"read"`

	Attachments []Attachment `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"attachments"`

	CreatedAt time.Time `gorm:"index:idx_message_mentorship" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Sender   *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver *User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

// Attachment references an uploaded file in object storage.
type Attachment struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	MessageID string `gorm:"type:uuid;not null;index" json:"-"`
	FileName  string `gorm:"type:text;not null" json:"fileName"`
	FileKey   string `gorm:"type:text;not null" json:"fileKey"`
	FileType  string `gorm:"type:text" json:"fileType,omitempty"`
	// FileURL is filled with a short-lived download link when served.
	FileURL string `gorm:"-" json:"fileUrl,omitempty"`
}

// BeforeCreate generates a UUID for new messages.
func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
