package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is an alumni meetup users can register for.
type Event struct {
	ID          string          `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string          `gorm:"type:text;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Time        string          `gorm:"type:text" json:"time"`
	Location    string          `gorm:"type:text" json:"location"`
	Category    string          `gorm:"type:text" json:"category"`
	Attendees   []EventAttendee `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"attendees"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// EventAttendee is one registration for an event.
type EventAttendee struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	EventID       string    `gorm:"type:uuid;not null;index" json:"-"`
	UserID        string    `gorm:"type:uuid;index" json:"user"`
	Name          string    `gorm:"type:text;not null" json:"name"`
	Email         string    `gorm:"type:text;not null" json:"email"`
	Phone         string    `gorm:"type:text" json:"phone,omitempty"`
	AttendeeCount int       `gorm:"not null;default:1" json:"attendeeCount"`
	RegisteredAt  time.Time `gorm:"autoCreateTime" json:"registeredAt"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return
}

// IsRegistered reports whether userID or email already holds a registration.
func (e *Event) IsRegistered(userID, email string) bool {
	email = NormalizeEmail(email)
	for _, a := range e.Attendees {
		if (email != "" && NormalizeEmail(a.Email) == email) || (userID != "" && a.UserID == userID) {
			return true
		}
	}
	return false
}
