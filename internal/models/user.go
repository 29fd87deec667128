package models

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Roles a user can hold.
const (
	RoleUser   = "user"
	RoleMentor = "mentor"
	RoleAdmin  = "admin"
)

// Meeting types a mentor can prefer.
const (
	MeetingVideo    = "video"
	MeetingAudio    = "audio"
	MeetingChat     = "chat"
	MeetingInPerson = "in-person"
)

// Availability describes when and how a mentor can meet.
type Availability struct {
	Days                 pq.StringArray `gorm:"type:text[]" json:"days"`
	TimeSlots            pq.StringArray `gorm:"type:text[]" json:"timeSlots"`
	PreferredMeetingType string         `gorm:"type:text;default:video" json:"preferredMeetingType"`
}

// MentorshipPreferences holds the topics and formats a mentor offers.
type MentorshipPreferences struct {
	Topics          pq.StringArray `gorm:"type:text[]" json:"topics"`
	ExperienceLevel pq.StringArray `gorm:"type:text[]" json:"experienceLevel"`
	SessionDuration int            `gorm:"default:60" json:"sessionDuration"`
}

// User is a member of the alumni network. Every user can act as a mentee;
// users with the mentor or admin role also carry a mentor profile.
type User struct {
	ID           string         `gorm:"primaryKey;type:uuid" json:"id"`
	Name         string         `gorm:"type:text;not null" json:"name"`
	Email        string         `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;type:text;not null" json:"-"`
	Batch        string         `gorm:"type:text" json:"batch,omitempty"`
	Phone        string         `gorm:"type:text" json:"phone,omitempty"`
	Role         string         `gorm:"type:text;not null;default:user" json:"role"`
	Bio          string         `gorm:"type:text" json:"bio,omitempty"`
	Company      string         `gorm:"type:text" json:"company,omitempty"`
	Position     string         `gorm:"type:text" json:"position,omitempty"`
	Expertise    pq.StringArray `gorm:"type:text[]" json:"expertise"`
	LinkedIn     string         `gorm:"column:linkedin;type:text" json:"linkedin,omitempty"`
	GitHub       string         `gorm:"column:github;type:text" json:"github,omitempty"`
	Website      string         `gorm:"type:text" json:"website,omitempty"`

	// Mentor profile.
	IsMentorAvailable     bool                  `gorm:"not null;default:false" json:"isMentorAvailable"`
	MentorCapacity        int                   `gorm:"not null;default:5" json:"mentorCapacity"`
	ActiveMentees         int                   `gorm:"not null;default:0" json:"activeMentees"`
	Availability          Availability          `gorm:"embedded;embeddedPrefix:availability_" json:"availability"`
	MentorshipPreferences MentorshipPreferences `gorm:"embedded;embeddedPrefix:pref_" json:"mentorshipPreferences"`

	// Email verification.
	IsEmailVerified          bool       `gorm:"not null;default:false" json:"isEmailVerified"`
	EmailVerificationToken   *string    `gorm:"type:text;index" json:"-"`
	EmailVerificationExpires *time.Time `json:"-"`

	// Telegram delivery of notifications.
	TelegramChatID *int64 `gorm:"uniqueIndex" json:"-"`
	TelegramNotify bool   `gorm:"not null;default:true" json:"telegramNotify"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate generates a UUID when ID is empty and normalises the email.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.Email = NormalizeEmail(u.Email)
	return
}

// MentorCapable reports whether the user may be listed and requested as a mentor.
func (u *User) MentorCapable() bool {
	return u.Role == RoleMentor || u.Role == RoleAdmin
}

// HasFreeSlot reports whether the mentor is taking new mentees.
func (u *User) HasFreeSlot() bool {
	return u.ActiveMentees < u.MentorCapacity
}

// UserSummary is the public projection of a user embedded in other payloads.
type UserSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Batch    string `json:"batch,omitempty"`
	Role     string `json:"role,omitempty"`
	Company  string `json:"company,omitempty"`
	Position string `json:"position,omitempty"`
}

// Summary returns the public projection of u.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Batch:    u.Batch,
		Role:     u.Role,
		Company:  u.Company,
		Position: u.Position,
	}
}

// ValidEmail reports whether email is a bare address with no display name.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
