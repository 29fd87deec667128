package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MentorshipStatus is the lifecycle state of a mentorship request.
type MentorshipStatus string

// Request states. Rejected and completed are terminal.
const (
	StatusPending   MentorshipStatus = "pending"
	StatusAccepted  MentorshipStatus = "accepted"
	StatusRejected  MentorshipStatus = "rejected"
	StatusCompleted MentorshipStatus = "completed"
)

// ErrInvalidTransition is returned when a request cannot move to the asked state.
var ErrInvalidTransition = errors.New("invalid mentorship status transition")

// Valid reports whether s is one of the known states.
func (s MentorshipStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s MentorshipStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

// Open reports whether a request in s blocks another request to the same mentor.
func (s MentorshipStatus) Open() bool {
	return s == StatusPending || s == StatusAccepted
}

// MentorshipRequest is one mentee's ask to one mentor.
// Status, AcceptedAt, CompletedAt and RejectionReason change only through
// Accept, Reject and Complete so that they never disagree.
type MentorshipRequest struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	MentorID    string `gorm:"type:uuid;not null;index:idx_mentorship_pair" json:"mentorId"`
	MenteeID    string `gorm:"type:uuid;not null;index:idx_mentorship_pair" json:"menteeId"`
	MenteeName  string `gorm:"type:text;not null" json:"menteeName"`
	MenteeEmail string `gorm:"type:text;not null" json:"menteeEmail"`
	Goals       string `gorm:"type:text;not null" json:"goals"`
	Message     string `gorm:"type:text;not null" json:"message"`

	Status          MentorshipStatus `gorm:"type:text;not null;default:pending;index" json:"status"`
	MatchScore      int              `gorm:"not null;default:0" json:"matchScore"`
	RejectionReason *string          `gorm:"type:text" json:"rejectionReason,omitempty"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	AcceptedAt  *time.Time `json:"acceptedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	Mentor *User `gorm:"foreignKey:MentorID" json:"mentor,omitempty"`
	Mentee *User `gorm:"foreignKey:MenteeID" json:"mentee,omitempty"`
}

// TableName maps requests to the mentorships table.
func (MentorshipRequest) TableName() string {
	return "mentorships"
}

// BeforeCreate generates a UUID and starts the request as pending.
func (r *MentorshipRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	return
}

// Accept moves a pending request to accepted.
func (r *MentorshipRequest) Accept(now time.Time) error {
	if r.Status != StatusPending {
		return ErrInvalidTransition
	}
	r.Status = StatusAccepted
	r.AcceptedAt = &now
	r.UpdatedAt = now
	return nil
}

// Reject moves a pending request to rejected. An empty reason is stored as nil.
func (r *MentorshipRequest) Reject(now time.Time, reason string) error {
	if r.Status != StatusPending {
		return ErrInvalidTransition
	}
	r.Status = StatusRejected
	r.RejectionReason = nil
	if reason != "" {
		r.RejectionReason = &reason
	}
	r.UpdatedAt = now
	return nil
}

// Complete moves an accepted request to completed.
func (r *MentorshipRequest) Complete(now time.Time) error {
	if r.Status != StatusAccepted {
		return ErrInvalidTransition
	}
	r.Status = StatusCompleted
	r.CompletedAt = &now
	r.UpdatedAt = now
	return nil
}

// HasParty reports whether userID is the mentor or the mentee.
func (r *MentorshipRequest) HasParty(userID string) bool {
	return userID != "" && (userID == r.MentorID || userID == r.MenteeID)
}

// OtherParty returns the counterpart of userID, or "" if userID is not a party.
func (r *MentorshipRequest) OtherParty(userID string) string {
	switch userID {
	case r.MentorID:
		return r.MenteeID
	case r.MenteeID:
		return r.MentorID
	}
	return ""
}
