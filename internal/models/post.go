package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Post is an entry in the community feed.
type Post struct {
	ID        string         `gorm:"primaryKey;type:uuid" json:"id"`
	AuthorID  string         `gorm:"type:uuid;not null;index" json:"authorId"`
	Title     string         `gorm:"type:text;not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Category  string         `gorm:"type:text;not null;default:general;index" json:"category"`
	Likes     pq.StringArray `gorm:"type:text[]" json:"likes"`
	Replies   []PostReply    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"replies"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// PostReply is a comment under a post.
type PostReply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;index" json:"-"`
	AuthorID  string    `gorm:"type:uuid;not null" json:"authorId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

// ToggleLike adds or removes userID from the likes and reports whether the
// post is liked afterwards.
func (p *Post) ToggleLike(userID string) bool {
	if i := slices.Index(p.Likes, userID); i >= 0 {
		p.Likes = slices.Delete(p.Likes, i, i+1)
		return false
	}
	p.Likes = append(p.Likes, userID)
	return true
}
