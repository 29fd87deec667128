package storage

import (
	"alumnihub/backend/internal/models"
	"context"

	"gorm.io/gorm"
)

// CreateMessage inserts msg together with its attachments.
func (s *Service) CreateMessage(ctx context.Context, msg *models.Message) error {
	return s.DB.WithContext(ctx).Omit("Sender", "Receiver").Create(msg).Error
}

// ListMessages returns the conversation of a mentorship, oldest first.
func (s *Service) ListMessages(ctx context.Context, mentorshipID string) ([]models.Message, error) {
	var msgs []models.Message
	err := s.DB.WithContext(ctx).
		Preload("Attachments").
		Preload("Sender", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "email") }).
		Preload("Receiver", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "email") }).
		Where("mentorship_id = ?", mentorshipID).
		Order("created_at asc").
		Find(&msgs).Error
	return msgs, err
}

// MarkMessagesRead flags every unread message addressed to receiverID in the
// mentorship and returns how many changed.
func (s *Service) MarkMessagesRead(ctx context.Context, mentorshipID, receiverID string) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&models.Message{}).
		Where("mentorship_id = ? AND receiver_id = ? AND read = ?", mentorshipID, receiverID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

func (s *Service) CountUnreadMessages(ctx context.Context, receiverID string) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND read = ?", receiverID, false).
		Count(&n).Error
	return n, err
}
