package storage

import (
	"alumnihub/backend/internal/models"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Service) CreateMentorship(ctx context.Context, req *models.MentorshipRequest) error {
	return translate(s.DB.WithContext(ctx).Omit(clause.Associations).Create(req).Error)
}

func (s *Service) GetMentorship(ctx context.Context, id string) (*models.MentorshipRequest, error) {
	var req models.MentorshipRequest
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

// FindOpenMentorship returns the pending or accepted request from mentee to
// mentor, or ErrNotFound.
func (s *Service) FindOpenMentorship(ctx context.Context, mentorID, menteeID string) (*models.MentorshipRequest, error) {
	var req models.MentorshipRequest
	err := s.DB.WithContext(ctx).
		Where("mentor_id = ? AND mentee_id = ?", mentorID, menteeID).
		Where("status IN ?", []models.MentorshipStatus{models.StatusPending, models.StatusAccepted}).
		First(&req).Error
	if err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

// SaveMentorship persists the lifecycle columns of req.
func (s *Service) SaveMentorship(ctx context.Context, req *models.MentorshipRequest) error {
	res := s.DB.WithContext(ctx).Model(req).
		Select("status", "rejection_reason", "accepted_at", "completed_at", "updated_at").
		Updates(req)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListMentorshipsForUser returns requests where userID is either party, newest first,
// with both users preloaded.
func (s *Service) ListMentorshipsForUser(ctx context.Context, userID string) ([]models.MentorshipRequest, error) {
	var reqs []models.MentorshipRequest
	err := s.DB.WithContext(ctx).
		Preload("Mentor").Preload("Mentee").
		Where("mentor_id = ? OR mentee_id = ?", userID, userID).
		Order("created_at desc").
		Find(&reqs).Error
	return reqs, err
}

// ListMentorships returns every request, newest first.
func (s *Service) ListMentorships(ctx context.Context) ([]models.MentorshipRequest, error) {
	var reqs []models.MentorshipRequest
	err := s.DB.WithContext(ctx).
		Preload("Mentor").Preload("Mentee").
		Order("created_at desc").
		Find(&reqs).Error
	return reqs, err
}

// AdjustActiveMentees changes the mentor's counter in place without reading it first.
func (s *Service) AdjustActiveMentees(ctx context.Context, mentorID string, delta int) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", mentorID).
		Update("active_mentees", gorm.Expr("active_mentees + ?", delta))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// WithMentorLock opens a transaction, locks the mentor row with SELECT ... FOR UPDATE
// and hands fn a store bound to that transaction. The transaction commits when fn
// returns nil.
func (s *Service) WithMentorLock(ctx context.Context, mentorID string, fn func(tx MentorshipStore, mentor *models.User) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var mentor models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", mentorID).
			First(&mentor).Error
		if err != nil {
			return translate(err)
		}
		return fn(&Service{DB: tx, Redis: s.Redis}, &mentor)
	})
}
