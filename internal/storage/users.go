package storage

import (
	"alumnihub/backend/internal/models"
	"context"
)

// CreateUser inserts a new user. A taken email yields ErrDuplicate.
func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.DB.WithContext(ctx).Create(user).Error)
}

// SaveUser writes every column of user except active_mentees, which only
// AdjustActiveMentees changes.
func (s *Service) SaveUser(ctx context.Context, user *models.User) error {
	return translate(s.DB.WithContext(ctx).Omit("active_mentees").Save(user).Error)
}

func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUserByVerificationToken finds the user holding an unexpired verification token.
func (s *Service) GetUserByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).
		Where("email_verification_token = ? AND email_verification_expires > NOW()", token).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Service) GetUserByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("telegram_chat_id = ?", chatID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// ListUsers returns the alumni directory, newest members first.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.DB.WithContext(ctx).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListMentors returns users with the mentor or admin role.
// The expertise filter matches any array element case-insensitively.
func (s *Service) ListMentors(ctx context.Context, f MentorFilter) ([]models.User, error) {
	q := s.DB.WithContext(ctx).
		Where("role IN ?", []string{models.RoleMentor, models.RoleAdmin})

	if f.Available != nil {
		q = q.Where("is_mentor_available = ?", *f.Available)
	}
	if f.Expertise != "" {
		q = q.Where("EXISTS (SELECT 1 FROM unnest(expertise) AS e WHERE lower(e) = lower(?))", f.Expertise)
	}

	var mentors []models.User
	if err := q.Order("name asc").Order("id asc").Find(&mentors).Error; err != nil {
		return nil, err
	}
	return mentors, nil
}

func (s *Service) GetUserStats(ctx context.Context, userID string) (UserStats, error) {
	var st UserStats
	db := s.DB.WithContext(ctx)

	if err := db.Model(&models.Post{}).Where("author_id = ?", userID).Count(&st.Posts).Error; err != nil {
		return st, err
	}
	if err := db.Model(&models.EventAttendee{}).Where("user_id = ?", userID).
		Distinct("event_id").Count(&st.Events).Error; err != nil {
		return st, err
	}
	if err := db.Model(&models.MentorshipRequest{}).
		Where("mentor_id = ? OR mentee_id = ?", userID, userID).
		Count(&st.Mentorships).Error; err != nil {
		return st, err
	}
	return st, nil
}
