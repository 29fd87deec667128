package storage

import (
	"alumnihub/backend/internal/models"
	"context"

	"gorm.io/gorm/clause"
)

// ListEvents returns events in date order.
func (s *Service) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := s.DB.WithContext(ctx).Preload("Attendees").Order("date asc").Find(&events).Error
	return events, err
}

// ListEventsForUser returns the events userID registered for, in date order.
func (s *Service) ListEventsForUser(ctx context.Context, userID string) ([]models.Event, error) {
	var events []models.Event
	err := s.DB.WithContext(ctx).Preload("Attendees").
		Where("id IN (?)", s.DB.Model(&models.EventAttendee{}).Select("event_id").Where("user_id = ?", userID)).
		Order("date asc").
		Find(&events).Error
	return events, err
}

func (s *Service) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var e models.Event
	if err := s.DB.WithContext(ctx).Preload("Attendees").Where("id = ?", id).First(&e).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (s *Service) CreateEvent(ctx context.Context, e *models.Event) error {
	return s.DB.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}

// AddEventAttendee inserts a registration. The (event, email) pair is unique.
func (s *Service) AddEventAttendee(ctx context.Context, a *models.EventAttendee) error {
	return translate(s.DB.WithContext(ctx).Create(a).Error)
}
