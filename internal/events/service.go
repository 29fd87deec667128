// Package events manages alumni meetups and registrations.
package events

import (
	"alumnihub/backend/internal/apperr"
	"alumnihub/backend/internal/localization"
	"alumnihub/backend/internal/logging"
	"alumnihub/backend/internal/models"
	"alumnihub/backend/internal/notify"
	"alumnihub/backend/internal/storage"
	"context"
	"errors"
	"strings"
	"time"
)

type Store interface {
	storage.EventStore
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type Service struct {
	store    Store
	notifier notify.Notifier
	loc      *localization.Localizer
	log      *logging.Logger
}

func NewService(store Store, notifier notify.Notifier, loc *localization.Localizer, log *logging.Logger) *Service {
	return &Service{store: store, notifier: notifier, loc: loc, log: log.With("component", "events")}
}

// EventInput describes a new event. Date accepts RFC 3339 or YYYY-MM-DD.
type EventInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Category    string `json:"category"`
}

// RegisterInput is a registration form. Name and Email default to the account.
type RegisterInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	AttendeeCount int    `json:"attendeeCount"`
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, v)
}

func (s *Service) List(ctx context.Context) ([]models.Event, error) {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, apperr.Internalf(err, "list events")
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

// ListForUser returns the events userID registered for.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.Event, error) {
	events, err := s.store.ListEventsForUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internalf(err, "list events")
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Event, error) {
	e, err := s.store.GetEvent(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFoundf("Event not found")
	}
	if err != nil {
		return nil, apperr.Internalf(err, "load event")
	}
	return e, nil
}

func (s *Service) Create(ctx context.Context, in EventInput) (*models.Event, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperr.Validationf("Title is required")
	}
	date, err := parseDate(strings.TrimSpace(in.Date))
	if err != nil {
		return nil, apperr.Validationf("Date must be YYYY-MM-DD or RFC 3339")
	}

	e := &models.Event{
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Date:        date,
		Time:        in.Time,
		Location:    in.Location,
		Category:    in.Category,
		Attendees:   []models.EventAttendee{},
	}
	if err := s.store.CreateEvent(ctx, e); err != nil {
		return nil, apperr.Internalf(err, "create event")
	}
	return e, nil
}

// Register signs userID up for the event. One registration per account and
// per email address.
func (s *Service) Register(ctx context.Context, userID, eventID string, in RegisterInput) (*models.Event, error) {
	e, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFoundf("User not found")
	}
	if err != nil {
		return nil, apperr.Internalf(err, "load user")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = user.Name
	}
	email := models.NormalizeEmail(in.Email)
	if email == "" {
		email = user.Email
	}
	count := in.AttendeeCount
	if count < 1 {
		count = 1
	}

	if e.IsRegistered(userID, email) {
		return nil, apperr.Conflictf("Already registered for this event")
	}

	a := &models.EventAttendee{
		EventID:       e.ID,
		UserID:        userID,
		Name:          name,
		Email:         email,
		Phone:         strings.TrimSpace(in.Phone),
		AttendeeCount: count,
	}
	if err := s.store.AddEventAttendee(ctx, a); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.Conflictf("Already registered for this event")
		}
		return nil, apperr.Internalf(err, "register")
	}

	s.notifier.Notify(notify.Notice{
		UserID:       userID,
		Type:         models.NotifyEventRegistration,
		Title:        s.loc.GetString(localization.DefaultLanguage, "event_registration_title"),
		Message:      s.loc.Format(localization.DefaultLanguage, "event_registration_body", e.Title),
		RelatedID:    e.ID,
		RelatedModel: models.RelatedEvent,
	})

	return s.Get(ctx, eventID)
}
