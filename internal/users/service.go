// Package users serves the alumni directory and the caller's own profile.
package users

import (
	"alumnihub/backend/internal/apperr"
	"alumnihub/backend/internal/config"
	"alumnihub/backend/internal/logging"
	"alumnihub/backend/internal/models"
	"alumnihub/backend/internal/storage"
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

type Store interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUserStats(ctx context.Context, userID string) (storage.UserStats, error)
	ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	ListEventsForUser(ctx context.Context, userID string) ([]models.Event, error)
	ListMentorshipsForUser(ctx context.Context, userID string) ([]models.MentorshipRequest, error)
}

type Service struct {
	store Store
	log   *logging.Logger
}

func NewService(store Store, log *logging.Logger) *Service {
	return &Service{store: store, log: log.With("component", "users")}
}

// ProfileInput carries the editable profile fields. Nil leaves a field as is.
// Mentor settings are changed through the mentorship service.
type ProfileInput struct {
	Name      *string   `json:"name"`
	Batch     *string   `json:"batch"`
	Phone     *string   `json:"phone"`
	Company   *string   `json:"company"`
	Position  *string   `json:"position"`
	Bio       *string   `json:"bio"`
	Expertise *[]string `json:"expertise"`
	LinkedIn  *string   `json:"linkedin"`
	GitHub    *string   `json:"github"`
	Website   *string   `json:"website"`
}

func (s *Service) Directory(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Internalf(err, "list users")
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.store.GetUserByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFoundf("User not found")
	}
	if err != nil {
		return nil, apperr.Internalf(err, "load user")
	}
	return u, nil
}

// UpdateProfile applies the non-nil fields of in to the caller's profile.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, apperr.Validationf("Name cannot be empty")
	}
	if in.Bio != nil && utf8.RuneCountInString(*in.Bio) > config.MaxBioLength {
		return nil, apperr.Validationf("Bio cannot exceed %d characters", config.MaxBioLength)
	}

	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&u.Name, in.Name)
	set(&u.Batch, in.Batch)
	set(&u.Phone, in.Phone)
	set(&u.Company, in.Company)
	set(&u.Position, in.Position)
	set(&u.Bio, in.Bio)
	set(&u.LinkedIn, in.LinkedIn)
	set(&u.GitHub, in.GitHub)
	set(&u.Website, in.Website)
	if in.Expertise != nil {
		u.Expertise = cleanList(*in.Expertise)
	}

	if err := s.store.SaveUser(ctx, u); err != nil {
		return nil, apperr.Internalf(err, "save profile")
	}
	s.log.Info("profile updated", "user_id", userID)
	return u, nil
}

func (s *Service) MyPosts(ctx context.Context, userID string) ([]models.Post, error) {
	posts, err := s.store.ListPostsByAuthor(ctx, userID)
	if err != nil {
		return nil, apperr.Internalf(err, "list posts")
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

func (s *Service) MyEvents(ctx context.Context, userID string) ([]models.Event, error) {
	events, err := s.store.ListEventsForUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internalf(err, "list events")
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

func (s *Service) MyMentorships(ctx context.Context, userID string) ([]models.MentorshipRequest, error) {
	list, err := s.store.ListMentorshipsForUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internalf(err, "list mentorships")
	}
	if list == nil {
		list = []models.MentorshipRequest{}
	}
	return list, nil
}

func (s *Service) Stats(ctx context.Context, userID string) (storage.UserStats, error) {
	st, err := s.store.GetUserStats(ctx, userID)
	if err != nil {
		return storage.UserStats{}, apperr.Internalf(err, "user stats")
	}
	return st, nil
}

// cleanList trims entries and drops blanks and repeats, keeping order.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		k := strings.ToLower(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}
