// Package mentorship runs the request lifecycle between mentees and mentors.
//
// Every change to a mentor's active mentee counter happens inside
// storage.MentorshipStore.WithMentorLock, so the capacity check at creation
// and the counter updates on accept and complete are serialized per mentor.
// Notifications are handed to the notifier only after the transaction has
// committed.
package mentorship

import (
	"alumnihub/backend/internal/apperr"
	"alumnihub/backend/internal/localization"
	"alumnihub/backend/internal/logging"
	"alumnihub/backend/internal/mailer"
	"alumnihub/backend/internal/matching"
	"alumnihub/backend/internal/models"
	"alumnihub/backend/internal/notify"
	"alumnihub/backend/internal/storage"
	"context"
	"errors"
	"strings"
	"time"
)

type Service struct {
	store     storage.MentorshipStore
	notifier  notify.Notifier
	templates *mailer.Templates
	loc       *localization.Localizer
	log       *logging.Logger
	now       func() time.Time
}

func NewService(store storage.MentorshipStore, notifier notify.Notifier, templates *mailer.Templates, loc *localization.Localizer, log *logging.Logger) *Service {
	return &Service{
		store:     store,
		notifier:  notifier,
		templates: templates,
		loc:       loc,
		log:       log.With("component", "mentorship"),
		now:       time.Now,
	}
}

// CreateInput is what a mentee submits. Name and Email default to the
// mentee's account when empty.
type CreateInput struct {
	MentorID string `json:"mentorId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Goals    string `json:"goals"`
	Message  string `json:"message"`
}

type StatusInput struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason"`
}

// AvailabilityInput updates the mentor profile. Nil fields are left unchanged.
type AvailabilityInput struct {
	IsMentorAvailable     *bool                         `json:"isMentorAvailable"`
	MentorCapacity        *int                          `json:"mentorCapacity"`
	Availability          *models.Availability          `json:"availability"`
	MentorshipPreferences *models.MentorshipPreferences `json:"mentorshipPreferences"`
}

func (s *Service) text(key string, args ...any) string {
	return s.loc.Format(localization.DefaultLanguage, key, args...)
}

func (s *Service) ListMentors(ctx context.Context, f storage.MentorFilter) ([]models.User, error) {
	mentors, err := s.store.ListMentors(ctx, f)
	if err != nil {
		return nil, apperr.Internalf(err, "list mentors")
	}
	if mentors == nil {
		mentors = []models.User{}
	}
	return mentors, nil
}

// Recommend ranks available mentors by how well they fit goals.
// Mentors at capacity are still listed, with the reduced availability score.
func (s *Service) Recommend(ctx context.Context, goals string) ([]matching.Match, error) {
	goals = strings.TrimSpace(goals)
	if goals == "" {
		return nil, apperr.Validationf("Goals are required")
	}
	available := true
	mentors, err := s.store.ListMentors(ctx, storage.MentorFilter{Available: &available})
	if err != nil {
		return nil, apperr.Internalf(err, "list mentors")
	}
	return matching.Rank(mentors, goals), nil
}

// CreateRequest files a pending request from menteeID to in.MentorID.
func (s *Service) CreateRequest(ctx context.Context, menteeID string, in CreateInput) (*models.MentorshipRequest, error) {
	in.MentorID = strings.TrimSpace(in.MentorID)
	in.Goals = strings.TrimSpace(in.Goals)
	in.Message = strings.TrimSpace(in.Message)

	switch {
	case in.MentorID == "":
		return nil, apperr.Validationf("Mentor is required")
	case in.Goals == "":
		return nil, apperr.Validationf("Goals are required")
	case in.MentorID == menteeID:
		return nil, apperr.Validationf("You cannot request mentorship from yourself")
	}

	mentee, err := s.store.GetUserByID(ctx, menteeID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFoundf("User not found")
	}
	if err != nil {
		return nil, apperr.Internalf(err, "load mentee")
	}
	if strings.TrimSpace(in.Name) == "" {
		in.Name = mentee.Name
	}
	if strings.TrimSpace(in.Email) == "" {
		in.Email = mentee.Email
	}
	in.Email = models.NormalizeEmail(in.Email)
	if !models.ValidEmail(in.Email) {
		return nil, apperr.Validationf("Valid email is required")
	}

	var (
		req       *models.MentorshipRequest
		mentorRec models.User
	)
	err = s.store.WithMentorLock(ctx, in.MentorID, func(tx storage.MentorshipStore, mentor *models.User) error {
		if !mentor.MentorCapable() {
			return apperr.NotFoundf("Mentor not found")
		}
		if !mentor.IsMentorAvailable {
			return apperr.Conflictf("Mentor is not currently accepting new mentees")
		}
		if !mentor.HasFreeSlot() {
			return apperr.Conflictf("Mentor has reached maximum capacity")
		}

		_, err := tx.FindOpenMentorship(ctx, mentor.ID, menteeID)
		if err == nil {
			return apperr.Conflictf("You already have an active or pending request with this mentor")
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return apperr.Internalf(err, "find open request")
		}

		req = &models.MentorshipRequest{
			MentorID:    mentor.ID,
			MenteeID:    menteeID,
			MenteeName:  strings.TrimSpace(in.Name),
			MenteeEmail: in.Email,
			Goals:       in.Goals,
			Message:     in.Message,
			Status:      models.StatusPending,
			MatchScore:  matching.Score(mentor, in.Goals),
		}
		if err := tx.CreateMentorship(ctx, req); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return apperr.Conflictf("You already have an active or pending request with this mentor")
			}
			return apperr.Internalf(err, "create request")
		}
		mentorRec = *mentor
		return nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFoundf("Mentor not found")
	}
	if err != nil {
		return nil, asAppErr(err, "create request")
	}

	s.log.InfoContext(ctx, "mentorship requested", "request_id", req.ID, "mentor_id", req.MentorID, "score", req.MatchScore)
	s.notifyRequested(&mentorRec, req)
	return req, nil
}

// UpdateStatus moves a request along its lifecycle. Only the mentor may do it.
func (s *Service) UpdateStatus(ctx context.Context, callerID, requestID string, in StatusInput) (*models.MentorshipRequest, error) {
	status := models.MentorshipStatus(strings.TrimSpace(in.Status))
	if !status.Valid() || status == models.StatusPending {
		return nil, apperr.Validationf("Status must be one of accepted, rejected, completed")
	}

	current, err := s.store.GetMentorship(ctx, requestID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFoundf("Mentorship request not found")
	}
	if err != nil {
		return nil, apperr.Internalf(err, "load request")
	}
	if current.MentorID != callerID {
		return nil, apperr.Forbiddenf("Not authorized")
	}

	var (
		req       *models.MentorshipRequest
		mentorRec models.User
	)
	err = s.store.WithMentorLock(ctx, current.MentorID, func(tx storage.MentorshipStore, mentor *models.User) error {
		// Re-read under the lock so two concurrent decisions cannot both pass.
		r, err := tx.GetMentorship(ctx, requestID)
		if err != nil {
			return err
		}
		from := r.Status
		now := s.now()

		var delta int
		switch status {
		case models.StatusAccepted:
			// Capacity is checked when the request is created, not here.
			err = r.Accept(now)
			delta = 1
		case models.StatusRejected:
			err = r.Reject(now, strings.TrimSpace(in.RejectionReason))
		case models.StatusCompleted:
			err = r.Complete(now)
			delta = -1
		}
		if errors.Is(err, models.ErrInvalidTransition) {
			return apperr.Conflictf("Cannot change a %s request to %s", from, status)
		}

		if err := tx.SaveMentorship(ctx, r); err != nil {
			return apperr.Internalf(err, "save request")
		}
		if delta != 0 {
			if err := tx.AdjustActiveMentees(ctx, mentor.ID, delta); err != nil {
				return apperr.Internalf(err, "adjust active mentees")
			}
		}
		req = r
		mentorRec = *mentor
		return nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFoundf("Mentorship request not found")
	}
	if err != nil {
		return nil, asAppErr(err, "update status")
	}

	s.log.InfoContext(ctx, "mentorship status changed", "request_id", req.ID, "status", req.Status)
	s.notifyStatus(&mentorRec, req)
	return req, nil
}

// ListForUser returns requests where userID is mentor or mentee, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.MentorshipRequest, error) {
	reqs, err := s.store.ListMentorshipsForUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internalf(err, "list requests")
	}
	if reqs == nil {
		reqs = []models.MentorshipRequest{}
	}
	return reqs, nil
}

// UpdateAvailability edits the caller's mentor profile under the mentor lock.
func (s *Service) UpdateAvailability(ctx context.Context, mentorID string, in AvailabilityInput) (*models.User, error) {
	if in.MentorCapacity != nil && *in.MentorCapacity < 0 {
		return nil, apperr.Validationf("Mentor capacity cannot be negative")
	}
	if in.Availability != nil && in.Availability.PreferredMeetingType != "" && !validMeetingType(in.Availability.PreferredMeetingType) {
		return nil, apperr.Validationf("Unknown meeting type %q", in.Availability.PreferredMeetingType)
	}

	var updated *models.User
	err := s.store.WithMentorLock(ctx, mentorID, func(tx storage.MentorshipStore, mentor *models.User) error {
		if !mentor.MentorCapable() {
			return apperr.Forbiddenf("Only mentors can update mentorship availability")
		}
		if in.IsMentorAvailable != nil {
			mentor.IsMentorAvailable = *in.IsMentorAvailable
		}
		if in.MentorCapacity != nil {
			mentor.MentorCapacity = *in.MentorCapacity
		}
		if in.Availability != nil {
			mentor.Availability = *in.Availability
			mentor.Availability.TimeSlots = nonBlank(mentor.Availability.TimeSlots)
			if mentor.Availability.PreferredMeetingType == "" {
				mentor.Availability.PreferredMeetingType = models.MeetingVideo
			}
		}
		if in.MentorshipPreferences != nil {
			mentor.MentorshipPreferences = *in.MentorshipPreferences
			mentor.MentorshipPreferences.Topics = nonBlank(mentor.MentorshipPreferences.Topics)
		}
		if err := tx.SaveUser(ctx, mentor); err != nil {
			return apperr.Internalf(err, "save mentor")
		}
		updated = mentor
		return nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFoundf("User not found")
	}
	if err != nil {
		return nil, asAppErr(err, "update availability")
	}
	return updated, nil
}

func validMeetingType(t string) bool {
	switch t {
	case models.MeetingVideo, models.MeetingAudio, models.MeetingChat, models.MeetingInPerson:
		return true
	}
	return false
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// asAppErr keeps errors that already carry a kind and wraps the rest as internal.
func asAppErr(err error, op string) error {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e
	}
	return apperr.Internalf(err, "%s", op)
}
