package mentorship

import (
	"alumnihub/backend/internal/mailer"
	"alumnihub/backend/internal/models"
	"alumnihub/backend/internal/notify"
)

func (s *Service) notifyRequested(mentor *models.User, req *models.MentorshipRequest) {
	n := notify.Notice{
		UserID:       mentor.ID,
		Type:         models.NotifyMentorshipRequest,
		Title:        s.text("mentorship_request_title"),
		Message:      s.text("mentorship_request_body", req.MenteeName, req.MatchScore),
		RelatedID:    req.ID,
		RelatedModel: models.RelatedMentorship,
	}
	m, err := s.templates.MentorshipRequest(mentor.Email, mailer.RequestData{
		MentorName:  mentor.Name,
		MenteeName:  req.MenteeName,
		MenteeEmail: req.MenteeEmail,
		Goals:       req.Goals,
		Message:     req.Message,
		MatchScore:  req.MatchScore,
	})
	s.attach(&n, m, err)
	s.notifier.Notify(n)
}

func (s *Service) notifyStatus(mentor *models.User, req *models.MentorshipRequest) {
	n := notify.Notice{
		UserID:       req.MenteeID,
		RelatedID:    req.ID,
		RelatedModel: models.RelatedMentorship,
	}

	var (
		m   mailer.Mail
		err error
	)
	switch req.Status {
	case models.StatusAccepted:
		n.Type = models.NotifyMentorshipAccepted
		n.Title = s.text("mentorship_accepted_title")
		n.Message = s.text("mentorship_accepted_body", mentor.Name)
		m, err = s.templates.MentorshipAccepted(req.MenteeEmail, req.MenteeName, mentor.Name, mentor.Email)
	case models.StatusRejected:
		reason := ""
		if req.RejectionReason != nil {
			reason = *req.RejectionReason
		}
		n.Type = models.NotifyMentorshipRejected
		n.Title = s.text("mentorship_rejected_title")
		if reason != "" {
			n.Message = s.text("mentorship_rejected_body_reason", mentor.Name, reason)
		} else {
			n.Message = s.text("mentorship_rejected_body", mentor.Name)
		}
		m, err = s.templates.MentorshipRejected(req.MenteeEmail, req.MenteeName, mentor.Name, reason)
	case models.StatusCompleted:
		n.Type = models.NotifyMentorshipCompleted
		n.Title = s.text("mentorship_completed_title")
		n.Message = s.text("mentorship_completed_body", mentor.Name)
		m, err = s.templates.MentorshipCompleted(req.MenteeEmail, req.MenteeName, mentor.Name)
	default:
		return
	}
	s.attach(&n, m, err)
	s.notifier.Notify(n)
}

// attach adds the rendered mail to n. A render failure only loses the email.
func (s *Service) attach(n *notify.Notice, m mailer.Mail, err error) {
	if err != nil {
		s.log.Error("failed to render email", "type", n.Type, "error", err)
		return
	}
	if m.To == "" {
		return
	}
	n.Email = &m
}
