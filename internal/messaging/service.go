// Package messaging is the conversation channel between the two parties of a
// mentorship.
package messaging

import (
	"alumnihub/backend/internal/apperr"
	"alumnihub/backend/internal/attachments"
	"alumnihub/backend/internal/config"
	"alumnihub/backend/internal/localization"
	"alumnihub/backend/internal/logging"
	"alumnihub/backend/internal/models"
	"alumnihub/backend/internal/notify"
	"alumnihub/backend/internal/storage"
	"context"
	"errors"
	"strings"
)

// Presigner issues object storage URLs for attachments.
type Presigner interface {
	PutURL(ctx context.Context, prefix, fileName string) (*attachments.Upload, error)
	GetURL(ctx context.Context, key string) (string, error)
}

type Service struct {
	store     storage.MessageStore
	notifier  notify.Notifier
	presigner Presigner
	loc       *localization.Localizer
	log       *logging.Logger
}

// NewService builds the service. presigner may be nil, which disables attachments.
func NewService(store storage.MessageStore, notifier notify.Notifier, presigner Presigner, loc *localization.Localizer, log *logging.Logger) *Service {
	return &Service{
		store:     store,
		notifier:  notifier,
		presigner: presigner,
		loc:       loc,
		log:       log.With("component", "messaging"),
	}
}

type AttachmentInput struct {
	FileName string `json:"fileName"`
	FileKey  string `json:"fileKey"`
	FileType string `json:"fileType"`
}

type SendInput struct {
	MentorshipID string            `json:"mentorshipId"`
	ReceiverID   string            `json:"receiverId"`
	Content      string            `json:"content"`
	Attachments  []AttachmentInput `json:"attachments"`
}

func keyPrefix(mentorshipID string) string {
	return "mentorships/" + mentorshipID
}

// party loads the mentorship and checks userID takes part in it.
func (s *Service) party(ctx context.Context, userID, mentorshipID string) (*models.MentorshipRequest, error) {
	m, err := s.store.GetMentorship(ctx, mentorshipID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFoundf("Mentorship not found")
	}
	if err != nil {
		return nil, apperr.Internalf(err, "load mentorship")
	}
	if !m.HasParty(userID) {
		return nil, apperr.Forbiddenf("Access denied")
	}
	return m, nil
}

// Send stores a message from senderID to the other party of the mentorship.
func (s *Service) Send(ctx context.Context, senderID string, in SendInput) (*models.Message, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperr.Validationf("Message content is required")
	}
	if len(in.Attachments) > config.MaxAttachmentsPerMessage {
		return nil, apperr.Validationf("At most %d attachments per message", config.MaxAttachmentsPerMessage)
	}

	m, err := s.party(ctx, senderID, in.MentorshipID)
	if err != nil {
		return nil, err
	}
	if in.ReceiverID != m.OtherParty(senderID) {
		return nil, apperr.Validationf("Invalid receiver")
	}
	if m.Status != models.StatusAccepted {
		return nil, apperr.Conflictf("Messages can only be sent on an accepted mentorship")
	}

	msg := &models.Message{
		MentorshipID: m.ID,
		SenderID:     senderID,
		ReceiverID:   in.ReceiverID,
		Content:      content,
		Attachments:  []models.Attachment{},
	}
	prefix := keyPrefix(m.ID) + "/"
	for _, a := range in.Attachments {
		if a.FileKey == "" || !strings.HasPrefix(a.FileKey, prefix) {
			return nil, apperr.Validationf("Attachment %q does not belong to this mentorship", a.FileName)
		}
		name := strings.TrimSpace(a.FileName)
		if name == "" {
			name = a.FileKey[strings.LastIndex(a.FileKey, "/")+1:]
		}
		fileType := a.FileType
		if fileType == "" {
			fileType = attachments.ContentType(name)
		}
		msg.Attachments = append(msg.Attachments, models.Attachment{FileName: name, FileKey: a.FileKey, FileType: fileType})
	}

	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, apperr.Internalf(err, "save message")
	}

	sender, err := s.store.GetUserByID(ctx, senderID)
	if err != nil {
		s.log.WarnContext(ctx, "failed to load sender", "user_id", senderID, "error", err)
	} else {
		msg.Sender = sender
		s.notifier.Notify(notify.Notice{
			UserID:       msg.ReceiverID,
			Type:         models.NotifyMessage,
			Title:        s.loc.GetString(localization.DefaultLanguage, "message_title"),
			Message:      s.loc.Format(localization.DefaultLanguage, "message_body", sender.Name),
			RelatedID:    m.ID,
			RelatedModel: models.RelatedMentorship,
		})
	}

	s.signAttachments(ctx, msg)
	return msg, nil
}

// History returns the conversation oldest first and marks what the caller
// received as read.
func (s *Service) History(ctx context.Context, userID, mentorshipID string) ([]models.Message, error) {
	if _, err := s.party(ctx, userID, mentorshipID); err != nil {
		return nil, err
	}

	msgs, err := s.store.ListMessages(ctx, mentorshipID)
	if err != nil {
		return nil, apperr.Internalf(err, "list messages")
	}
	if _, err := s.store.MarkMessagesRead(ctx, mentorshipID, userID); err != nil {
		return nil, apperr.Internalf(err, "mark read")
	}

	if msgs == nil {
		msgs = []models.Message{}
	}
	for i := range msgs {
		s.signAttachments(ctx, &msgs[i])
	}
	return msgs, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.CountUnreadMessages(ctx, userID)
	if err != nil {
		return 0, apperr.Internalf(err, "count unread")
	}
	return n, nil
}

// MarkRead flags the caller's unread messages in the mentorship and returns
// how many changed.
func (s *Service) MarkRead(ctx context.Context, userID, mentorshipID string) (int64, error) {
	if _, err := s.party(ctx, userID, mentorshipID); err != nil {
		return 0, err
	}
	n, err := s.store.MarkMessagesRead(ctx, mentorshipID, userID)
	if err != nil {
		return 0, apperr.Internalf(err, "mark read")
	}
	return n, nil
}

// AttachmentUploadURL presigns an upload into the mentorship's key space.
func (s *Service) AttachmentUploadURL(ctx context.Context, userID, mentorshipID, fileName string) (*attachments.Upload, error) {
	if s.presigner == nil {
		return nil, apperr.Validationf("File attachments are not enabled")
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, apperr.Validationf("File name is required")
	}
	if _, err := s.party(ctx, userID, mentorshipID); err != nil {
		return nil, err
	}

	up, err := s.presigner.PutURL(ctx, keyPrefix(mentorshipID), fileName)
	if err != nil {
		return nil, apperr.Internalf(err, "presign upload")
	}
	return up, nil
}

func (s *Service) signAttachments(ctx context.Context, msg *models.Message) {
	if s.presigner == nil {
		return
	}
	for i := range msg.Attachments {
		url, err := s.presigner.GetURL(ctx, msg.Attachments[i].FileKey)
		if err != nil {
			s.log.WarnContext(ctx, "failed to sign attachment", "key", msg.Attachments[i].FileKey, "error", err)
			continue
		}
		msg.Attachments[i].FileURL = url
	}
}
