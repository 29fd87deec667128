// Package posts is the community feed: posts, replies and likes.
package posts

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
)

// DefaultCategory is used when a post is created without one.
const DefaultCategory = "general"

type Store interface {
	storage.PostStore
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type Service struct {
	store    Store
	notifier notify.Notifier
	loc      *localization.Localizer
	log      *logging.Logger
}

func NewService(store Store, notifier notify.Notifier, loc *localization.Localizer, log *logging.Logger) *Service {
	return &Service{store: store, notifier: notifier, loc: loc, log: log.With("component", "posts")}
}

type PostInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// LikeResult is the state of a post's likes after a toggle.
type LikeResult struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}

func (s *Service) List(ctx context.Context, category string) ([]models.Post, error) {
	posts, err := s.store.ListPosts(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, apperr.Internalf(err, "list posts")
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

func (s *Service) ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	posts, err := s.store.ListPostsByAuthor(ctx, authorID)
	if err != nil {
		return nil, apperr.Internalf(err, "list posts")
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Post, error) {
	p, err := s.store.GetPost(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFoundf("Post not found")
	}
	if err != nil {
		return nil, apperr.Internalf(err, "load post")
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, authorID string, in PostInput) (*models.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Category = strings.TrimSpace(in.Category)
	if in.Title == "" || in.Content == "" {
		return nil, apperr.Validationf("Title and content are required")
	}
	if in.Category == "" {
		in.Category = DefaultCategory
	}

	p := &models.Post{AuthorID: authorID, Title: in.Title, Content: in.Content, Category: in.Category}
	if err := s.store.CreatePost(ctx, p); err != nil {
		return nil, apperr.Internalf(err, "create post")
	}
	return s.Get(ctx, p.ID)
}

// Reply adds a reply and tells the post's author, unless they replied themselves.
func (s *Service) Reply(ctx context.Context, userID, postID, content string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validationf("Reply content is required")
	}
	p, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := s.store.AddPostReply(ctx, &models.PostReply{PostID: p.ID, AuthorID: userID, Content: content}); err != nil {
		return nil, apperr.Internalf(err, "add reply")
	}

	if p.AuthorID != userID {
		if replier, err := s.store.GetUserByID(ctx, userID); err != nil {
			s.log.WarnContext(ctx, "failed to load replier", "user_id", userID, "error", err)
		} else {
			s.notifier.Notify(notify.Notice{
				UserID:       p.AuthorID,
				Type:         models.NotifyPostReply,
				Title:        s.loc.GetString(localization.DefaultLanguage, "post_reply_title"),
				Message:      s.loc.Format(localization.DefaultLanguage, "post_reply_body", replier.Name, p.Title),
				RelatedID:    p.ID,
				RelatedModel: models.RelatedPost,
			})
		}
	}

	return s.Get(ctx, postID)
}

func (s *Service) ToggleLike(ctx context.Context, userID, postID string) (*LikeResult, error) {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	liked := p.ToggleLike(userID)
	if err := s.store.SetPostLikes(ctx, p); err != nil {
		return nil, apperr.Internalf(err, "save likes")
	}
	return &LikeResult{Likes: len(p.Likes), Liked: liked}, nil
}

// Delete removes a post. Only its author may do it.
func (s *Service) Delete(ctx context.Context, userID, postID string) error {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if p.AuthorID != userID {
		return apperr.Forbiddenf("Not authorized")
	}
	if err := s.store.DeletePost(ctx, postID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return apperr.Internalf(err, "delete post")
	}
	return nil
}
