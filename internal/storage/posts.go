package storage

import (
	"alumnihub/backend/internal/models"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func authorColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email", "batch")
}

func (s *Service) postQuery(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Preload("Author", authorColumns).
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Replies.Author", authorColumns)
}

// ListPosts returns posts newest first, optionally restricted to one category.
func (s *Service) ListPosts(ctx context.Context, category string) ([]models.Post, error) {
	q := s.postQuery(ctx)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var posts []models.Post
	err := q.Order("created_at desc").Find(&posts).Error
	return posts, err
}

func (s *Service) ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	var posts []models.Post
	err := s.postQuery(ctx).Where("author_id = ?", authorID).Order("created_at desc").Find(&posts).Error
	return posts, err
}

func (s *Service) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := s.postQuery(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Service) CreatePost(ctx context.Context, p *models.Post) error {
	return s.DB.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (s *Service) SetPostLikes(ctx context.Context, p *models.Post) error {
	return s.DB.WithContext(ctx).Model(&models.Post{}).Where("id = ?", p.ID).Update("likes", p.Likes).Error
}

func (s *Service) AddPostReply(ctx context.Context, r *models.PostReply) error {
	return s.DB.WithContext(ctx).Omit("Author").Create(r).Error
}

func (s *Service) DeletePost(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
