package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"restaurant_backoffice/internal/domain/blog"
	idb "restaurant_backoffice/internal/infra/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrSlugTaken = fmt.Errorf("a post with this slug already exists")

type BlogService struct {
	repo blog.Repository
	log  *logrus.Logger
	now  func() time.Time
}

func NewBlogService(repo blog.Repository, log *logrus.Logger) *BlogService {
	return &BlogService{repo: repo, log: log, now: time.Now}
}

func (s *BlogService) ListPosts(ctx context.Context, published *bool, query string) ([]*blog.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return blog.FilterPosts(posts, published, query), nil
}

func (s *BlogService) GetPost(ctx context.Context, id string) (*blog.Post, error) {
	return s.repo.GetByID(ctx, id)
}

// CreatePost saves a new post. An empty slug is derived from the title; an
// explicit one is kept. Either way the slug must be free.
func (s *BlogService) CreatePost(ctx context.Context, post *blog.Post) error {
	if strings.TrimSpace(post.Title) == "" {
		return fmt.Errorf("post title must not be blank")
	}
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.Slug == "" {
		post.Slug = blog.Slugify(post.Title)
	}
	if post.Slug == "" {
		return fmt.Errorf("post title produces an empty slug")
	}

	if err := s.ensureSlugFree(ctx, post.Slug, ""); err != nil {
		return err
	}
	if post.Published {
		post.PublishedAt = sql.NullTime{Time: s.now(), Valid: true}
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (s *BlogService) UpdatePost(ctx context.Context, post *blog.Post) error {
	if strings.TrimSpace(post.Title) == "" {
		return fmt.Errorf("post title must not be blank")
	}
	current, err := s.repo.GetByID(ctx, post.ID)
	if err != nil {
		return err
	}

	if post.Slug == "" {
		post.Slug = blog.Slugify(post.Title)
	}
	if post.Slug != current.Slug {
		if err := s.ensureSlugFree(ctx, post.Slug, post.ID); err != nil {
			return err
		}
	}

	// First publication stamps the timestamp; unpublishing keeps it.
	post.PublishedAt = current.PublishedAt
	if post.Published && !current.PublishedAt.Valid {
		post.PublishedAt = sql.NullTime{Time: s.now(), Valid: true}
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return fmt.Errorf("failed to update post %s: %w", post.ID, err)
	}
	return nil
}

// SetPublished flips a post's publication state without touching content.
func (s *BlogService) SetPublished(ctx context.Context, id string, published bool) (*blog.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Published = published
	if published && !post.PublishedAt.Valid {
		post.PublishedAt = sql.NullTime{Time: s.now(), Valid: true}
	}
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to change publication state of %s: %w", id, err)
	}
	return post, nil
}

func (s *BlogService) DeletePost(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *BlogService) ensureSlugFree(ctx context.Context, slug, selfID string) error {
	existing, err := s.repo.GetBySlug(ctx, slug)
	if err == nil && existing.ID != selfID {
		return ErrSlugTaken
	}
	if err != nil && err != idb.ErrPostNotFound {
		return fmt.Errorf("failed to check slug availability: %w", err)
	}
	return nil
}
