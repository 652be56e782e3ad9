package blog

import "context"

// Repository defines persistence for blog posts.
type Repository interface {
	List(ctx context.Context) ([]*Post, error) // newest first
	GetByID(ctx context.Context, id string) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	Create(ctx context.Context, post *Post) error
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id string) error
}
