package database

import (
	"context"
	"database/sql"
	"fmt"

	"restaurant_backoffice/internal/domain/blog"
)

// Custom errors
var ErrPostNotFound = fmt.Errorf("blog post not found")
var ErrDuplicateSlug = fmt.Errorf("a post with this slug already exists")

type PostgresBlogRepository struct {
	db *sql.DB
}

func NewPostgresBlogRepository(db *sql.DB) *PostgresBlogRepository {
	return &PostgresBlogRepository{db: db}
}

const postColumns = `id, title, slug, content, excerpt, featured_image, published, published_at, author_id, created_at, updated_at`

func scanPost(row interface{ Scan(...interface{}) error }) (*blog.Post, error) {
	p := &blog.Post{}
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage,
		&p.Published, &p.PublishedAt, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresBlogRepository) List(ctx context.Context) ([]*blog.Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*blog.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return posts, nil
}

func (r *PostgresBlogRepository) GetByID(ctx context.Context, id string) (*blog.Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE id = $1`
	p, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("error getting post by ID: %w", err)
	}
	return p, nil
}

func (r *PostgresBlogRepository) GetBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE slug = $1`
	p, err := scanPost(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("error getting post by slug: %w", err)
	}
	return p, nil
}

func (r *PostgresBlogRepository) Create(ctx context.Context, post *blog.Post) error {
	query := `INSERT INTO blog_posts (id, title, slug, content, excerpt, featured_image, published, published_at, author_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, post.ID, post.Title, post.Slug, post.Content,
		post.Excerpt, post.FeaturedImage, post.Published, post.PublishedAt, post.AuthorID,
	).Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "blog_posts_slug_key") {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("error creating post: %w", err)
	}
	return nil
}

func (r *PostgresBlogRepository) Update(ctx context.Context, post *blog.Post) error {
	query := `UPDATE blog_posts
	          SET title = $1, slug = $2, content = $3, excerpt = $4, featured_image = $5,
	              published = $6, published_at = $7, updated_at = NOW()
	          WHERE id = $8
	          RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, post.Title, post.Slug, post.Content, post.Excerpt,
		post.FeaturedImage, post.Published, post.PublishedAt, post.ID).Scan(&post.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrPostNotFound
		}
		if isUniqueViolation(err, "blog_posts_slug_key") {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("error updating post: %w", err)
	}
	return nil
}

func (r *PostgresBlogRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking affected rows: %w", err)
	}
	if affected == 0 {
		return ErrPostNotFound
	}
	return nil
}
