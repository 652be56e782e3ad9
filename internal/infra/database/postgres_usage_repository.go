package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresUsageRepository answers how many records point at a given image
// path, across every table that stores one.
type PostgresUsageRepository struct {
	db *sql.DB
}

func NewPostgresUsageRepository(db *sql.DB) *PostgresUsageRepository {
	return &PostgresUsageRepository{db: db}
}

// CountImageUsage returns a count per object path. Paths with no references
// are present in the result with a zero count.
func (r *PostgresUsageRepository) CountImageUsage(ctx context.Context, objectPaths []string) (map[string]int, error) {
	counts := make(map[string]int, len(objectPaths))
	for _, p := range objectPaths {
		counts[p] = 0
	}
	if len(objectPaths) == 0 {
		return counts, nil
	}

	query := `SELECT path, SUM(n)::int FROM (
	            SELECT image_path AS path, COUNT(*) AS n FROM menu_items
	             WHERE image_path = ANY($1) GROUP BY image_path
	            UNION ALL
	            SELECT image_path, COUNT(*) FROM wines
	             WHERE image_path = ANY($1) GROUP BY image_path
	            UNION ALL
	            SELECT featured_image, COUNT(*) FROM blog_posts
	             WHERE featured_image = ANY($1) GROUP BY featured_image
	          ) refs GROUP BY path`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(objectPaths))
	if err != nil {
		return nil, fmt.Errorf("error counting image usage: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var path string
		var n int
		if err := rows.Scan(&path, &n); err != nil {
			return nil, fmt.Errorf("error scanning image usage: %w", err)
		}
		counts[path] = n
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating image usage: %w", err)
	}
	return counts, nil
}
