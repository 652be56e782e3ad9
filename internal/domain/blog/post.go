package blog

import (
	"database/sql"
	"regexp"
	"strings"
	"time"
)

// Post is a blog entry. Slug is unique and derived from the title unless
// set explicitly.
type Post struct {
	ID            string
	Title         string
	Slug          string
	Content       string
	Excerpt       string
	FeaturedImage sql.NullString
	Published     bool
	PublishedAt   sql.NullTime
	AuthorID      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a post title: lowercase, non-alphanumeric
// runs collapsed to single hyphens, no leading or trailing hyphen.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// FilterPosts narrows posts by publication state and a case-insensitive
// title/excerpt query. published nil means both states.
func FilterPosts(posts []*Post, published *bool, query string) []*Post {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*Post, 0, len(posts))
	for _, p := range posts {
		if published != nil && p.Published != *published {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Excerpt), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}
