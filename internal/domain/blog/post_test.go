package blog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Menú de verano 2024":     "men-de-verano-2024",
		"  Arroces & Paellas!  ":  "arroces-paellas",
		"ya-es-un-slug":           "ya-es-un-slug",
		"---":                     "",
		"Nueva carta de vinos":    "nueva-carta-de-vinos",
	}
	for title, want := range cases {
		assert.Equal(t, want, Slugify(title), "title %q", title)
	}
}

func TestFilterPosts(t *testing.T) {
	published := true
	draft := false
	posts := []*Post{
		{ID: "1", Title: "Temporada de alcachofas", Published: true},
		{ID: "2", Title: "Nueva carta de vinos", Excerpt: "rioja y albariño", Published: false},
		{ID: "3", Title: "Arroz del domingo", Published: true},
	}

	got := FilterPosts(posts, &published, "")
	require.Len(t, got, 2)

	got = FilterPosts(posts, &draft, "")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	got = FilterPosts(posts, nil, "rioja")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	got = FilterPosts(posts, nil, "")
	assert.Len(t, got, 3)
}
