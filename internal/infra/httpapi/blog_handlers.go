package httpapi

import (
	"database/sql"
	"net/http"
	"strconv"

	"restaurant_backoffice/internal/app"
	"restaurant_backoffice/internal/domain/blog"

	"github.com/gorilla/mux"
)

type BlogHandlers struct {
	service *app.BlogService
}

func NewBlogHandlers(service *app.BlogService) *BlogHandlers {
	return &BlogHandlers{service: service}
}

func (h *BlogHandlers) Register(r *mux.Router) {
	r.HandleFunc("/posts", h.list).Methods(http.MethodGet)
	r.HandleFunc("/posts", h.create).Methods(http.MethodPost)
	r.HandleFunc("/posts/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id}", h.update).Methods(http.MethodPut)
	r.HandleFunc("/posts/{id}", h.delete).Methods(http.MethodDelete)
	r.HandleFunc("/posts/{id}/published", h.setPublished).Methods(http.MethodPatch)
}

type postPayload struct {
	Title         string `json:"title" validate:"required"`
	Slug          string `json:"slug"`
	Content       string `json:"content"`
	Excerpt       string `json:"excerpt"`
	FeaturedImage string `json:"featured_image"`
	Published     bool   `json:"published"`
}

type postResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Content       string `json:"content"`
	Excerpt       string `json:"excerpt"`
	FeaturedImage string `json:"featured_image,omitempty"`
	Published     bool   `json:"published"`
	PublishedAt   string `json:"published_at,omitempty"`
	AuthorID      string `json:"author_id"`
}

func toPostResponse(p *blog.Post) postResponse {
	resp := postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Content:   p.Content,
		Excerpt:   p.Excerpt,
		Published: p.Published,
		AuthorID:  p.AuthorID,
	}
	if p.FeaturedImage.Valid {
		resp.FeaturedImage = p.FeaturedImage.String
	}
	if p.PublishedAt.Valid {
		resp.PublishedAt = p.PublishedAt.Time.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

func (h *BlogHandlers) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var published *bool
	if v := q.Get("published"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "published must be true or false")
			return
		}
		published = &b
	}

	posts, err := h.service.ListPosts(r.Context(), published, q.Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *BlogHandlers) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetPost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(p))
}

func (h *BlogHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req postPayload
	if !decodeAndValidate(w, r, &req) {
		return
	}

	post := &blog.Post{
		Title:     req.Title,
		Slug:      req.Slug,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Published: req.Published,
		AuthorID:  UserIDFromContext(r.Context()),
	}
	if req.FeaturedImage != "" {
		post.FeaturedImage = sql.NullString{String: req.FeaturedImage, Valid: true}
	}

	if err := h.service.CreatePost(r.Context(), post); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

func (h *BlogHandlers) update(w http.ResponseWriter, r *http.Request) {
	var req postPayload
	if !decodeAndValidate(w, r, &req) {
		return
	}

	post := &blog.Post{
		ID:        mux.Vars(r)["id"],
		Title:     req.Title,
		Slug:      req.Slug,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Published: req.Published,
	}
	if req.FeaturedImage != "" {
		post.FeaturedImage = sql.NullString{String: req.FeaturedImage, Valid: true}
	}

	if err := h.service.UpdatePost(r.Context(), post); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(post))
}

type setPublishedRequest struct {
	Published *bool `json:"published" validate:"required"`
}

func (h *BlogHandlers) setPublished(w http.ResponseWriter, r *http.Request) {
	var req setPublishedRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	post, err := h.service.SetPublished(r.Context(), mux.Vars(r)["id"], *req.Published)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(post))
}

func (h *BlogHandlers) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePost(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
