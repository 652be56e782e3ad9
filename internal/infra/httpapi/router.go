package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Handlers groups everything the router wires up.
type Handlers struct {
	Auth      *AuthHandlers
	DailyMenu *DailyMenuHandlers
	Catalog   *CatalogHandlers
	Blog      *BlogHandlers
	Images    *ImageHandlers
	Entries   *EntryHandlers
	Users     *UserHandlers
}

// NewRouter assembles the API: a public slice for health and auth, an
// authenticated slice for the back office proper, and an admin-only slice
// for account administration.
func NewRouter(h Handlers, auth *Authenticator, log *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogging(log))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	h.Auth.RegisterPublic(api)

	protected := api.NewRoute().Subrouter()
	protected.Use(auth.Authenticate)
	h.Auth.RegisterProtected(protected)
	h.DailyMenu.Register(protected)
	h.Catalog.Register(protected)
	h.Blog.Register(protected)
	h.Images.Register(protected)
	h.Entries.Register(protected)

	admin := api.NewRoute().Subrouter()
	admin.Use(auth.Authenticate, auth.RequireAdmin)
	h.Users.Register(admin)

	return r
}
