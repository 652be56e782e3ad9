package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"restaurant_backoffice/internal/domain/user"
	idb "restaurant_backoffice/internal/infra/database"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	contextKeyUserID contextKey = "user_id"
	contextKeyEmail  contextKey = "email"
	contextKeyRole   contextKey = "role"
)

// accessClaims is the subset of the identity provider's JWT the middleware
// cares about. Sub is the user id.
type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticator validates bearer tokens and attaches the caller's identity
// and profile role to the request context.
type Authenticator struct {
	secret []byte
	users  user.Repository
	log    *logrus.Logger
}

func NewAuthenticator(secret string, users user.Repository, log *logrus.Logger) *Authenticator {
	return &Authenticator{secret: []byte(secret), users: users, log: log}
}

// Authenticate rejects requests without a valid token or with a disabled
// profile. The profile's role, not the token, decides authorization.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "Authorization header must be a Bearer token")
			return
		}

		claims := &accessClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		profile, err := a.users.GetByID(r.Context(), claims.Subject)
		if err != nil {
			if err == idb.ErrUserNotFound {
				writeError(w, http.StatusUnauthorized, "no profile for this account")
				return
			}
			a.log.WithError(err).Error("Failed to load profile during authentication")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if !profile.Active {
			writeError(w, http.StatusForbidden, "this account has been disabled")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, profile.ID)
		ctx = context.WithValue(ctx, contextKeyEmail, profile.Email)
		ctx = context.WithValue(ctx, contextKeyRole, profile.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin allows only profiles with the admin role through. It must
// run after Authenticate.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if RoleFromContext(r.Context()) != user.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserIDFromContext returns the authenticated user's id, empty when the
// request skipped authentication.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyUserID).(string)
	return id
}

func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(contextKeyEmail).(string)
	return email
}

func RoleFromContext(ctx context.Context) user.Role {
	role, _ := ctx.Value(contextKeyRole).(user.Role)
	return role
}

// RequestLogging emits one structured line per request.
func RequestLogging(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   recorder.status,
				"duration": time.Since(start).String(),
			}).Info("Request handled")
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
