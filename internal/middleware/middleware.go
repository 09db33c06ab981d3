package middleware

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type contextKey string

const (
	courseIDKey  contextKey = "courseID"
	sessionIDKey contextKey = "sessionID"
)

// SessionOptions configures the editor session cookie.
type SessionOptions struct {
	CookieName string
	Expiration time.Duration
	IsHTTPS    bool
}

// SessionCtx makes sure every request belongs to an editor session. A request without a valid
// session cookie is given a new session ID, which is sent back as a cookie. The ID can be read
// with GetSessionID.
func SessionCtx(opts SessionOptions) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string
			if cookie, err := r.Cookie(opts.CookieName); err == nil {
				if _, err := uuid.Parse(cookie.Value); err == nil {
					sessionID = cookie.Value
				}
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, sessionCookie(opts, sessionID))
			}

			ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionID returns the session ID set by SessionCtx, or "" outside of it.
func GetSessionID(r *http.Request) string {
	sessionID, _ := r.Context().Value(sessionIDKey).(string)
	return sessionID
}

// CourseCtx sets "courseID" from the URL param in the context.
func CourseCtx() func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			courseID := URLParam(r, "courseID")

			ctx := context.WithValue(r.Context(), courseIDKey, courseID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCourseID returns the course ID set by CourseCtx, or "" outside of it.
func GetCourseID(r *http.Request) string {
	courseID, _ := r.Context().Value(courseIDKey).(string)
	return courseID
}

// URLParam returns the decoded value of a chi URL param. chi routes on RawPath when the request
// path has non-canonical escapes (such as %2F), and its params are still escaped in that case only.
func URLParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return raw
	}
	if unescaped, err := url.PathUnescape(raw); err == nil {
		return unescaped
	}
	return raw
}

// Helpers

func sessionCookie(opts SessionOptions, value string) *http.Cookie {
	var sameSite http.SameSite
	if opts.IsHTTPS {
		sameSite = http.SameSiteNoneMode
	} else {
		sameSite = http.SameSiteLaxMode
	}

	return &http.Cookie{
		Name:     opts.CookieName,
		Value:    value,
		MaxAge:   int(opts.Expiration.Seconds()),
		HttpOnly: true,
		SameSite: sameSite,
		Secure:   opts.IsHTTPS,
		Path:     "/",
	}
}
