package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-lessons/internal/identity"
)

// DefaultSessionCookie names the cookie carrying the session id.
const DefaultSessionCookie = "lessons_session"

const sessionMaxAge = 30 * 24 * time.Hour

// session returns the request's session id, issuing a new cookie when the
// request carries none or an unparsable one.
func (s *Server) session(w http.ResponseWriter, r *http.Request) uuid.UUID {
	if cookie, err := r.Cookie(s.cookieName); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil && id != uuid.Nil {
			return id
		}
	}
	id := identity.SessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    id.String(),
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
