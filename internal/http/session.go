package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"budgeteer/internal/auth"
	"budgeteer/internal/core"
)

type contextKey string

// userContextKey carries the authenticated user through the request context.
const userContextKey contextKey = "user"

// SessionCookieName is the name of the session cookie.
const SessionCookieName = "session"

// requireAuth validates the session cookie, renews sessions past the halfway
// point of their lifetime, and stores the user in the request context.
// Requests without a valid session are sent to the login page.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			s.redirectToLogin(w, r)
			return
		}

		info, err := s.storage.GetSession(r.Context(), cookie.Value)
		if err != nil {
			s.clearSessionCookie(w)
			s.redirectToLogin(w, r)
			return
		}

		// Rolling session: renew once past the halfway point so active
		// users stay logged in while idle sessions still expire.
		if time.Until(info.ExpiresAt) < s.config.SessionDuration/2 {
			newExpiry := time.Now().Add(s.config.SessionDuration)
			if err := s.storage.RenewSession(r.Context(), cookie.Value, newExpiry); err == nil {
				s.setSessionCookie(w, cookie.Value)
			} else {
				slog.WarnContext(r.Context(), "Session renewal failed", "error", err)
			}
		}

		ctx := context.WithValue(r.Context(), userContextKey, info.User)
		next(w, r.WithContext(ctx))
	}
}

// userFrom returns the authenticated user stored by requireAuth.
func userFrom(r *http.Request) core.User {
	u, _ := r.Context().Value(userContextKey).(core.User)
	return u
}

func (s *Server) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	// HTMX requests get a client-side redirect header instead of a 303,
	// otherwise the fragment swap would inline the login page.
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// startSession creates a session for the user and sets the cookie.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, userID int64) error {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(s.config.SessionDuration)
	if err := s.storage.CreateSession(r.Context(), token, userID, expiresAt); err != nil {
		return err
	}
	s.setSessionCookie(w, token)
	return nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.config.SessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   s.config.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
