package http

import (
	"log/slog"
	"net/http"
	"strings"

	"budgeteer/internal/auth"
	"budgeteer/internal/storage"
)

// dummyPasswordHash keeps failed lookups as slow as failed password checks.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type loginPageData struct {
	Error string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	// A valid session skips the form entirely.
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if _, err := s.storage.GetSession(r.Context(), cookie.Value); err == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}
	s.render(w, r, "login.html", loginPageData{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("invalid form data").Write(w)
		return
	}

	username, _ := formString(r, "username")
	password := r.Form.Get("password")
	if username == "" || password == "" {
		s.loginFailed(w, r, "Username and password are required")
		return
	}

	user, err := s.storage.GetUserByUsername(r.Context(), username)
	if err != nil {
		// Hash anyway so missing users cost the same as bad passwords.
		_ = auth.CheckPassword(dummyPasswordHash, password)
		s.loginFailed(w, r, "Invalid username or password")
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		s.loginFailed(w, r, "Invalid username or password")
		return
	}

	if err := s.startSession(w, r, user.ID); err != nil {
		slog.ErrorContext(r.Context(), "Failed to start session",
			"error", err,
			"user_id", user.ID)
		InternalServerError("something went wrong").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "User logged in", "user_id", user.ID)
	s.redirectAfterAuth(w, r)
}

func (s *Server) loginFailed(w http.ResponseWriter, r *http.Request, message string) {
	if r.Header.Get("HX-Request") == "true" {
		UnprocessableEntityError(message).Write(w)
		return
	}
	w.WriteHeader(http.StatusUnauthorized)
	s.render(w, r, "login.html", loginPageData{Error: message})
}

type registerPageData struct {
	Error string
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "register.html", registerPageData{})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("invalid form data").Write(w)
		return
	}

	username, _ := formString(r, "username")
	email, _ := formString(r, "email")
	password := r.Form.Get("password")

	if msg := validateRegistration(username, email, password); msg != "" {
		s.registerFailed(w, r, msg)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to hash password", "error", err)
		InternalServerError("something went wrong").Write(w)
		return
	}

	user, err := s.storage.CreateUser(r.Context(), username, email, hash)
	if err != nil {
		if errorIs(err, storage.ErrUsernameTaken) {
			s.registerFailed(w, r, "Username or email already taken")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create user", "error", err)
		InternalServerError("something went wrong").Write(w)
		return
	}

	if err := s.startSession(w, r, user.ID); err != nil {
		slog.ErrorContext(r.Context(), "Failed to start session",
			"error", err,
			"user_id", user.ID)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	slog.InfoContext(r.Context(), "User registered", "user_id", user.ID, "username", username)
	s.redirectAfterAuth(w, r)
}

func validateRegistration(username, email, password string) string {
	switch {
	case username == "" || email == "" || password == "":
		return "All fields are required"
	case len(username) < 3:
		return "Username must be at least 3 characters"
	case !strings.Contains(email, "@"):
		return "Invalid email address"
	case len(password) < 8:
		return "Password must be at least 8 characters"
	}
	return ""
}

func (s *Server) registerFailed(w http.ResponseWriter, r *http.Request, message string) {
	if r.Header.Get("HX-Request") == "true" {
		UnprocessableEntityError(message).Write(w)
		return
	}
	w.WriteHeader(http.StatusUnprocessableEntity)
	s.render(w, r, "register.html", registerPageData{Error: message})
}

// redirectAfterAuth sends the browser to the dashboard, using HX-Redirect
// when the form was submitted through HTMX.
func (s *Server) redirectAfterAuth(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := s.storage.DeleteSession(r.Context(), cookie.Value); err != nil {
			slog.WarnContext(r.Context(), "Failed to delete session", "error", err)
		}
	}
	s.clearSessionCookie(w)
	s.redirectToLogin(w, r)
}

type profilePageData struct {
	Username string
	Email    string
	Error    string
	Message  string
}

func (s *Server) handleProfilePage(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	s.render(w, r, "profile.html", profilePageData{
		Username: user.Username,
		Email:    user.Email,
	})
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	if err := r.ParseForm(); err != nil {
		BadRequestError("invalid form data").Write(w)
		return
	}

	patch := storage.UserProfilePatch{
		Username: optString(r, "username"),
		Email:    optString(r, "email"),
	}
	if password := r.Form.Get("password"); password != "" {
		if len(password) < 8 {
			UnprocessableEntityError("Password must be at least 8 characters").Write(w)
			return
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to hash password", "error", err)
			InternalServerError("something went wrong").Write(w)
			return
		}
		patch.PasswordHash = &hash
	}

	if err := s.storage.UpdateUserProfile(r.Context(), user.ID, patch); err != nil {
		if errorIs(err, storage.ErrUsernameTaken) {
			UnprocessableEntityError("Username or email already taken").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to update profile",
			"error", err,
			"user_id", user.ID)
		errorStatus(err).Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Profile updated", "user_id", user.ID)
	NewHTMXResponse().
		TriggerSuccessNotification("Profile updated").
		BodyString("").
		Write(w)
}
