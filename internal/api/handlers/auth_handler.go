package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"scribble/internal/auth"
	apperrors "scribble/internal/errors"
	"scribble/internal/services"
	"scribble/internal/web"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	users    services.UserServiceProvider
	sessions *auth.Sessions
	render   *web.Renderer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, sessions *auth.Sessions, render *web.Renderer) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, render: render}
}

// ShowRegister renders the registration form.
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.render.Page(w, http.StatusOK, "register", pageData(r))
}

// Register creates a new account and sends the user to the login page.
// Validation failures re-render the form with a message.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	var flash string
	switch {
	case username == "":
		flash = "Username is required."
	case password == "":
		flash = "Password is required."
	}
	if flash != "" {
		data := pageData(r)
		data.Flash = flash
		h.render.Page(w, http.StatusBadRequest, "register", data)
		return
	}

	id, err := h.users.Register(username, password)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateUsername) {
			data := pageData(r)
			data.Flash = fmt.Sprintf("User %q is already registered.", username)
			h.render.Page(w, apperrors.HTTPStatus(err), "register", data)
			return
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to register user")
		h.render.Error(w, pageData(r).User, http.StatusInternalServerError, "Registration failed.")
		return
	}

	log.Info().Int64("user_id", id).Str("username", username).Msg("User registered")
	http.Redirect(w, r, "/auth/login", http.StatusFound)
}

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.render.Page(w, http.StatusOK, "login", pageData(r))
}

// Login verifies credentials and starts a session. The fresh session
// cookie replaces any session the client held before.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.users.Authenticate(username, password)
	if err != nil {
		var flash string
		switch {
		case errors.Is(err, apperrors.ErrUnknownUser):
			flash = "Incorrect username."
		case errors.Is(err, apperrors.ErrBadPassword):
			flash = "Incorrect password."
		default:
			log.Error().Err(err).Str("username", username).Msg("Failed authentication attempt")
			flash = "Login failed."
		}
		data := pageData(r)
		data.Flash = flash
		h.render.Page(w, apperrors.HTTPStatus(err), "login", data)
		return
	}

	if err := h.sessions.Start(w, user); err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to start session")
		h.render.Error(w, nil, http.StatusInternalServerError, "Login failed.")
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout ends the session and returns to the feed.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
