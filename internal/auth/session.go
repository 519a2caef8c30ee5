package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"scribble/internal/models"
	"scribble/internal/services"
)

const cookieName = "token"

// Claims defines the JWT claims carried by a session token.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type contextKey string

const userContextKey = contextKey("currentUser")

// Sessions issues and resolves session cookies. Tokens are signed JWTs
// bound to a user id; the user itself is re-fetched from the credential
// store on every request.
type Sessions struct {
	users  services.UserServiceProvider
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewSessions creates a new session manager.
func NewSessions(users services.UserServiceProvider, secret string, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{users: users, secret: []byte(secret), ttl: ttl, secure: secure}
}

// GenerateToken creates a signed session token for a user. Each token
// carries a fresh jti, so a login never continues an older session.
func (s *Sessions) GenerateToken(user models.User) (string, error) {
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and validates a session token string.
func (s *Sessions) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Start begins a session for the user, replacing whatever session cookie
// the client held before.
func (s *Sessions) Start(w http.ResponseWriter, user models.User) error {
	token, err := s.GenerateToken(user)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Expires:  time.Now().Add(s.ttl),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
	return nil
}

// End invalidates the client's session cookie.
func (s *Sessions) End(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
}

// LoadUser resolves the session cookie once per request, ahead of any
// route logic, and attaches the resolved user to the request context.
// Requests without a valid session proceed anonymously.
func (s *Sessions) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(cookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := s.ValidateToken(cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.users.GetUserByID(claims.UserID)
		if err != nil {
			log.Debug().Err(err).Int64("user_id", claims.UserID).Msg("Session user no longer exists")
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireLogin redirects anonymous requests to the login page.
func (s *Sessions) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); !ok {
			http.Redirect(w, r, "/auth/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the user resolved by LoadUser, if any.
func CurrentUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	if !ok || user == nil {
		return models.User{}, false
	}
	return *user, true
}
