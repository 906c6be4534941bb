package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// User is the authenticated caller.
type User struct {
	ID    string
	Admin bool
}

type userKey struct{}

// UserFrom returns the caller attached to ctx by the auth middleware.
func UserFrom(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userKey{}).(*User)
	return u, ok
}

func userID(ctx context.Context) string {
	if u, ok := UserFrom(ctx); ok {
		return u.ID
	}
	return ""
}

type claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (s *Server) authEnabled() bool {
	return len(s.secret) > 0
}

func (s *Server) parseToken(raw string) (*User, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if c.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return &User{ID: c.Subject, Admin: c.Role == "admin"}, nil
}

// authenticate attaches the bearer token's user to the request context.
// Requests without a token pass through anonymously; a bad token is
// rejected.
func (s *Server) authenticate(next http.Handler) http.Handler {
	if !s.authEnabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			s.fail(w, r, errUnauthorized)
			return
		}
		user, err := s.parseToken(raw)
		if err != nil {
			s.log.Debug("rejected token", zap.Error(err))
			s.fail(w, r, errUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	})
}

func (s *Server) requireUser(next http.Handler) http.Handler {
	if !s.authEnabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFrom(r.Context()); !ok {
			s.fail(w, r, errUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	if !s.authEnabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFrom(r.Context())
		if !ok {
			s.fail(w, r, errUnauthorized)
			return
		}
		if !u.Admin {
			s.fail(w, r, errForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authorize allows admins and the record's owner.
func (s *Server) authorize(ctx context.Context, owner string) error {
	if !s.authEnabled() {
		return nil
	}
	u, ok := UserFrom(ctx)
	if !ok {
		return errUnauthorized
	}
	if u.Admin || owner == u.ID {
		return nil
	}
	return errForbidden
}
