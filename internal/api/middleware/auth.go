package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/rest-template/internal/api/shared"
	"github.com/phrazzld/rest-template/internal/config"
	"github.com/phrazzld/rest-template/internal/domain"
)

// WriteScope must be present in a token's scope claim to modify resources.
const WriteScope = "write"

// Claims are the JWT claims accepted by the write guard. Scope is a
// space-separated list.
type Claims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// HasScope reports whether the claims grant scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(strings.Fields(c.Scope), scope)
}

// WriteGuard requires a bearer JWT with the write scope on mutating requests.
// Safe methods pass through untouched.
type WriteGuard struct {
	secret []byte
	issuer string
}

// NewWriteGuard creates a guard from configuration. An empty secret yields a
// disabled guard.
func NewWriteGuard(cfg config.AuthConfig) *WriteGuard {
	return &WriteGuard{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer}
}

// Enabled reports whether the guard checks tokens at all.
func (g *WriteGuard) Enabled() bool {
	return len(g.secret) > 0
}

// Handler enforces the guard on POST, PUT, PATCH and DELETE requests and
// stores the token subject in the request context.
func (g *WriteGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Enabled() || !isWriteMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			g.reject(w, r, http.StatusUnauthorized, "Authorization header required", domain.ErrUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			g.reject(w, r, http.StatusUnauthorized, "Invalid authorization format", domain.ErrUnauthorized)
			return
		}

		claims, err := g.parse(parts[1])
		if err != nil {
			message := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				message = "Token expired"
			}
			g.reject(w, r, http.StatusUnauthorized, message, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err))
			return
		}

		if !claims.HasScope(WriteScope) {
			g.reject(w, r, http.StatusForbidden, "Insufficient scope", domain.ErrForbidden)
			return
		}

		ctx := shared.WithSubject(r.Context(), claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *WriteGuard) parse(raw string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if g.issuer != "" {
		opts = append(opts, jwt.WithIssuer(g.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return g.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (g *WriteGuard) reject(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	shared.RespondWithErrorAndLog(w, r, status, message, err, shared.WithElevatedLogLevel())
}

func isWriteMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// SignToken issues an HS256 token the write guard accepts.
func SignToken(secret, issuer, subject string, scopes []string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("secret cannot be empty")
	}
	if ttl <= 0 {
		return "", errors.New("ttl must be positive")
	}

	now := time.Now()
	claims := Claims{
		Scope: strings.Join(scopes, " "),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
