package api

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/basic"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/wildlife-watch-api/config"
)

// TokenTTL is how long an admin token stays valid
const TokenTTL = 24 * time.Hour

const (
	tokenIssuer = "wildlife-watch-api"
	adminGroup  = "admin"
	// ClientKeyHeader carries the public client key on REST and websocket requests
	ClientKeyHeader = "apikey"
)

var (
	// ErrAdminDisabled is returned when no admin credentials are configured
	ErrAdminDisabled = errors.New("admin login is not configured")
	// ErrNoSigningKey is returned when JWT_SECRET is unset
	ErrNoSigningKey       = errors.New("token signing key is not configured")
	errInvalidCredentials = errors.New("invalid credentials")
)

// ClientKeyMiddleware only lets requests through that present key in the
// apikey header or query parameter. An empty key disables the check.
func ClientKeyMiddleware(key string) func(http.Handler) http.Handler {
	expected := sha256.Sum256([]byte(key))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			presented := r.Header.Get(ClientKeyHeader)
			if presented == "" {
				presented = r.URL.Query().Get(ClientKeyHeader)
			}
			got := sha256.Sum256([]byte(presented))
			if subtle.ConstantTimeCompare(got[:], expected[:]) != 1 {
				zap.S().Warnw("rejected client key", "url", r.URL.Path)
				writeUnauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guard authenticates the single moderator account. Basic credentials are
// checked against the configured bcrypt hash; bearer tokens are JWTs it issued.
type Guard struct {
	authenticator auth.Authenticator
	secret        []byte
	adminEmail    string
	adminHash     []byte
	now           func() time.Time
}

// NewGuard sets up go-guardian with basic and bearer strategies. The credential
// cache is evicted until ctx ends.
func NewGuard(ctx context.Context, conf *config.Config) *Guard {
	g := &Guard{
		secret:     []byte(conf.JWTSecret),
		adminEmail: conf.AdminEmail,
		adminHash:  []byte(conf.AdminPasswordHash),
		now:        time.Now,
	}
	cache := store.NewFIFO(ctx, 10*time.Minute)
	g.authenticator = auth.New()
	g.authenticator.EnableStrategy(basic.StrategyKey, basic.New(g.ValidateAdmin, cache))
	g.authenticator.EnableStrategy(bearer.CachedStrategyKey, bearer.New(g.ValidateToken, cache))
	return g
}

// Middleware rejects requests without admin basic credentials or an admin token
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.authenticator.Authenticate(r)
		if err != nil {
			zap.S().Errorw("unauthorized",
				"url", r.URL.Path,
				"error", err)
			writeUnauthorized(w)
			return
		}
		zap.S().Debugw("admin authenticated", "user", user.UserName())
		next.ServeHTTP(w, r)
	})
}

// AuthenticateBasic checks the request's basic credentials only
func (g *Guard) AuthenticateBasic(r *http.Request) (auth.Info, error) {
	return g.authenticator.Strategy(basic.StrategyKey).Authenticate(r.Context(), r)
}

// ValidateAdmin is the basic strategy's credential check
func (g *Guard) ValidateAdmin(ctx context.Context, r *http.Request, email, password string) (auth.Info, error) {
	if g.adminEmail == "" || len(g.adminHash) == 0 {
		return nil, ErrAdminDisabled
	}

	emailHash := sha256.Sum256([]byte(email))
	expectedHash := sha256.Sum256([]byte(g.adminEmail))
	emailMatch := subtle.ConstantTimeCompare(emailHash[:], expectedHash[:]) == 1

	if err := bcrypt.CompareHashAndPassword(g.adminHash, []byte(password)); err != nil || !emailMatch {
		return nil, errInvalidCredentials
	}
	return auth.NewDefaultUser(g.adminEmail, "admin", []string{adminGroup}, nil), nil
}

// ValidateToken is the bearer strategy's token check
func (g *Guard) ValidateToken(ctx context.Context, r *http.Request, token string) (auth.Info, error) {
	if len(g.secret) == 0 {
		return nil, ErrNoSigningKey
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithSubject(g.adminEmail),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token, %w", err)
	}
	return auth.NewDefaultUser(claims.Subject, claims.ID, []string{adminGroup}, nil), nil
}

// IssueToken signs a TokenTTL admin token for email
func (g *Guard) IssueToken(email string) (string, time.Time, error) {
	if len(g.secret) == 0 {
		return "", time.Time{}, ErrNoSigningKey
	}
	now := g.now()
	expires := now.Add(TokenTTL)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   email,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error": "unauthorized"}`))
}
