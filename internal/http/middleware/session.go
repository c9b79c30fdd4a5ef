package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/aura-backend/internal/platform/ctxutil"
	"github.com/yungbote/aura-backend/internal/platform/logger"
)

const (
	SessionCookie      = "aura_session"
	defaultSessionTTL  = 30 * 24 * time.Hour
	sessionTokenIssuer = "aura-backend"
)

// Sessions mints and verifies the anonymous browser session cookie. The
// session id only correlates log lines; it grants nothing.
type Sessions struct {
	log    *logger.Logger
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessions(log *logger.Logger, secret string, ttl time.Duration, secure bool) *Sessions {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Sessions{
		log:    log.With("middleware", "Sessions"),
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// Sign returns a signed token for sessionID.
func (s *Sessions) Sign(sessionID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		Issuer:    sessionTokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify returns the session id of a valid, unexpired token.
func (s *Sessions) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionTokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("parse session token: %w", err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", errors.New("invalid session token")
	}
	return claims.Subject, nil
}

// Middleware stores the session id in the request context, minting a new
// cookie when the request has none or its token does not verify.
func (s *Sessions) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var sessionID string
		if raw, err := c.Cookie(SessionCookie); err == nil && raw != "" {
			if id, verr := s.Verify(raw); verr == nil {
				sessionID = id
			} else {
				s.log.Debug("Discarding session cookie", "error", verr)
			}
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
			token, err := s.Sign(sessionID)
			if err != nil {
				s.log.Warn("Failed to sign session token", "error", err)
			} else {
				http.SetCookie(c.Writer, &http.Cookie{
					Name:     SessionCookie,
					Value:    token,
					Path:     "/",
					MaxAge:   int(s.ttl.Seconds()),
					HttpOnly: true,
					Secure:   s.secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
		}
		c.Request = c.Request.WithContext(ctxutil.WithSessionID(c.Request.Context(), sessionID))
		c.Next()
	}
}
