package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	e "github.com/epicevents/crm/internal/crm/errors"
	"github.com/epicevents/crm/internal/crm/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "epicrm"

// Claims defines the session token payload.
type Claims struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// CollaboratorID returns the numeric account ID carried in the
// token subject.
func (c *Claims) CollaboratorID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed token subject", e.ErrInvalidInput)
	}
	return uint(id), nil
}

// GenerateToken issues a signed session token for the collaborator.
func GenerateToken(collaborator *models.Collaborator, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: collaborator.Username,
		Role:     collaborator.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(collaborator.ID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the signature, signing method and expiry, and
// returns the embedded claims.
func ParseToken(token, secret string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, e.ErrSessionExpired
		}
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
