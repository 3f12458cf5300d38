package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/identity/domain"
)

const issuer = "ordo"

// sessionClaims is the signed payload of a session token.
type sessionClaims struct {
	SessionID string `json:"sid"`
	Name      string `json:"name"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 session tokens.
type JWTIssuer struct {
	secret []byte
	parser *jwt.Parser
}

func NewJWTIssuer(secret string) *JWTIssuer {
	return &JWTIssuer{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
		),
	}
}

func (i *JWTIssuer) Issue(claims domain.TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID: claims.SessionID.String(),
		Name:      claims.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   claims.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry. Every failure maps to
// domain.ErrInvalidToken.
func (i *JWTIssuer) Parse(raw string) (domain.TokenClaims, error) {
	var claims sessionClaims
	_, err := i.parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return i.secret, nil
	})
	if err != nil {
		return domain.TokenClaims{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.TokenClaims{}, domain.ErrInvalidToken
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return domain.TokenClaims{}, domain.ErrInvalidToken
	}

	return domain.TokenClaims{
		UserID:    userID,
		SessionID: sessionID,
		Username:  claims.Name,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
