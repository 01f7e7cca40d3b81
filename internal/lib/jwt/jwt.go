package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

type Purpose string

const (
	PurposeEmailVerification Purpose = "email_verification"
	PurposeSession           Purpose = "session"
	PurposePasswordReset     Purpose = "password_reset"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Purpose Purpose `json:"purpose"`
	jwtv5.RegisteredClaims
}

// NewToken signs an HS256 token carrying subject and purpose that expires after ttl.
func NewToken(subject string, purpose Purpose, ttl time.Duration, secret string) (string, error) {
	now := time.Now()

	claims := Claims{
		Purpose: purpose,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}

// ParseToken validates signature, expiry and purpose and returns the subject.
func ParseToken(tokenStr string, purpose Purpose, secret string) (string, error) {
	const op = "jwt.ParseToken"

	claims := &Claims{}

	parsedToken, err := jwtv5.ParseWithClaims(tokenStr, claims, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%s: unexpected signing method %v", op, t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwtv5.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}

	if !parsedToken.Valid {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if claims.Purpose != purpose {
		return "", fmt.Errorf("%s: %w: unexpected purpose %q", op, ErrInvalidToken, claims.Purpose)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%s: %w: missing sub claim", op, ErrInvalidToken)
	}

	return claims.Subject, nil
}

func UserSubject(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
