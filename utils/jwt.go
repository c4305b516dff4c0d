package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// TokenClaims is what the auth middleware reads from a bearer token.
type TokenClaims struct {
	UserID string
	Email  string
}

// GenerateToken creates a signed JWT token with the given subject and email.
// The token expires after the specified duration.
func GenerateToken(secret []byte, subject, email string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken parses and validates a token string and returns its claims.
func ValidateToken(secret []byte, tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	email, _ := claims["email"].(string)
	return &TokenClaims{UserID: sub, Email: email}, nil
}
