package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

// Token kinds carried in the "type" claim.
const (
	AccessToken  = "access"
	RefreshToken = "refresh"
)

// GenerateToken creates a signed HS256 token for subject of the given kind.
// The token expires after the specified duration. Every token carries a
// unique jti, so two tokens are never equal.
func GenerateToken(secret []byte, subject, kind string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"jti":  uuid.New().String(),
		"sub":  subject,
		"type": kind,
		"iat":  now.Unix(),
		"exp":  now.Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken parses tokenString, checks signature and expiry and returns
// its subject if it is of the wanted kind.
func ValidateToken(secret []byte, tokenString, kind string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	if claims["type"] != kind {
		return "", errors.New("wrong token type")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}
	return sub, nil
}
