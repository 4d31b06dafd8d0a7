package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// AccessTokenType marks tokens issued at login
	AccessTokenType = "access_token"
)

// GenerateToken signs an access token bound to a user and a session
func GenerateToken(userID, sessionID, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is missing")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"id":   userID,
		"sid":  sessionID,
		"type": AccessTokenType,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAndGetClaims checks the signature and expiry of tokenString
func ValidateAndGetClaims(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims["type"] != AccessTokenType {
		return nil, fmt.Errorf("invalid token type")
	}
	return claims, nil
}

// SessionClaims returns the user and session identifiers of a validated token
func SessionClaims(claims jwt.MapClaims) (userID string, sessionID string, err error) {
	userID, ok := claims["id"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("token has no user id")
	}
	sessionID, ok = claims["sid"].(string)
	if !ok || sessionID == "" {
		return "", "", fmt.Errorf("token has no session id")
	}
	return userID, sessionID, nil
}
