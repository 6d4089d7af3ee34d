package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by the identity provider's access tokens. Token issuance
// lives outside this service; we only validate and read.
type Claims struct {
	UserID uint
	Email  string
	Role   string
}

var ErrInvalidToken = errors.New("invalid access token")

func ExtractAccessToken(r *http.Request) string {
	// Cookie first, Authorization header as fallback.
	if cookie, err := r.Cookie("access_token"); err == nil {
		if cookie.Value != "" {
			return cookie.Value
		}
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// ParseToken validates the token signature and pulls out the identity claims.
func ParseToken(tokenStr string, secret []byte) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	uid, ok := mc["user_id"].(float64)
	if !ok || uid <= 0 {
		return nil, ErrInvalidToken
	}

	claims := &Claims{UserID: uint(uid)}
	if email, ok := mc["email"].(string); ok {
		claims.Email = email
	}
	if role, ok := mc["role"].(string); ok {
		claims.Role = role
	}

	return claims, nil
}

// SignToken mints a token with the claim layout ParseToken expects. Used by
// tests and local tooling; production tokens come from the identity provider.
func SignToken(claims Claims, secret []byte, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": float64(claims.UserID),
		"email":   claims.Email,
		"role":    claims.Role,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}
