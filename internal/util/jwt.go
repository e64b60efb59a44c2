package util

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"agencydesk/internal/model"
)

// GenerateToken issues a token carrying the actor id and role. Used by
// fixtures and tests; production tokens come from the auth service.
func GenerateToken(actor model.Actor, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  actor.ID,
		"role": string(actor.Role),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a token and extracts the actor.
func ParseToken(tokenStr, secret string) (model.Actor, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return model.Actor{}, err
	}

	if !token.Valid {
		return model.Actor{}, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.Actor{}, jwt.ErrTokenMalformed
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return model.Actor{}, jwt.ErrTokenMalformed
	}

	roleStr, ok := claims["role"].(string)
	if !ok {
		return model.Actor{}, jwt.ErrTokenMalformed
	}
	role := model.ActorRole(roleStr)
	if !model.ValidActorRole(role) {
		return model.Actor{}, fmt.Errorf("unknown role %q", roleStr)
	}

	return model.Actor{ID: sub, Role: role}, nil
}

func ExtractToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	parts := strings.Split(auth, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return parts[1]
}
