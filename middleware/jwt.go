package middleware

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const tokenLifetime = 72 * time.Hour

func jwtSecret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("secret")
}

// GenerateToken signs a JWT identifying a registered user. The username is
// the subject; nothing else about the account goes into the token.
func GenerateToken(username string) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(tokenLifetime).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
}

func parseToken(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	username, _ := claims["sub"].(string)
	if username == "" {
		return "", errors.New("token carries no subject")
	}
	return username, nil
}

func stripBearer(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = raw[7:]
	}
	return strings.TrimSpace(raw)
}

// JWT_decoder extracts the username from the request's bearer token.
func JWT_decoder(c *gin.Context) (string, error) {
	raw := stripBearer(c.GetHeader("Authorization"))
	if raw == "" {
		return "", errors.New("missing Authorization header")
	}
	return parseToken(raw)
}

// Socketio_JWT_decoder does the same for a socket.io handshake auth map.
func Socketio_JWT_decoder(authData map[string]interface{}) (string, error) {
	field, _ := authData["authorization"].(string)
	raw := stripBearer(field)
	if raw == "" {
		return "", errors.New("missing authorization token")
	}
	return parseToken(raw)
}
