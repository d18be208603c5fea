package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// issueToken signs a token carrying the user id. A client keeps it
// across the lobby/game reconnect and presents it on upgrade.
func (s *server) issueToken(userID int) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
}

// auth extracts the user id from the request's bearer token. Returns 0
// when no header is presented; the connection can still log in in-band.
// Any scheme other than Bearer is rejected.
func (s *server) auth(r *http.Request) (int, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return 0, nil
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return 0, ErrUnauthorized
	}
	return s.parseToken(strings.TrimSpace(token))
}

func (s *server) parseToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrUnauthorized
	}
	subject, err := token.Claims.GetSubject()
	if err != nil {
		return 0, ErrUnauthorized
	}
	userID, err := strconv.Atoi(subject)
	if err != nil || userID <= 0 {
		return 0, ErrUnauthorized
	}
	return userID, nil
}
