package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// authCtxKey is the key a validated session's subject is stored under in
// a request's context.
type authCtxKey int

const authSubject authCtxKey = iota

// sessionMinter mints and validates bearer session tokens against a
// single configured API-key credential (there is no user database here --
// this server has exactly one authorized caller per deployment).
type sessionMinter struct {
	apiKeyHash []byte
	jwtSecret  []byte
}

func newSessionMinter(apiKey string, jwtSecret []byte) (*sessionMinter, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash api key: %w", err)
	}
	return &sessionMinter{apiKeyHash: hash, jwtSecret: jwtSecret}, nil
}

func (m *sessionMinter) checkAPIKey(candidate string) bool {
	return bcrypt.CompareHashAndPassword(m.apiKeyHash, []byte(candidate)) == nil
}

func (m *sessionMinter) mint(subject string) (string, error) {
	claims := &jwt.MapClaims{
		"iss": "lexgend",
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(m.jwtSecret)
}

func (m *sessionMinter) validate(tokStr string) (string, error) {
	tok, err := jwt.Parse(tokStr, func(t *jwt.Token) (interface{}, error) {
		return m.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer("lexgend"), jwt.WithLeeway(time.Minute))
	if err != nil {
		return "", err
	}
	return tok.Claims.GetSubject()
}

// requireAuth is middleware requiring a valid bearer session token,
// storing the token's subject in the request context on success.
func (m *sessionMinter) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		tok, err := bearerToken(req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		subject, err := m.validate(tok)
		if err != nil {
			http.Error(w, "invalid session token", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(req.Context(), authSubject, subject)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func bearerToken(req *http.Request) (string, error) {
	header := strings.TrimSpace(req.Header.Get("Authorization"))
	if header == "" {
		return "", fmt.Errorf("no authorization header present")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}
