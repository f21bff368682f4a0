// Package token issues and validates the bearer JWTs that the server's
// middleware and login endpoint use to authenticate a store.StoredClient
// across requests.
package token

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/ctxfree/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "ctxfreesrv"

// signKey derives the HMAC key for c's tokens by mixing the server-wide
// secret with c's stored key hash and last-logout time, so that rotating a
// client's API key or logging it out invalidates every token issued before
// that change without needing a revocation list.
func signKey(secret []byte, c store.StoredClient) []byte {
	var key []byte
	key = append(key, secret...)
	key = append(key, []byte(c.KeyHash)...)
	key = append(key, []byte(fmt.Sprintf("%d", c.LastLogoutTime.Unix()))...)
	return key
}

// Generate returns a signed JWT asserting that its bearer is c, valid for one
// hour from now.
func Generate(secret []byte, c store.StoredClient) (string, error) {
	claims := &jwt.MapClaims{
		"iss":        issuer,
		"exp":        time.Now().Add(time.Hour).Unix(),
		"sub":        c.ID.String(),
		"authorized": true,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	tokStr, err := tok.SignedString(signKey(secret, c))
	if err != nil {
		return "", err
	}
	return tokStr, nil
}

// clientLookup is the subset of store.ClientRepository that Validate needs.
type clientLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (store.StoredClient, error)
}

// Validate parses and verifies tok, looking the claimed subject up through
// repo to recompute its signing key, and returns the client it asserts.
func Validate(ctx context.Context, tok string, secret []byte, repo clientLookup) (store.StoredClient, error) {
	var client store.StoredClient

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}

		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}

		client, err = repo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("subject could not be validated")
		}

		return signKey(secret, client), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(issuer), jwt.WithLeeway(time.Minute))

	if err != nil {
		return store.StoredClient{}, err
	}

	return client, nil
}

// Get extracts the bearer token from req's Authorization header.
func Get(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))

	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	tok := strings.TrimSpace(authParts[1])

	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return tok, nil
}
