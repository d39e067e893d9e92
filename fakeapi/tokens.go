package fakeapi

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "go-todo-fakeapi"

var errInvalidToken = errors.New("Could not validate credentials")

// tokenIssuer signs and verifies HS256 access tokens whose subject is the
// user id.
type tokenIssuer struct {
	key []byte
	ttl time.Duration
}

func newTokenIssuer(key string, ttl time.Duration) *tokenIssuer {
	return &tokenIssuer{key: []byte(key), ttl: ttl}
}

func (ti *tokenIssuer) issue(userID string) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID,
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(ti.ttl)),
		ID:        uuid.New().String(),
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(ti.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// verify returns the user id carried by a valid token.
func (ti *tokenIssuer) verify(raw string) (string, error) {
	claims := &jwtlib.RegisteredClaims{}
	_, err := jwtlib.ParseWithClaims(raw, claims, func(t *jwtlib.Token) (interface{}, error) {
		return ti.key, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(NowTimeFunc),
	)
	if err != nil {
		return "", errInvalidToken
	}
	if err := uuid.Validate(claims.Subject); err != nil {
		return "", errInvalidToken
	}
	return claims.Subject, nil
}
