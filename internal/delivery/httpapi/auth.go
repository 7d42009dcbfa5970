package httpapi

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Authenticator resolves the calling identity from an HS256 bearer token.
// The token subject is the identity.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates a new Authenticator with the shared secret.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Identity validates the Authorization header value and returns its subject.
func (a *Authenticator) Identity(header string) (entities.Identity, error) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(
		strings.TrimSpace(token),
		&claims,
		func(*jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", ErrInvalidToken
	}

	id, ok := entities.ParseIdentity(claims.Subject)
	if !ok {
		return "", ErrInvalidToken
	}
	return id, nil
}

// Sign issues a token for id. It is used by operators and tests to mint caller tokens.
func (a *Authenticator) Sign(id entities.Identity, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = id.String()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}
