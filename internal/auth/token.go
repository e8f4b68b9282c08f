package auth

import (
	"strings"

	"github.com/alexedwards/argon2id"
	"github.com/pkg/errors"
)

const bearerPrefix = "Bearer "

// hashParams are lighter than argon2id.DefaultParams since a hash is
// compared on every bearer request.
var hashParams = &argon2id.Params{ //nolint:gochecknoglobals
	Memory:      16 * 1024,
	Iterations:  2,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

// TokenVerifier checks presented tokens against the configured one.
type TokenVerifier struct {
	hash string
}

// NewTokenVerifier hashes token and returns a verifier for it.
func NewTokenVerifier(token string) (*TokenVerifier, error) {
	if token == "" {
		return nil, ErrTokenEmpty
	}

	hash, err := argon2id.CreateHash(token, hashParams)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash auth token")
	}

	return &TokenVerifier{hash: hash}, nil
}

// Verify reports whether token matches the configured token.
func (v *TokenVerifier) Verify(token string) bool {
	if v == nil || token == "" {
		return false
	}

	match, err := argon2id.ComparePasswordAndHash(token, v.hash)
	if err != nil {
		return false
	}

	return match
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header value.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])

	return token, token != ""
}
