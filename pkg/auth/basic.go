package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
)

var (
	// ErrMissingCredentials means no usable Authorization header was sent
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrInvalidCredentials means the header decoded but did not match
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotConfigured means no credentials are configured, so every request is denied
	ErrNotConfigured = errors.New("credentials not configured")
)

// BasicChecker validates "Basic base64(user:password)" headers against a
// configured set of user=password pairs.
type BasicChecker struct {
	users map[string]string
}

// NewBasicChecker parses a comma separated list of user=password pairs.
// Malformed pairs are ignored.
func NewBasicChecker(credentials string) *BasicChecker {
	users := make(map[string]string)
	for _, pair := range strings.Split(credentials, ",") {
		user, password, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || user == "" {
			continue
		}
		users[user] = password
	}
	return &BasicChecker{users: users}
}

// Configured reports whether at least one user is known
func (c *BasicChecker) Configured() bool {
	return len(c.users) > 0
}

// Check validates an Authorization header value and returns the user name
func (c *BasicChecker) Check(header string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	user, password, err := ParseBasic(header)
	if err != nil {
		return "", err
	}

	expected, ok := c.users[user]
	if !ok || subtle.ConstantTimeCompare([]byte(password), []byte(expected)) != 1 {
		return "", ErrInvalidCredentials
	}
	return user, nil
}

// ParseBasic splits a Basic Authorization header into user and password
func ParseBasic(header string) (string, string, error) {
	scheme, encoded, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Basic") {
		return "", "", ErrMissingCredentials
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", "", ErrInvalidCredentials
	}

	user, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", ErrInvalidCredentials
	}
	return user, password, nil
}
