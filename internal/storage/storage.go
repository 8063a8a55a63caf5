// Package storage keeps uploaded documents on local disk and hands out
// short-lived signed links to them.
package storage

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"erp-backend/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFileName restricts name to [A-Za-z0-9._-]. Anything else becomes
// an underscore; leading dots are dropped so the result is never hidden or a
// path component.
func SanitizeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	clean := strings.TrimLeft(unsafeChars.ReplaceAllString(base, "_"), ".")
	if clean == "" {
		return "file"
	}
	if len(clean) > 120 {
		clean = clean[len(clean)-120:]
	}
	return clean
}

type LocalStore struct {
	root    string
	secret  []byte
	baseURL string
}

func NewLocalStore(root, secret, baseURL string) *LocalStore {
	return &LocalStore{root: root, secret: []byte(secret), baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStore) resolve(path string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(path))
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", apperr.Validation("file", "invalid file path")
	}
	return full, nil
}

// Upload stores data at path, relative to the store root.
func (s *LocalStore) Upload(_ context.Context, path string, data []byte) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return apperr.Internal("failed to store file", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return apperr.Internal("failed to store file", err)
	}
	return nil
}

// Remove deletes the file at path. A missing file is not an error.
func (s *LocalStore) Remove(_ context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperr.Internal("failed to remove file", err)
	}
	return nil
}

type fileClaims struct {
	Path string `json:"path"`
	jwt.RegisteredClaims
}

// SignedURL returns a link to path that stays valid for ttl.
func (s *LocalStore) SignedURL(path string, ttl time.Duration) (string, error) {
	claims := fileClaims{
		Path: path,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return s.baseURL + "/files?token=" + url.QueryEscape(token), nil
}

// Open validates a signed token and returns the absolute file path it grants.
func (s *LocalStore) Open(token string) (string, error) {
	var claims fileClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", apperr.Forbidden("link is invalid or expired")
	}
	full, err := s.resolve(claims.Path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(full); err != nil {
		return "", apperr.NotFound("file not found")
	}
	return full, nil
}
