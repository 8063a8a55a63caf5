package usecase

import (
	"context"
	"strings"
	"time"

	"erp-backend/internal/apperr"
	"erp-backend/internal/model"
	"erp-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthUsecase struct {
	store  *repository.Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthUsecase(store *repository.Store, secret string, ttl time.Duration) *AuthUsecase {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthUsecase{store: store, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// HashPassword returns the bcrypt hash stored on a profile.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (u *AuthUsecase) Login(ctx context.Context, email, password string) (string, *model.Profile, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", nil, apperr.Validation("email", "email and password are required")
	}

	// 1. Look the profile up by email
	p, err := u.store.Profiles.GetByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return "", nil, apperr.Unauthorized("invalid email or password")
		}
		return "", nil, err
	}

	// 2. Compare the password against the stored hash
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperr.Unauthorized("invalid email or password")
	}
	if p.EmploymentStatus == model.EmploymentSeparated {
		return "", nil, apperr.Unauthorized("account is no longer active")
	}

	// 3. Issue the session token
	token, err := u.IssueToken(p)
	if err != nil {
		return "", nil, apperr.Internal("failed to issue token", err)
	}
	return token, p, nil
}

func (u *AuthUsecase) IssueToken(p *model.Profile) (string, error) {
	claims := jwt.MapClaims{
		"user_id": p.ID,
		"role":    string(p.Role),
		"exp":     u.now().Add(u.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.secret)
}
