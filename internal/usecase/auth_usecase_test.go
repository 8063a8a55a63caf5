package usecase

import (
	"testing"
	"time"

	"erp-backend/internal/apperr"
	"erp-backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

func TestLogin(t *testing.T) {
	f := newFixture(t)
	uc := NewAuthUsecase(f.store, "test-secret", time.Hour)

	p := f.profile("Lola Login", model.RoleLead, "IT")
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := f.store.Profiles.Update(f.ctx, p.ID, map[string]interface{}{"password_hash": hash}); err != nil {
		t.Fatalf("set password: %v", err)
	}

	token, got, err := uc.Login(f.ctx, " LOLA.LOGIN@example.com ", "s3cret!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != p.ID {
		t.Fatalf("logged in as %d, want %d", got.ID, p.ID)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}); err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims["user_id"].(float64) != float64(p.ID) || claims["role"] != string(model.RoleLead) {
		t.Fatalf("unexpected claims %v", claims)
	}

	_, _, err = uc.Login(f.ctx, "lola.login@example.com", "wrong")
	wantKind(t, err, apperr.KindUnauthorized)
	_, _, err = uc.Login(f.ctx, "nobody@example.com", "s3cret!")
	wantKind(t, err, apperr.KindUnauthorized)
	_, _, err = uc.Login(f.ctx, "", "")
	wantKind(t, err, apperr.KindValidation)

	if err := f.store.Profiles.Update(f.ctx, p.ID, map[string]interface{}{"employment_status": model.EmploymentSeparated}); err != nil {
		t.Fatalf("separate: %v", err)
	}
	_, _, err = uc.Login(f.ctx, "lola.login@example.com", "s3cret!")
	wantKind(t, err, apperr.KindUnauthorized)
}

func TestNotificationInbox(t *testing.T) {
	f := newFixture(t)
	uc := NewNotificationUsecase(f.store)
	p := f.profile("Nia Note", model.RoleEmployee, "Sales")
	other := f.profile("Olu Other", model.RoleEmployee, "Sales")

	for _, title := range []string{"first", "second"} {
		if err := f.store.Notifications.Create(f.ctx, &model.Notification{UserID: p.ID, Type: "test", Title: title}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	list, err := uc.List(f.ctx, p.ID, true)
	if err != nil || len(list) != 2 {
		t.Fatalf("unread=%d err=%v", len(list), err)
	}

	err = uc.MarkRead(f.ctx, other.ID, list[0].ID)
	wantKind(t, err, apperr.KindNotFound)

	if err := uc.MarkRead(f.ctx, p.ID, list[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	unread, _ := uc.List(f.ctx, p.ID, true)
	all, _ := uc.List(f.ctx, p.ID, false)
	if len(unread) != 1 || len(all) != 2 {
		t.Fatalf("unread=%d all=%d", len(unread), len(all))
	}
}
