package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"erp-backend/internal/apperr"
	"erp-backend/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const testSecret = "middleware-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
}

func do(t *testing.T, app *fiber.App, path, token string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	body := map[string]interface{}{}
	_ = json.Unmarshal(raw, &body)
	return resp.StatusCode, body
}

func TestAuth(t *testing.T) {
	app := newApp()
	app.Get("/me", Auth(testSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": UserID(c)})
	})

	if code, body := do(t, app, "/me", ""); code != fiber.StatusUnauthorized || body["kind"] != string(apperr.KindUnauthorized) {
		t.Fatalf("missing token: %d %v", code, body)
	}

	expired := signToken(t, testSecret, jwt.MapClaims{"user_id": 7, "role": "employee", "exp": time.Now().Add(-time.Hour).Unix()})
	if code, _ := do(t, app, "/me", expired); code != fiber.StatusUnauthorized {
		t.Fatalf("expired token: %d", code)
	}

	forged := signToken(t, "other-secret", jwt.MapClaims{"user_id": 7, "role": "employee"})
	if code, _ := do(t, app, "/me", forged); code != fiber.StatusUnauthorized {
		t.Fatalf("forged token: %d", code)
	}

	noUser := signToken(t, testSecret, jwt.MapClaims{"role": "employee"})
	if code, _ := do(t, app, "/me", noUser); code != fiber.StatusUnauthorized {
		t.Fatalf("token without user: %d", code)
	}

	valid := signToken(t, testSecret, jwt.MapClaims{"user_id": 7, "role": "employee", "exp": time.Now().Add(time.Hour).Unix()})
	code, body := do(t, app, "/me", valid)
	if code != fiber.StatusOK || body["user_id"] != float64(7) {
		t.Fatalf("valid token: %d %v", code, body)
	}
}

func TestMinRole(t *testing.T) {
	app := newApp()
	app.Get("/admin", Auth(testSecret), MinRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	cases := []struct {
		role string
		want int
	}{
		{"employee", fiber.StatusForbidden},
		{"lead", fiber.StatusForbidden},
		{"admin", fiber.StatusOK},
		{"super_admin", fiber.StatusOK},
		{"", fiber.StatusForbidden},
	}
	for _, tc := range cases {
		token := signToken(t, testSecret, jwt.MapClaims{"user_id": 1, "role": tc.role})
		if code, _ := do(t, app, "/admin", token); code != tc.want {
			t.Errorf("role %q: got %d, want %d", tc.role, code, tc.want)
		}
	}
}

func TestErrorHandler(t *testing.T) {
	app := newApp()
	app.Get("/validation", func(c *fiber.Ctx) error {
		return apperr.Validation("start_date", "start_date is required")
	})
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return apperr.Conflict("already decided")
	})
	app.Get("/raw", func(c *fiber.Ctx) error {
		return errors.New("connection reset by peer")
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "too big")
	})

	code, body := do(t, app, "/validation", "")
	if code != fiber.StatusBadRequest || body["field"] != "start_date" || body["error"] != "start_date is required" {
		t.Fatalf("validation: %d %v", code, body)
	}
	code, body = do(t, app, "/conflict", "")
	if code != fiber.StatusConflict || body["kind"] != string(apperr.KindConflict) {
		t.Fatalf("conflict: %d %v", code, body)
	}
	code, body = do(t, app, "/raw", "")
	if code != fiber.StatusInternalServerError || body["error"] != "internal server error" {
		t.Fatalf("raw error: %d %v", code, body)
	}
	code, body = do(t, app, "/fiber", "")
	if code != fiber.StatusRequestEntityTooLarge || body["error"] != "too big" {
		t.Fatalf("fiber error: %d %v", code, body)
	}
	if code, _ := do(t, app, "/missing", ""); code != fiber.StatusNotFound {
		t.Fatalf("unknown route: %d", code)
	}
}
