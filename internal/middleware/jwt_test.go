package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/expofair/stall-reservation/internal/model"
	"github.com/expofair/stall-reservation/internal/utils"
)

const testSecret = "test-secret"

func doAuthed(t *testing.T, token string, mw ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/reservations", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get("user_id"),
			"role":    c.Get("role"),
		})
	}
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestJWTAuth(t *testing.T) {
	t.Parallel()

	t.Run("accepts a valid token and sets identity", func(t *testing.T) {
		access, err := utils.NewAccessToken(testSecret, 42, string(model.RoleUser), 5)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		rec := doAuthed(t, access.Token, JWTAuth(testSecret))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		rec := doAuthed(t, "", JWTAuth(testSecret))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		access, err := utils.NewAccessToken("other-secret", 42, string(model.RoleUser), 5)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		rec := doAuthed(t, access.Token, JWTAuth(testSecret))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		access, err := utils.NewAccessToken(testSecret, 42, string(model.RoleUser), -5)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		rec := doAuthed(t, access.Token, JWTAuth(testSecret))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	issue := func(role model.Role) string {
		access, err := utils.NewAccessToken(testSecret, 7, string(role), 5)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		return access.Token
	}

	t.Run("lets the matching role through", func(t *testing.T) {
		rec := doAuthed(t, issue(model.RoleUser), JWTAuth(testSecret), RequireRole(string(model.RoleUser)))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("blocks other roles", func(t *testing.T) {
		rec := doAuthed(t, issue(model.RoleUser), JWTAuth(testSecret), RequireRole(string(model.RoleEmployee)))
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}
