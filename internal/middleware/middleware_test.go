package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"invest_platform/internal/i18n"
	"invest_platform/internal/service"
	"invest_platform/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct{}

func (fakeAuth) Authenticate(_ context.Context, token string) (*utils.Claims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &utils.Claims{UserID: "u1", Email: "ann@example.com"}, nil
}

type fakeAdmins map[string]bool

func (f fakeAdmins) IsAdmin(_ context.Context, actor *service.Identity) bool {
	return f[actor.UserID]
}

func setupRouter(admins fakeAdmins) *gin.Engine {
	gin.SetMode(gin.TestMode)
	loc := i18n.New("ru")
	r := gin.New()
	r.Use(LocaleMiddleware(loc))
	r.GET("/me", JWTAuthMiddleware(fakeAuth{}, loc), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentIdentity(c).UserID, "lang": Lang(c)})
	})
	r.GET("/admin", JWTAuthMiddleware(fakeAuth{}, loc), AdminOnlyMiddleware(admins, loc), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r *gin.Engine, path, token, acceptLanguage string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	body := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := setupRouter(fakeAdmins{})

	w, body := do(r, "/me", "good", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", body["user_id"])
	assert.Equal(t, "ru", body["lang"])

	w, body = do(r, "/me", "", "en-US")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login", body["redirect"])
	assert.Equal(t, i18n.AuthRequired, body["code"])
	assert.Equal(t, "Please log in", body["error"])

	w, _ = do(r, "/me", "forged", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnlyMiddleware(t *testing.T) {
	r := setupRouter(fakeAdmins{"u1": false})
	w, body := do(r, "/admin", "good", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Доступ запрещён", body["error"])

	r = setupRouter(fakeAdmins{"u1": true})
	w, _ = do(r, "/admin", "good", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = do(r, "/admin", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLocaleFromQuery(t *testing.T) {
	r := setupRouter(fakeAdmins{})
	w, body := do(r, "/me?lang=en", "good", "ru")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "en", body["lang"])
	assert.Equal(t, "en", w.Header().Get("Content-Language"))
}
