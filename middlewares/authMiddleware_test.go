package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"citizen-be/models"
	authUtils "citizen-be/utils"

	"github.com/gin-gonic/gin"
)

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		role, _ := c.Get("role")
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	r.GET("/admin", AuthMiddleware(), RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/public", OptionalAuth(), func(c *gin.Context) {
		_, authed := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"authed": authed})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newAuthTestRouter()

	token, err := authUtils.GenerateAndSetToken("abc123", "worker")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	tests := []struct {
		name           string
		path           string
		authorization  string
		cookie         string
		expectedStatus int
	}{
		{"missing token", "/protected", "", "", http.StatusUnauthorized},
		{"garbage token", "/protected", "Bearer not.a.token", "", http.StatusUnauthorized},
		{"valid bearer token", "/protected", "Bearer " + token, "", http.StatusOK},
		{"bare token without scheme", "/protected", token, "", http.StatusOK},
		{"valid cookie token", "/protected", "", token, http.StatusOK},
		{"worker hitting admin route", "/admin", "Bearer " + token, "", http.StatusForbidden},
		{"anonymous optional auth", "/public", "", "", http.StatusOK},
		{"authenticated optional auth", "/public", "Bearer " + token, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "auth_token", Value: tt.cookie})
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestRequireRoleAllowsAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newAuthTestRouter()

	token, err := authUtils.GenerateAndSetToken("admin1", "admin")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
}

func TestCallerRoleDefaultsToCitizen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if role := CallerRole(c); role != models.RoleCitizen {
		t.Errorf("CallerRole with no identity = %q, want citizen", role)
	}

	c.Set("role", "admin")
	if role := CallerRole(c); role != models.RoleAdmin {
		t.Errorf("CallerRole = %q, want admin", role)
	}

	c.Set("role", "bogus")
	if role := CallerRole(c); role != models.RoleCitizen {
		t.Errorf("CallerRole with bogus role = %q, want citizen", role)
	}
}
