// internal/middleware/auth_test.go
package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isabitv/isabitv-backend/internal/models"
	"github.com/isabitv/isabitv-backend/internal/utils"
)

func setupAuthRouter(t *testing.T, required models.UserRole) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")

	r := gin.New()
	r.GET("/guarded", AuthRequired(), RoleRequired(required), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func bearerToken(t *testing.T, role models.UserRole) string {
	t.Helper()
	token, err := utils.GenerateJWT(uuid.New(), "tester", string(role), true, 1)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthRequiredRedirectsAnonymous(t *testing.T) {
	r := setupAuthRouter(t, models.RoleViewer)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/signin", body["redirect_to"])
}

func TestAuthRequiredRejectsMalformedHeader(t *testing.T) {
	r := setupAuthRouter(t, models.RoleViewer)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Token abc123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsBadSignature(t *testing.T) {
	utils.SetJWTSecret("other-secret")
	token, err := utils.GenerateJWT(uuid.New(), "tester", string(models.RoleAdmin), true, 1)
	require.NoError(t, err)

	r := setupAuthRouter(t, models.RoleViewer) // resets secret to test-secret

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleRequiredDeniesInsufficientRole(t *testing.T) {
	r := setupAuthRouter(t, models.RoleModerator)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", bearerToken(t, models.RoleCreator))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	_, hasRedirect := body["redirect_to"]
	assert.False(t, hasRedirect, "authenticated denials must not carry a redirect")
}

func TestRoleRequiredCapabilityOrder(t *testing.T) {
	tests := []struct {
		role     models.UserRole
		required models.UserRole
		want     int
	}{
		{models.RoleModerator, models.RoleModerator, http.StatusOK},
		{models.RoleAdmin, models.RoleModerator, http.StatusOK},
		{models.RoleSuperAdmin, models.RoleAdmin, http.StatusOK},
		{models.RoleModerator, models.RoleAdmin, http.StatusForbidden},
		{models.RoleModerator, models.RoleCreator, http.StatusForbidden},
		{models.RoleViewer, models.RoleModerator, http.StatusForbidden},
		{models.UserRole("owner"), models.RoleViewer, http.StatusForbidden},
	}

	for _, tt := range tests {
		r := setupAuthRouter(t, tt.required)
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.Header.Set("Authorization", bearerToken(t, tt.role))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, tt.want, w.Code, "%s accessing %s surface", tt.role, tt.required)
	}
}

func TestEngagementIngestGate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")

	r := gin.New()
	r.POST("/videos/:id/engagement", AuthRequired(), RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	post := func(authorization string) int {
		req := httptest.NewRequest(http.MethodPost, "/videos/"+uuid.NewString()+"/engagement", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, post(""))
	assert.Equal(t, http.StatusForbidden, post(bearerToken(t, models.RoleViewer)))
	assert.Equal(t, http.StatusForbidden, post(bearerToken(t, models.RoleCreator)), "creators cannot feed their own counters")
	assert.Equal(t, http.StatusOK, post(bearerToken(t, models.RoleAdmin)))
	assert.Equal(t, http.StatusOK, post(bearerToken(t, models.RoleSuperAdmin)))
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")

	r := gin.New()
	r.GET("/open", OptionalAuth(), func(c *gin.Context) {
		_, authenticated := utils.GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": authenticated})
	})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["authenticated"])
}

func TestOptionalAuthAttachesIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")

	r := gin.New()
	r.GET("/open", OptionalAuth(), func(c *gin.Context) {
		role, _ := utils.GetUserRoleFromContext(c)
		c.JSON(http.StatusOK, gin.H{"role": role})
	})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", bearerToken(t, models.RoleCreator))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(models.RoleCreator), body["role"])
}
