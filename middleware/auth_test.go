package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"acme-storefront/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")
}

func setupAuthTestRouter() *gin.Engine {
	r := gin.New()

	// Protected endpoint for testing AuthMiddleware
	protected := r.Group("/api")
	protected.Use(AuthMiddleware())
	protected.GET("/test", func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		role, _ := c.Get("user_role")
		c.JSON(http.StatusOK, gin.H{
			"user_id": userID,
			"role":    role,
		})
	})

	// Admin endpoint for testing AdminMiddleware
	admin := r.Group("/api/admin")
	admin.Use(AuthMiddleware())
	admin.Use(AdminMiddleware())
	admin.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "admin access granted"})
	})

	return r
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	router := setupAuthTestRouter()

	userID := uuid.New()
	token, err := utils.GenerateToken(userID, "test@test.com", "admin")
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := setupAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/test", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareMalformedToken(t *testing.T) {
	router := setupAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/test", nil)
	req.Header.Set("Authorization", "Bearer not-a-valid-token")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	router := setupAuthTestRouter()

	// Create an expired token manually
	secret := os.Getenv("JWT_SECRET")
	claims := utils.Claims{
		UserID: uuid.New(),
		Email:  "expired@test.com",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			Issuer:    "acme-storefront",
		},
	}
	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expiredToken, _ := tokenObj.SignedString([]byte(secret))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/test", nil)
	req.Header.Set("Authorization", "Bearer "+expiredToken)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareWrongScheme(t *testing.T) {
	router := setupAuthTestRouter()

	token, _ := utils.GenerateToken(uuid.New(), "basic@test.com", "admin")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/test", nil)
	req.Header.Set("Authorization", "Basic "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminMiddlewareAllowsAdmin(t *testing.T) {
	router := setupAuthTestRouter()

	token, _ := utils.GenerateToken(uuid.New(), "admin@test.com", "admin")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/admin/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminMiddlewareRejectsNonAdmin(t *testing.T) {
	router := setupAuthTestRouter()

	token, _ := utils.GenerateToken(uuid.New(), "staff@test.com", "staff")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/admin/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}
