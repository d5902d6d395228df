package routes

import (
	"net/http/httptest"
	"os"
	"testing"

	"gymclub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")
	os.Exit(m.Run())
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	r := gin.New()
	SetupRoutes(r, db)
	return r
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != 200 {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := testRouter(t)

	protected := []struct {
		method string
		path   string
	}{
		{"GET", "/api/auth/profile"},
		{"POST", "/api/attendances"},
		{"POST", "/api/redemptions"},
		{"GET", "/api/customer-memberships/me"},
		{"PUT", "/api/customers/me"},
	}

	for _, route := range protected {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		if w.Code != 401 {
			t.Errorf("%s %s: expected status 401, got %d", route.method, route.path, w.Code)
		}
	}
}

func TestAdminRoutesRejectCustomers(t *testing.T) {
	router := testRouter(t)

	token, err := utils.GenerateToken(uuid.New(), "user@test.com", "customer")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	adminRoutes := []struct {
		method string
		path   string
	}{
		{"GET", "/api/admin/customers"},
		{"POST", "/api/admin/memberships"},
		{"POST", "/api/admin/customer-memberships/promote"},
		{"POST", "/api/admin/products"},
		{"GET", "/api/admin/redemptions"},
	}

	for _, route := range adminRoutes {
		req := httptest.NewRequest(route.method, route.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != 403 {
			t.Errorf("%s %s: expected status 403, got %d", route.method, route.path, w.Code)
		}
	}
}
