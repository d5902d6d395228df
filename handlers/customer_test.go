package handlers

import (
	"net/http/httptest"
	"testing"

	"gymclub-backend/models"

	"github.com/google/uuid"
)

func TestListCustomers(t *testing.T) {
	db := freshDB()
	_, adminToken := seedTestUser(db, "admin-list@test.com", "admin")
	seedCustomer(db, "alpha@test.com")
	hidden, _ := seedCustomer(db, "hidden@test.com")
	db.Model(&models.Customer{}).Where("id = ?", hidden.ID).Update("status", models.StatusInactive)
	router := setupCustomerRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/customers", nil, adminToken))
	if w.Code != 200 {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["total"].(float64) != 1 {
		t.Errorf("expected 1 active customer, got %v", resp["total"])
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/customers?include_inactive=true", nil, adminToken))
	resp = parseResponse(w)
	if resp["total"].(float64) != 2 {
		t.Errorf("expected 2 customers with include_inactive, got %v", resp["total"])
	}
}

func TestListCustomersSearch(t *testing.T) {
	db := freshDB()
	_, adminToken := seedTestUser(db, "admin-search@test.com", "admin")
	target, _ := seedCustomer(db, "findme@test.com")
	db.Model(&models.Customer{}).Where("id = ?", target.ID).Updates(map[string]interface{}{
		"first_name": "Grace",
		"last_name":  "Hopper",
	})
	seedCustomer(db, "someoneelse@test.com")
	router := setupCustomerRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/customers?search=grace", nil, adminToken))
	if w.Code != 200 {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["total"].(float64) != 1 {
		t.Errorf("expected 1 match, got %v", resp["total"])
	}
}

func TestListCustomersRequiresAdmin(t *testing.T) {
	db := freshDB()
	_, customerToken := seedCustomer(db, "nosnoop@test.com")
	router := setupCustomerRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/customers", nil, customerToken))
	if w.Code != 403 {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetCustomerAdmin(t *testing.T) {
	db := freshDB()
	_, adminToken := seedTestUser(db, "admin-get@test.com", "admin")
	customer, _ := seedCustomer(db, "target@test.com")
	router := setupCustomerRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/customers/"+customer.ID.String(), nil, adminToken))
	if w.Code != 200 {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/customers/"+uuid.NewString(), nil, adminToken))
	if w.Code != 404 {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateMyProfile(t *testing.T) {
	db := freshDB()
	customer, token := seedCustomer(db, "editme@test.com")
	router := setupCustomerRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/customers/me", map[string]interface{}{
		"first_name": "Edited",
		"birth_date": "1985-03-20",
	}, token))

	if w.Code != 200 {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var stored models.Customer
	db.First(&stored, "id = ?", customer.ID)
	if stored.FirstName != "Edited" {
		t.Errorf("expected first name Edited, got %s", stored.FirstName)
	}
	if stored.LastName != "Customer" {
		t.Errorf("untouched field changed: %s", stored.LastName)
	}
	if stored.BirthDate == nil {
		t.Errorf("expected birth date set")
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/customers/me", map[string]interface{}{
		"birth_date": "20/03/1985",
	}, token))
	if w.Code != 400 {
		t.Fatalf("bad date: expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeactivateMe(t *testing.T) {
	db := freshDB()
	customer, token := seedCustomer(db, "leaveme@test.com")
	router := setupCustomerRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", "/api/customers/me", nil, token))
	if w.Code != 200 {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var stored models.Customer
	db.First(&stored, "id = ?", customer.ID)
	if stored.Status != models.StatusInactive {
		t.Errorf("expected inactive, got %v", stored.Status)
	}

	// Deactivated accounts lose access to customer endpoints.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/customers/me", map[string]interface{}{
		"first_name": "Ghost",
	}, token))
	if w.Code != 403 {
		t.Fatalf("expected status 403 after deactivation, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeactivateCustomerAdmin(t *testing.T) {
	db := freshDB()
	_, adminToken := seedTestUser(db, "admin-deact@test.com", "admin")
	customer, _ := seedCustomer(db, "kickme@test.com")
	router := setupCustomerRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", "/api/admin/customers/"+customer.ID.String(), nil, adminToken))
	if w.Code != 200 {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var stored models.Customer
	db.First(&stored, "id = ?", customer.ID)
	if stored.Status != models.StatusInactive {
		t.Errorf("expected inactive, got %v", stored.Status)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", "/api/admin/customers/"+uuid.NewString(), nil, adminToken))
	if w.Code != 404 {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminWithoutProfileGets403OnCustomerEndpoints(t *testing.T) {
	db := freshDB()
	_, adminToken := seedTestUser(db, "admin-noprofile@test.com", "admin")
	router := setupCustomerRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/customers/me", map[string]interface{}{
		"first_name": "Nobody",
	}, adminToken))
	if w.Code != 403 {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["error"] != "No customer profile for this account" {
		t.Errorf("unexpected error message: %v", resp["error"])
	}
}
