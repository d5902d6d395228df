package handlers

import (
	"net/http/httptest"
	"testing"

	"gymclub-backend/models"

	"github.com/google/uuid"
)

func TestCreateMembership(t *testing.T) {
	db := freshDB()
	_, adminToken := seedTestUser(db, "admin-plan@test.com", "admin")
	router := setupMembershipRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/admin/memberships", map[string]interface{}{
		"name":              "Premium",
		"max_days_per_week": 5,
		"points_multiplier": 1.5,
	}, adminToken))

	if w.Code != 201 {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["points_multiplier"].(float64) != 1.5 {
		t.Errorf("expected multiplier 1.5, got %v", resp["points_multiplier"])
	}
}

func TestCreateMembershipRejectsBadRules(t *testing.T) {
	db := freshDB()
	_, adminToken := seedTestUser(db, "admin-rules@test.com", "admin")
	router := setupMembershipRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/admin/memberships", map[string]interface{}{
		"name":              "Cheap",
		"max_days_per_week": 3,
		"points_multiplier": 0.5,
	}, adminToken))
	if w.Code != 400 {
		t.Fatalf("low multiplier: expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["error"] != "points_multiplier must be at least 1" {
		t.Errorf("unexpected error message: %v", resp["error"])
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/admin/memberships", map[string]interface{}{
		"name":              "Nodays",
		"max_days_per_week": -1,
		"points_multiplier": 1.0,
	}, adminToken))
	if w.Code != 400 {
		t.Fatalf("negative days: expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateMembershipDuplicateName(t *testing.T) {
	db := freshDB()
	_, adminToken := seedTestUser(db, "admin-dup@test.com", "admin")
	seedMembership(db, "Premium", 5, 1.5)
	router := setupMembershipRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/admin/memberships", map[string]interface{}{
		"name":              "Premium",
		"max_days_per_week": 3,
		"points_multiplier": 1.0,
	}, adminToken))

	if w.Code != 409 {
		t.Fatalf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateMembershipRequiresAdmin(t *testing.T) {
	db := freshDB()
	_, customerToken := seedCustomer(db, "plain-plan@test.com")
	router := setupMembershipRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/admin/memberships", map[string]interface{}{
		"name":              "Sneaky",
		"max_days_per_week": 3,
		"points_multiplier": 1.0,
	}, customerToken))

	if w.Code != 403 {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetMembershipsFiltersInactive(t *testing.T) {
	db := freshDB()
	seedMembership(db, "Basic", 3, 1.0)
	retired := seedMembership(db, "Retired", 3, 1.0)
	db.Model(&models.Membership{}).Where("id = ?", retired.ID).Update("status", models.StatusInactive)
	router := setupMembershipRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/memberships", nil))
	if w.Code != 200 {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	plans := parseResponseArray(w)
	if len(plans) != 1 {
		t.Fatalf("expected 1 visible plan, got %d", len(plans))
	}

	// A retired plan 404s for the public.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/memberships/"+retired.ID.String(), nil))
	if w.Code != 404 {
		t.Fatalf("expected status 404 for retired plan, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetMembershipNotFound(t *testing.T) {
	db := freshDB()
	router := setupMembershipRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/memberships/"+uuid.NewString(), nil))
	if w.Code != 404 {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateMembership(t *testing.T) {
	db := freshDB()
	_, adminToken := seedTestUser(db, "admin-update@test.com", "admin")
	plan := seedMembership(db, "Basic", 3, 1.0)
	router := setupMembershipRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/admin/memberships/"+plan.ID.String(), map[string]interface{}{
		"points_multiplier": 2.0,
	}, adminToken))
	if w.Code != 200 {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["points_multiplier"].(float64) != 2.0 {
		t.Errorf("expected multiplier 2.0, got %v", resp["points_multiplier"])
	}
	if resp["max_days_per_week"].(float64) != 3 {
		t.Errorf("untouched field changed: %v", resp["max_days_per_week"])
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/admin/memberships/"+plan.ID.String(), map[string]interface{}{
		"points_multiplier": 0.1,
	}, adminToken))
	if w.Code != 400 {
		t.Fatalf("low multiplier: expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteMembershipSoft(t *testing.T) {
	db := freshDB()
	customer, _ := seedCustomer(db, "keepassign@test.com")
	_, adminToken := seedTestUser(db, "admin-delete@test.com", "admin")
	plan := seedMembership(db, "Basic", 3, 1.0)
	assignment := seedAssignment(db, customer.ID, plan.ID, models.AssignmentActive,
		plan.CreatedAt, nil)
	router := setupMembershipRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", "/api/admin/memberships/"+plan.ID.String(), nil, adminToken))
	if w.Code != 200 {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var stored models.Membership
	if err := db.First(&stored, "id = ?", plan.ID).Error; err != nil {
		t.Fatalf("plan should still exist: %v", err)
	}
	if stored.Status != models.StatusInactive {
		t.Errorf("expected inactive plan, got %v", stored.Status)
	}

	// Existing assignments keep their reference.
	var keptAssignment models.CustomerMembership
	if err := db.First(&keptAssignment, "id = ?", assignment.ID).Error; err != nil {
		t.Fatalf("assignment should survive plan deletion: %v", err)
	}
	if keptAssignment.MembershipID != plan.ID {
		t.Errorf("assignment lost its plan reference")
	}
}
