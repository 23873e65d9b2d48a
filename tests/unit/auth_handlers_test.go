package unit

import (
	"testing"

	"github.com/lehae/lehae-api/tests/helpers"
)

// TestRegister tests the POST /api/register endpoint
func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	password := helpers.GeneratePassword()
	resp := helpers.DoJSON(t, app, "POST", "/api/register", "", map[string]interface{}{
		"username": "thabo",
		"email":    "thabo@lehae.test",
		"password": password,
		"profile":  map[string]interface{}{"is_landlord": true},
	})
	helpers.AssertStatus(t, resp, 201)

	var pair struct {
		Refresh string `json:"refresh"`
		Access  string `json:"access"`
	}
	helpers.ParseJSON(t, resp, &pair)
	if pair.Access == "" || pair.Refresh == "" {
		t.Error("Expected a token pair on registration")
	}

	// The profile flag must land in the database
	resp = helpers.DoJSON(t, app, "POST", "/api/token", "", map[string]interface{}{
		"username": "thabo",
		"password": password,
	})
	helpers.AssertStatus(t, resp, 200)

	var login struct {
		User struct {
			Username   string `json:"username"`
			IsLandlord bool   `json:"is_landlord"`
		} `json:"user"`
	}
	helpers.ParseJSON(t, resp, &login)
	if !login.User.IsLandlord {
		t.Error("Expected registered user to be a landlord")
	}
}

// TestRegisterDuplicateUsername tests the duplicate rejection
func TestRegisterDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	helpers.CreateTestUser(t, db, "lineo", "lineo@lehae.test", helpers.GeneratePassword(), false)

	resp := helpers.DoJSON(t, app, "POST", "/api/register", "", map[string]interface{}{
		"username": "lineo",
		"email":    "lineo2@lehae.test",
		"password": helpers.GeneratePassword(),
	})
	helpers.AssertStatus(t, resp, 400)

	var result struct {
		Errors map[string]string `json:"errors"`
	}
	helpers.ParseJSON(t, resp, &result)
	if result.Errors["username"] == "" {
		t.Error("Expected a username field error")
	}
}

// TestRegisterMissingFields tests required-field validation
func TestRegisterMissingFields(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	resp := helpers.DoJSON(t, app, "POST", "/api/register", "", map[string]interface{}{})
	helpers.AssertStatus(t, resp, 400)

	var result struct {
		Errors map[string]string `json:"errors"`
	}
	helpers.ParseJSON(t, resp, &result)
	for _, field := range []string{"username", "email", "password"} {
		if result.Errors[field] == "" {
			t.Errorf("Expected a %s field error", field)
		}
	}
}

// TestLogin tests POST /api/token with both identifier forms
func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	password := helpers.GeneratePassword()
	user := helpers.CreateTestUser(t, db, "palesa", "palesa@lehae.test", password, false)

	for _, identifier := range []string{"palesa", "palesa@lehae.test"} {
		resp := helpers.DoJSON(t, app, "POST", "/api/token", "", map[string]interface{}{
			"username": identifier,
			"password": password,
		})
		helpers.AssertStatus(t, resp, 200)

		var result struct {
			Refresh string `json:"refresh"`
			Access  string `json:"access"`
			User    struct {
				ID       uint64 `json:"id"`
				Username string `json:"username"`
			} `json:"user"`
		}
		helpers.ParseJSON(t, resp, &result)
		if result.Access == "" || result.Refresh == "" {
			t.Errorf("Expected tokens for identifier %q", identifier)
		}
		if result.User.ID != user.ID {
			t.Errorf("Expected user %d, got %d", user.ID, result.User.ID)
		}
	}
}

// TestLoginRejections covers bad credentials, inactive users, and missing fields
func TestLoginRejections(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	password := helpers.GeneratePassword()
	inactive := helpers.CreateTestUser(t, db, "dormant", "dormant@lehae.test", password, false)
	inactive.IsActive = false
	if err := db.Save(inactive).Error; err != nil {
		t.Fatalf("Failed to deactivate user: %v", err)
	}

	cases := []struct {
		name   string
		body   map[string]interface{}
		status int
	}{
		{"wrong password", map[string]interface{}{"username": "dormant", "password": "nope"}, 401},
		{"unknown user", map[string]interface{}{"username": "ghost", "password": password}, 401},
		{"inactive user", map[string]interface{}{"username": "dormant", "password": password}, 401},
		{"missing password", map[string]interface{}{"username": "dormant"}, 400},
		{"missing username", map[string]interface{}{"password": password}, 400},
	}
	for _, tc := range cases {
		resp := helpers.DoJSON(t, app, "POST", "/api/token", "", tc.body)
		if resp.StatusCode != tc.status {
			t.Errorf("%s: expected status %d, got %d", tc.name, tc.status, resp.StatusCode)
		}
	}
}

// TestRefreshToken tests POST /api/token/refresh
func TestRefreshToken(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	user := helpers.CreateTestUser(t, db, "refresher", "refresher@lehae.test", helpers.GeneratePassword(), false)

	resp := helpers.DoJSON(t, app, "POST", "/api/token/refresh", "", map[string]interface{}{
		"refresh": helpers.RefreshToken(t, user.ID),
	})
	helpers.AssertStatus(t, resp, 200)

	var pair struct {
		Refresh string `json:"refresh"`
		Access  string `json:"access"`
	}
	helpers.ParseJSON(t, resp, &pair)
	if pair.Access == "" || pair.Refresh == "" {
		t.Error("Expected a rotated token pair")
	}

	// An access token must not pass as a refresh token
	resp = helpers.DoJSON(t, app, "POST", "/api/token/refresh", "", map[string]interface{}{
		"refresh": helpers.AccessToken(t, user.ID),
	})
	helpers.AssertStatus(t, resp, 401)
}

// TestGetProfile tests GET /api/profile
func TestGetProfile(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	user := helpers.CreateTestUser(t, db, "molefi", "molefi@lehae.test", helpers.GeneratePassword(), true)

	resp := helpers.DoJSON(t, app, "GET", "/api/profile", helpers.AccessToken(t, user.ID), nil)
	helpers.AssertStatus(t, resp, 200)

	var summary struct {
		ID         uint64 `json:"id"`
		Username   string `json:"username"`
		Email      string `json:"email"`
		IsLandlord bool   `json:"is_landlord"`
	}
	helpers.ParseJSON(t, resp, &summary)
	if summary.Username != "molefi" || !summary.IsLandlord {
		t.Errorf("Unexpected summary: %+v", summary)
	}

	// No token
	resp = helpers.DoJSON(t, app, "GET", "/api/profile", "", nil)
	helpers.AssertStatus(t, resp, 401)

	// Garbage token
	resp = helpers.DoJSON(t, app, "GET", "/api/profile", "not-a-token", nil)
	helpers.AssertStatus(t, resp, 401)
}
