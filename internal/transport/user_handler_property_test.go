package transport

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"taniku/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: registration with invalid data is rejected with an error envelope
func TestProperty_InvalidRegistrationDataIsRejected(t *testing.T) {
	api := newTestAPI(t, nil)
	properties := gopter.NewProperties(nil)

	properties.Property("registration with invalid data returns validation errors", prop.ForAll(
		func(invalidCase int) bool {
			var body map[string]string

			switch invalidCase % 4 {
			case 0:
				// Empty email
				body = map[string]string{"username": "petani", "email": "", "password": "rahasia"}
			case 1:
				// Invalid email format
				body = map[string]string{"username": "petani", "email": "not-an-email", "password": "rahasia"}
			case 2:
				// Short password
				body = map[string]string{"username": "petani", "email": "petani@example.com", "password": "12345"}
			case 3:
				// Missing username
				body = map[string]string{"email": "petani@example.com", "password": "rahasia"}
			}

			w := api.do(t, http.MethodPost, "/api/register", "", body)
			if w.Code != http.StatusBadRequest {
				t.Logf("FAIL: Expected 400 status code, got %d", w.Code)
				return false
			}
			if msg := errorMessage(t, w); msg == "" {
				t.Logf("FAIL: Response missing error message")
				return false
			}
			return true
		},
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: successful registration returns the stored profile
func TestProperty_SuccessfulRegistrationReturnsProfileData(t *testing.T) {
	api := newTestAPI(t, nil)
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 10
	properties := gopter.NewProperties(parameters)

	n := 0
	properties.Property("successful registration returns user profile with all fields", prop.ForAll(
		func(name string) bool {
			n++
			username := fmt.Sprintf("%s%d", name, n)
			email := fmt.Sprintf("%s%d@example.com", name, n)

			w := api.do(t, http.MethodPost, "/api/register", "", map[string]string{
				"username": username,
				"email":    email,
				"password": "rahasia",
			})
			if w.Code != http.StatusCreated {
				t.Logf("FAIL: Expected 201 status code, got %d: %s", w.Code, w.Body.String())
				return false
			}

			profile := decode[RegisterResponse](t, w).User
			if profile.ID == 0 {
				t.Logf("FAIL: Profile missing ID")
				return false
			}
			if profile.Username != username || profile.Email != email {
				t.Logf("FAIL: Profile mismatch: %+v", profile)
				return false
			}
			if profile.Role != domain.RoleUser {
				t.Logf("FAIL: Expected role user, got %q", profile.Role)
				return false
			}
			if strings.Contains(w.Body.String(), "$2a$") {
				t.Logf("FAIL: Response leaks the password hash")
				return false
			}
			return true
		},
		gen.Identifier(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

