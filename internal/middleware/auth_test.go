package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taniku/internal/domain"
	"taniku/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func testValidator() TokenValidator {
	return service.NewUserService(nil, nil, testSecret, time.Hour)
}

func signClaims(t *testing.T, secret string, claims *service.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func claimsFor(id int64, role domain.Role, expiresIn time.Duration) *service.Claims {
	return &service.Claims{
		UserID:    id,
		Username:  "petani",
		Role:      role,
		SessionID: "sid-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestProperty_ProtectedEndpointsRejectMissingTokens(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests without authorization header are rejected", prop.ForAll(
		func(pathSuffix string, method string) bool {
			handler := AuthMiddleware(testValidator(), zap.NewNop())(okHandler())

			req := httptest.NewRequest(method, "/api/"+pathSuffix, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AlphaString(),
		gen.OneConstOf("GET", "POST", "PUT", "DELETE"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ExpiredTokensAreRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("expired tokens are rejected with 401", prop.ForAll(
		func(userID int64, role string) bool {
			handler := AuthMiddleware(testValidator(), zap.NewNop())(okHandler())
			token := signClaims(t, testSecret, claimsFor(userID, domain.Role(role), -time.Hour))

			req := httptest.NewRequest("GET", "/api/cart", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.Int64Range(1, 1<<40),
		gen.OneConstOf("user", "admin"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ValidTokensAttachPrincipal(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a valid token yields the principal it was signed for", prop.ForAll(
		func(userID int64, role string) bool {
			var got domain.Principal
			var found bool
			handler := AuthMiddleware(testValidator(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, found = GetPrincipal(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			token := signClaims(t, testSecret, claimsFor(userID, domain.Role(role), time.Hour))
			req := httptest.NewRequest("GET", "/api/user", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusOK && found &&
				got.ID == userID && got.Role == domain.Role(role) && got.SessionID == "sid-1"
		},
		gen.Int64Range(1, 1<<40),
		gen.OneConstOf("user", "admin"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAuthMiddlewareRejectsMalformedHeaders(t *testing.T) {
	handler := AuthMiddleware(testValidator(), zap.NewNop())(okHandler())
	wrongSecret := signClaims(t, "other-secret", claimsFor(1, domain.RoleUser, time.Hour))

	for _, header := range []string{
		"Token abc",
		"Bearer",
		"Bearer ",
		"Bearer not.a.jwt",
		"Bearer " + wrongSecret,
	} {
		req := httptest.NewRequest("GET", "/api/cart", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(zap.NewNop())(okHandler())

	cases := []struct {
		name      string
		principal *domain.Principal
		want      int
	}{
		{"admin", &domain.Principal{ID: 1, Role: domain.RoleAdmin}, http.StatusOK},
		{"user", &domain.Principal{ID: 2, Role: domain.RoleUser}, http.StatusForbidden},
		{"anonymous", nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("DELETE", "/api/items/1", nil)
			if tc.principal != nil {
				req = req.WithContext(WithPrincipal(req.Context(), *tc.principal))
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
