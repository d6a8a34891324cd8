package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taniku/internal/config"
	"taniku/internal/database"
	"taniku/internal/domain"
	"taniku/internal/service"
	"taniku/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Port: "0", Env: "test"},
		JWT:       config.JWTConfig{Secret: "server-test-secret", Expiry: time.Hour},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:5500"}},
		Session:   config.SessionConfig{TTL: time.Hour},
		RateLimit: config.RateLimitConfig{Requests: 20, Window: time.Minute},
	}
}

func newTestServer(t *testing.T, redisClient *redis.Client) *httptest.Server {
	t.Helper()
	store, err := database.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, database.Seed(context.Background(), store, database.AdminSeed{
		Username: "AdminTaniku", Email: "admin@taniku.com", Password: "taniku123",
	}, zap.NewNop()))

	srv := NewServer(testConfig(), zap.NewNop(), store, redisClient)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func bearer(t *testing.T, sid string) string {
	t.Helper()
	claims := &service.Claims{
		UserID: 42, Username: "petani", Role: domain.RoleUser, SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-test-secret"))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "up", health["status"])
	assert.Equal(t, "ok", health["items"])

	itemsResp, err := http.Get(ts.URL + "/api/items")
	require.NoError(t, err)
	itemsResp.Body.Close()

	metricsResp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	body, err := io.ReadAll(metricsResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="GET",route="/api/items`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/cart", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5500")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "http://localhost:5500", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCartsLiveInRedisWhenConfigured(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ts := newTestServer(t, client)

	body, _ := json.Marshal(map[string]interface{}{"item": map[string]interface{}{"id": 1, "name": "Benih", "price": 120000}})
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/cart/add", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, "redis-sid"))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.True(t, mr.Exists(session.CartKey("redis-sid")))

	healthResp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer healthResp.Body.Close()
	var health map[string]string
	require.NoError(t, json.NewDecoder(healthResp.Body).Decode(&health))
	assert.Equal(t, "up", health["redis"])
}
