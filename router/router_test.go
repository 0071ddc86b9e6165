package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NomadCrew/feedback-service/config"
	"github.com/NomadCrew/feedback-service/db"
	"github.com/NomadCrew/feedback-service/handlers"
	"github.com/NomadCrew/feedback-service/internal/store/sqlite"
	"github.com/NomadCrew/feedback-service/services"
	"github.com/NomadCrew/feedback-service/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T, env config.Environment, limiter services.RateLimiterInterface) (*gin.Engine, *db.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m, err := db.SetupTestDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	cfg := &config.Config{Server: config.ServerConfig{
		Environment:    env,
		ServiceName:    "feedback-api",
		AllowedOrigins: []string{"*"},
	}}

	svc := services.NewFeedbackService(sqlite.NewFeedbackStore(m, nil))
	r := SetupRouter(Dependencies{
		Config:          cfg,
		FeedbackHandler: handlers.NewFeedbackHandler(svc),
		HealthHandler:   handlers.NewHealthHandler(services.NewHealthService(m, cfg.Server.ServiceName, "test")),
		RateLimiter:     limiter,
	})
	return r, m
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitThenList(t *testing.T) {
	r, _ := setupTestRouter(t, config.EnvDevelopment, nil)

	w := do(r, http.MethodPost, "/api/feedback", `{"name":"Ada","email":"ada@example.com","message":"Hello"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created types.Feedback
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.ID)

	w = do(r, http.MethodGet, "/api/feedback", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list types.FeedbackListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, created.ID, list.Items[0].ID)
	assert.Equal(t, "Ada", list.Items[0].Name)
	assert.Equal(t, "ada@example.com", list.Items[0].Email)
	assert.Equal(t, "Hello", list.Items[0].Message)
	assert.True(t, created.CreatedAt.Equal(list.Items[0].CreatedAt))
	assert.Equal(t, 50, list.Limit)
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, 1, list.NextOffset)
}

func TestSubmitTwiceThenListFirstPage(t *testing.T) {
	r, _ := setupTestRouter(t, config.EnvDevelopment, nil)

	w := do(r, http.MethodPost, "/api/feedback", `{"name":"Ada","email":"ada@example.com","message":"Hello"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first types.Feedback
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, int64(1), first.ID)

	w = do(r, http.MethodPost, "/api/feedback", `{"name":"Grace","email":"grace@example.com","message":"Second"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var second types.Feedback
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(t, int64(2), second.ID)

	for _, email := range []string{"noatsign", "@b.com", "a@b"} {
		w = do(r, http.MethodPost, "/api/feedback", `{"name":"Eve","email":"`+email+`","message":"x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code, email)
		assert.JSONEq(t, `{"error":"invalid email format"}`, w.Body.String())
	}

	w = do(r, http.MethodGet, "/api/feedback?limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)

	createdAt, err := json.Marshal(second.CreatedAt)
	require.NoError(t, err)
	expected := `{"items":[{"id":2,"name":"Grace","email":"grace@example.com","message":"Second","created_at":` +
		string(createdAt) + `}],"limit":1,"offset":0,"count":1,"next_offset":1}`
	assert.JSONEq(t, expected, w.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	r, m := setupTestRouter(t, config.EnvDevelopment, nil)

	w := do(r, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "feedback-api", body["service"])
	assert.Equal(t, m.Path(), body["db"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestNotFound(t *testing.T) {
	r, _ := setupTestRouter(t, config.EnvDevelopment, nil)

	w := do(r, http.MethodGet, "/api/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())

	w = do(r, http.MethodDelete, "/api/feedback", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())

	w = do(r, http.MethodGet, "/index.html", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found", w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := setupTestRouter(t, config.EnvDevelopment, nil)
	do(r, http.MethodGet, "/api/health", "")

	w := do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `feedback_http_requests_total{method="GET",route="/api/health",status="200"} 1`)
}

func TestSwaggerOnlyOutsideProduction(t *testing.T) {
	dev, _ := setupTestRouter(t, config.EnvDevelopment, nil)
	w := do(dev, http.MethodGet, "/swagger/doc.json", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/feedback"`)

	prod, _ := setupTestRouter(t, config.EnvProduction, nil)
	w = do(prod, http.MethodGet, "/swagger/doc.json", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmissionRateLimit(t *testing.T) {
	r, _ := setupTestRouter(t, config.EnvDevelopment, services.NewRateLimitService(1, 1))

	body := `{"name":"Ada","email":"ada@example.com","message":"Hello"}`
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/feedback", body).Code)

	w := do(r, http.MethodPost, "/api/feedback", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"too many requests"}`, w.Body.String())

	// Reads are never limited.
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/feedback", "").Code)
}
