package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"biomimic/auth"
	"biomimic/config"
	"biomimic/providers"
	"biomimic/providers/mock"
	"biomimic/services"
	"biomimic/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	srv    *server
}

func newTestEnv(t *testing.T, provider providers.Provider) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, storage.Migrate(db))

	cfg := &config.Config{APISecretKey: "admin-key", CORSOrigins: "http://localhost:5173"}
	log := zap.NewNop()
	srv := &server{
		cfg:          cfg,
		log:          log,
		issuer:       auth.NewIssuer("test-secret", time.Hour),
		problems:     services.NewProblemService(db, log),
		solutions:    services.NewSolutionService(db, log, provider),
		inspirations: services.NewInspirationService(db, log, ""),
		chat:         services.NewChatService(db, log, provider),
		export:       services.NewExportService(db, log, nil, storage.S3Target{}),
	}
	srv.users = services.NewUserService(db, log, srv.issuer)
	return &testEnv{router: newRouter(srv), srv: srv}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) register(t *testing.T, name, email string) (uint, string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/users", "", gin.H{"name": name, "email": email})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.User.ID, resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, mock.New())
	w := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUsersMe(t *testing.T) {
	env := newTestEnv(t, mock.New())

	w := env.do(t, http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	id, token := env.register(t, "Ada", "ada@example.com")
	w = env.do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[map[string]any](t, w)
	assert.EqualValues(t, id, me["id"])

	w = env.do(t, http.MethodGet, "/users/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "invalid tokens are treated as anonymous")
}

func TestProblemLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t, mock.New())
	_, token := env.register(t, "Ada", "ada@example.com")

	w := env.do(t, http.MethodPost, "/problems", "", gin.H{"title": "t", "description": "d", "category": "c"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Must be logged in to submit problems", decode[map[string]string](t, w)["error"])

	w = env.do(t, http.MethodPost, "/problems", token, gin.H{"title": "Hot roofs", "category": "Energy Efficiency"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/problems", token, gin.H{
		"title": "Hot roofs", "description": "Roofs absorb heat", "category": "Energy Efficiency", "tags": []string{"heat"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	assert.Equal(t, "pending", created["status"])

	w = env.do(t, http.MethodGet, "/problems?category=Energy%20Efficiency", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Ada", list[0]["submitter_name"])

	w = env.do(t, http.MethodGet, "/problems?category=Water", "", nil)
	assert.Empty(t, decode[[]map[string]any](t, w))

	w = env.do(t, http.MethodGet, "/problems/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/problems/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPatch, "/problems/1/status", token, gin.H{"status": "solved"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "solved", decode[map[string]any](t, w)["status"])
}

func TestGenerateAndLikeSolution(t *testing.T) {
	env := newTestEnv(t, mock.New())
	_, token := env.register(t, "Ada", "ada@example.com")
	w := env.do(t, http.MethodPost, "/problems", token, gin.H{"title": "Cooling", "description": "d", "category": "Energy Efficiency"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/problems/1/solutions/generate", "", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sol := decode[map[string]any](t, w)
	assert.Equal(t, "ai", sol["generated_by"])

	w = env.do(t, http.MethodPost, "/solutions/1/like", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/solutions/1/like", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.LikeResult{Liked: true, Likes: 1}, decode[services.LikeResult](t, w))

	w = env.do(t, http.MethodGet, "/solutions/popular", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	popular := decode[[]map[string]any](t, w)
	require.Len(t, popular, 1)
	assert.Equal(t, "Cooling", popular[0]["problem_title"])

	w = env.do(t, http.MethodPost, "/solutions/1/like", token, nil)
	assert.Equal(t, services.LikeResult{Liked: false, Likes: 0}, decode[services.LikeResult](t, w))

	w = env.do(t, http.MethodPost, "/solutions/99/like", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateSolutionProviderFailureIs502(t *testing.T) {
	env := newTestEnv(t, &mock.Client{Err: errors.New("upstream down")})
	_, token := env.register(t, "Ada", "ada@example.com")
	w := env.do(t, http.MethodPost, "/problems", token, gin.H{"title": "t", "description": "d", "category": "c"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/problems/1/solutions/generate", "", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Failed to generate AI solution", decode[map[string]string](t, w)["error"])
}

func TestChatFlow(t *testing.T) {
	env := newTestEnv(t, mock.New())

	w := env.do(t, http.MethodPost, "/chat/sessions", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	sid := decode[map[string]string](t, w)["session_id"]
	require.NotEmpty(t, sid)

	w = env.do(t, http.MethodPost, "/chat/sessions/"+sid+"/messages", "", gin.H{"content": "How do geckos stick?"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/chat/sessions/"+sid+"/reply", "", gin.H{"content": "How do geckos stick?"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decode[map[string]string](t, w)["content"])

	w = env.do(t, http.MethodGet, "/chat/sessions/"+sid+"/messages", "", nil)
	msgs := decode[[]map[string]any](t, w)
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0]["sender"])
	assert.Equal(t, "ai", msgs[1]["sender"])

	w = env.do(t, http.MethodPost, "/chat/sessions/"+sid+"/messages", "", gin.H{"content": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInspirationsAndAdminRoutes(t *testing.T) {
	env := newTestEnv(t, mock.New())

	w := env.do(t, http.MethodPost, "/admin/seed", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/admin/seed", nil)
	req.Header.Set("X-API-KEY", "admin-key")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 6, decode[map[string]any](t, w)["seeded"])

	w = env.do(t, http.MethodGet, "/inspirations?organism=Gecko", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = env.do(t, http.MethodGet, "/inspirations/categories", "", nil)
	assert.Contains(t, decode[[]string](t, w), "Adhesion")

	req = httptest.NewRequest(http.MethodGet, "/admin/exports/workbook", nil)
	req.Header.Set("X-API-KEY", "admin-key")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.NotZero(t, w.Body.Len())

	req = httptest.NewRequest(http.MethodPost, "/admin/exports/snapshot", nil)
	req.Header.Set("X-API-KEY", "admin-key")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code, "snapshot without configured storage")
}

func TestRespondErrorHidesInternalErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, zap.NewNop(), errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"database error"}`, w.Body.String())
}

func TestRequestBodiesAreValidatedByBinding(t *testing.T) {
	env := newTestEnv(t, mock.New())

	w := env.do(t, http.MethodPost, "/users", "", gin.H{"name": "Ada", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(t, http.MethodPost, "/users", "", gin.H{"name": "Ada"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, token := env.register(t, "Ada", "ada@example.com")
	w = env.do(t, http.MethodPost, "/problems", token, gin.H{"title": "Only a title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decode[map[string]string](t, w)["error"])

	w = env.do(t, http.MethodPost, "/problems", token, gin.H{"title": "t", "description": "d", "category": "c"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPatch, "/problems/1/status", token, gin.H{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/problems/1/solutions", token, gin.H{"title": "no description"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/chat/sessions/s1/reply", "", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
