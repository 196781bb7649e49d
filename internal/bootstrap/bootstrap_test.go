package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/assigntrack/internal/app/models/dto"
	"github.com/yigit/assigntrack/internal/config"
)

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newTestAPI(t *testing.T) *api {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Database.Driver = config.DriverMemory
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.AccessTokenExpiration = "1h"
	cfg.JWT.Issuer = "assigntrack-test"
	cfg.Storage.Type = config.StorageLocal
	cfg.Storage.LocalPath = t.TempDir()
	cfg.Storage.BaseURL = "http://localhost/uploads"
	cfg.Storage.MaxUploadMB = 1
	cfg.CORS.AllowedOrigins = "*"

	lgr := zerolog.Nop()
	store, database, err := SetupStore(context.Background(), cfg, lgr)
	require.NoError(t, err)
	require.Nil(t, database)

	files, err := SetupFileStorage(context.Background(), cfg, lgr)
	require.NoError(t, err)

	deps := BuildDependencies(cfg, store, files, lgr)
	return &api{t: t, router: SetupRouter(cfg, deps, lgr)}
}

func (a *api) do(method, path, token string, body interface{}) (int, envelope) {
	a.t.Helper()

	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case url.Values:
		req = httptest.NewRequest(method, path, strings.NewReader(b.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (a *api) register(username, role string) string {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    username + "@uni.edu",
		"username": username,
		"password": "s3cretpass",
		"role":     role,
	})
	require.Equal(a.t, http.StatusCreated, code)

	var resp dto.AuthResponse
	require.NoError(a.t, json.Unmarshal(env.Data, &resp))
	return resp.Token.AccessToken
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)
	code, env := a.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
}

func TestRoutesRequireAuthentication(t *testing.T) {
	a := newTestAPI(t)
	code, env := a.do(http.MethodGet, "/api/v1/assignments", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, env.Error)
}

func TestManualGroupFlow(t *testing.T) {
	a := newTestAPI(t)

	lecturer := a.register("prof", "lecturer")
	ada := a.register("ada", "")
	bob := a.register("bob", "")

	code, _ := a.do(http.MethodPost, "/api/v1/assignments", ada, gin.H{
		"title": "Nope", "content": "x", "deadline": time.Now().Add(time.Hour),
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, env := a.do(http.MethodPost, "/api/v1/assignments", lecturer, gin.H{
		"title":        "Linked lists",
		"content":      "Implement a doubly linked list.",
		"deadline":     time.Now().Add(48 * time.Hour).UTC(),
		"groupPolicy":  "manual",
		"maxGroupSize": 1,
	})
	require.Equal(t, http.StatusCreated, code)
	assignment := decode[dto.AssignmentResponse](t, env)
	assert.Equal(t, 2, assignment.GroupsCreated)
	base := "/api/v1/assignments/" + strconv.FormatInt(assignment.ID, 10)

	code, env = a.do(http.MethodGet, base+"/groups", ada, nil)
	require.Equal(t, http.StatusOK, code)
	groups := decode[[]dto.GroupResponse](t, env)
	require.Len(t, groups, 2)
	join := "/api/v1/groups/" + strconv.FormatInt(groups[0].ID, 10) + "/join"

	code, _ = a.do(http.MethodPost, join, ada, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = a.do(http.MethodPost, join, bob, nil)
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrorCodeCapacityExceeded, env.Error.Code)

	submission := url.Values{
		"link":    {"https://github.com/ada/linked-lists"},
		"groupId": {strconv.FormatInt(groups[0].ID, 10)},
	}
	code, _ = a.do(http.MethodPost, base+"/submissions", ada, submission)
	assert.Equal(t, http.StatusCreated, code)

	code, env = a.do(http.MethodPost, base+"/submissions", ada, submission)
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrorCodeDuplicate, env.Error.Code)

	code, _ = a.do(http.MethodPost, base+"/submissions", lecturer, submission)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = a.do(http.MethodGet, base+"/groups/overview", lecturer, nil)
	require.Equal(t, http.StatusOK, code)
	overview := decode[dto.GroupsOverviewResponse](t, env)
	require.Len(t, overview.Groups, 2)
	assert.Equal(t, "Submitted", overview.Groups[0].Status)
	assert.Equal(t, "Pending", overview.Groups[1].Status)

	code, _ = a.do(http.MethodGet, base+"/groups/overview", ada, nil)
	assert.Equal(t, http.StatusForbidden, code)
}
