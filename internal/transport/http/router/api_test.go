package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"user-role-admin/internal/repo"
	"user-role-admin/internal/service"
	"user-role-admin/internal/transport/http/handler"
)

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	} `json:"pagination"`
}

type app struct {
	t *testing.T
	h http.Handler
}

func newApp(t *testing.T, publicDir string) *app {
	t.Helper()
	roleRepo := repo.NewMemRoleRepo()
	userRepo := repo.NewMemUserRepo(roleRepo)
	roles := service.NewRoleService(roleRepo, nil)
	users := service.NewUserService(userRepo, roleRepo, nil)

	l := zap.NewNop()
	r := NewAPIEngine(l, Options{
		Name:         "User Role API Server",
		Version:      "1.0.0",
		Mode:         gin.TestMode,
		PublicDir:    publicDir,
		MaxBodyBytes: 1 << 20,
	}, handler.NewRoleHandler(roles, l), handler.NewUserHandler(users, l))
	return &app{t: t, h: r}
}

func (a *app) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var rd *strings.Reader
	switch b := body.(type) {
	case nil:
		rd = strings.NewReader("")
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		rd = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.h.ServeHTTP(w, req)

	var e envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	}
	return w, e
}

func (a *app) createRole(name string) string {
	a.t.Helper()
	w, e := a.do(http.MethodPost, "/api/roles", map[string]any{"name": name})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		ID string `json:"_id"`
	}
	require.NoError(a.t, json.Unmarshal(e.Data, &out))
	return out.ID
}

func (a *app) createUser(username, email, role string) string {
	a.t.Helper()
	w, e := a.do(http.MethodPost, "/api/users", map[string]any{
		"username": username, "password": "123456", "email": email, "role": role,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		ID string `json:"_id"`
	}
	require.NoError(a.t, json.Unmarshal(e.Data, &out))
	return out.ID
}

func TestHealthAndInfo(t *testing.T) {
	a := newApp(t, "")

	w, e := a.do(http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, e.Success)
	assert.Equal(t, "Server is running", e.Message)
	assert.Contains(t, w.Body.String(), `"timestamp"`)

	w, _ = a.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/api/users"`)
	assert.Contains(t, w.Body.String(), `"pagination":{"defaultLimit":10,"maxLimit":100}`)

	w, _ = a.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	a := newApp(t, "")
	for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPatch} {
		w, e := a.do(m, "/api/nothing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, e.Success)
		assert.Equal(t, "Route not found", e.Message)
	}
}

func TestStaticClient(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>admin</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))
	a := newApp(t, dir)

	w, _ := a.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin")

	w, _ = a.do(http.MethodGet, "/app.js", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	w, e := a.do(http.MethodGet, "/../go.mod", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", e.Message)
}

func TestRoleLifecycle(t *testing.T) {
	a := newApp(t, "")
	id := a.createRole("  Admin  ")

	w, e := a.do(http.MethodPost, "/api/roles", map[string]any{"name": "Admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Role name already exists", e.Message)

	w, e = a.do(http.MethodGet, "/api/roles/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(e.Data), `"name":"Admin"`)
	assert.Contains(t, string(e.Data), `"isDelete":false`)

	w, e = a.do(http.MethodPut, "/api/roles/"+id, map[string]any{"description": "all"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Role updated successfully", e.Message)
	assert.Contains(t, string(e.Data), `"description":"all"`)

	w, e = a.do(http.MethodDelete, "/api/roles/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Role deleted successfully", e.Message)

	// 二次删除 / 已删除不可见
	w, e = a.do(http.MethodDelete, "/api/roles/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Role not found", e.Message)
	w, _ = a.do(http.MethodGet, "/api/roles/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = a.do(http.MethodPut, "/api/roles/"+id, map[string]any{"name": "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 软删后名称仍被占用
	w, e = a.do(http.MethodPost, "/api/roles", map[string]any{"name": "Admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Role name already exists", e.Message)
}

func TestRoleCreateMissingName(t *testing.T) {
	a := newApp(t, "")
	w, e := a.do(http.MethodPost, "/api/roles", map[string]any{"description": "x"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, e.Success)
	assert.Contains(t, e.Message, "name is required")

	w, e = a.do(http.MethodPost, "/api/roles", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, e.Success)
}

func TestListPaginationAndSearch(t *testing.T) {
	a := newApp(t, "")
	for i := 1; i <= 12; i++ {
		a.createRole(fmt.Sprintf("Role_%02d", i))
	}
	a.createRole("100%")

	w, e := a.do(http.MethodGet, "/api/roles?page=2&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, e.Pagination)
	assert.Equal(t, 2, e.Pagination.Page)
	assert.Equal(t, 5, e.Pagination.Limit)
	assert.Equal(t, 13, e.Pagination.Total)
	assert.Equal(t, 3, e.Pagination.TotalPages)

	var names []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(e.Data, &names))
	require.Len(t, names, 5)
	assert.Equal(t, "Role_08", names[0].Name) // 新建的排在前

	w, e = a.do(http.MethodGet, "/api/roles?page=9", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(e.Data))
	assert.Equal(t, 13, e.Pagination.Total)

	// 超大页码不溢出，仍是越界空页
	w, e = a.do(http.MethodGet, "/api/roles?page=1000000000000000000&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `[]`, string(e.Data))
	assert.Equal(t, 1000000000000000000, e.Pagination.Page)
	assert.Equal(t, 13, e.Pagination.Total)

	w, e = a.do(http.MethodGet, "/api/roles?limit=500", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, e.Pagination.Limit)
	assert.Equal(t, 1, e.Pagination.TotalPages)

	w, e = a.do(http.MethodGet, "/api/roles?page=abc&limit=0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, e.Pagination.Page)
	assert.Equal(t, 10, e.Pagination.Limit)

	_, e = a.do(http.MethodGet, "/api/roles?name=role_1", nil)
	assert.Equal(t, 3, e.Pagination.Total)

	// 通配符按字面匹配
	_, e = a.do(http.MethodGet, "/api/roles?name=%25", nil)
	assert.Equal(t, 1, e.Pagination.Total)
	_, e = a.do(http.MethodGet, "/api/roles?name=_", nil)
	assert.Equal(t, 12, e.Pagination.Total)
}

func TestUserLifecycle(t *testing.T) {
	a := newApp(t, "")
	role := a.createRole("User")
	id := a.createUser(" john_doe ", " John@Example.COM ", role)

	w, e := a.do(http.MethodGet, "/api/users/id/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := string(e.Data)
	assert.NotContains(t, body, "password")
	assert.Contains(t, body, `"username":"john_doe"`)
	assert.Contains(t, body, `"email":"john@example.com"`)
	assert.Contains(t, body, `"role":{"_id":"`+role+`","name":"User","description":""}`)
	assert.Contains(t, body, `"status":false`)
	assert.Contains(t, body, `"loginCount":0`)

	w, _ = a.do(http.MethodGet, "/api/users/username/john_doe", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, e = a.do(http.MethodGet, "/api/users/username/nobody", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", e.Message)

	w, e = a.do(http.MethodPost, "/api/users", map[string]any{
		"username": "john_doe", "password": "x", "email": "other@example.com", "role": role,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "username already exists", e.Message)

	w, e = a.do(http.MethodPost, "/api/users", map[string]any{
		"username": "other", "password": "x", "email": "JOHN@example.com", "role": role,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email already exists", e.Message)

	w, e = a.do(http.MethodPut, "/api/users/"+id, map[string]any{
		"fullName": "John Doe", "status": true, "loginCount": 3, "password": "",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User updated successfully", e.Message)
	assert.Contains(t, string(e.Data), `"fullName":"John Doe"`)
	assert.Contains(t, string(e.Data), `"loginCount":3`)
	assert.NotContains(t, string(e.Data), "password")

	w, e = a.do(http.MethodGet, "/api/users?fullName=JOHN", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, e.Pagination.Total)
	assert.NotContains(t, string(e.Data), "password")

	w, e = a.do(http.MethodDelete, "/api/users/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User deleted successfully", e.Message)

	w, _ = a.do(http.MethodDelete, "/api/users/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = a.do(http.MethodGet, "/api/users/id/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	_, e = a.do(http.MethodGet, "/api/users", nil)
	assert.Equal(t, 0, e.Pagination.Total)

	// 软删用户的用户名仍被占用
	w, e = a.do(http.MethodPost, "/api/users", map[string]any{
		"username": "john_doe", "password": "x", "email": "new@example.com", "role": role,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "username already exists", e.Message)
}

func TestUserCreateUnknownRole(t *testing.T) {
	a := newApp(t, "")
	w, e := a.do(http.MethodPost, "/api/users", map[string]any{
		"username": "u", "password": "x", "email": "u@example.com", "role": "missing",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, e.Success)
	assert.Contains(t, e.Message, "role")
}

func TestVerifyActivate(t *testing.T) {
	a := newApp(t, "")
	role := a.createRole("User")
	a.createUser("jane", "jane@example.com", role)

	w, e := a.do(http.MethodPost, "/api/users/verify-activate", map[string]any{"email": "jane@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email and username are required", e.Message)

	w, e = a.do(http.MethodPost, "/api/users/verify-activate", map[string]any{"email": "x@example.com", "username": "jane"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found with provided email and username", e.Message)

	w, e = a.do(http.MethodPost, "/api/users/verify-activate", map[string]any{"email": "jane@example.com", "username": "jane"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User activated successfully", e.Message)
	assert.Contains(t, string(e.Data), `"status":true`)
	assert.Contains(t, string(e.Data), `"fullName":""`)
	assert.Contains(t, string(e.Data), `"name":"User"`)

	// 幂等：再次调用只报告已激活
	w, e = a.do(http.MethodPost, "/api/users/verify-activate", map[string]any{"email": "jane@example.com", "username": "jane"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User is already activated", e.Message)
	assert.JSONEq(t, `{"username":"jane","email":"jane@example.com","status":true}`, string(e.Data))
}

func TestMountPriority(t *testing.T) {
	var order []string
	r := gin.New()
	Mount(r.Group(""), recorder{"b", 20, &order}, nil, recorder{"a", 10, &order})
	assert.Equal(t, []string{"a", "b"}, order)
}

type recorder struct {
	name string
	prio int
	out  *[]string
}

func (m recorder) Priority() int               { return m.prio }
func (m recorder) MountAPI(_ *gin.RouterGroup) { *m.out = append(*m.out, m.name) }
