package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rahulwaghole14/mandap/domain"
	"github.com/rahulwaghole14/mandap/internal/app"
	"github.com/rahulwaghole14/mandap/internal/infrastructure/auth"
	"github.com/rahulwaghole14/mandap/internal/infrastructure/database"
	testconfig "github.com/rahulwaghole14/mandap/internal/tests/config"
)

// Seeded accounts
const (
	adminEmail       = "admin@mandap.test"
	adminPassword    = "admin-password"
	operatorEmail    = "operator@mandap.test"
	operatorPassword = "operator-password"
)

// TestServer runs the full router against fake upstreams, miniredis and
// in-memory SQLite.
type TestServer struct {
	Server    *httptest.Server
	Container *app.Container
	Directory *FakeDirectory
	Gateway   *FakeGateway
	Redis     *miniredis.Miniredis
	Client    *http.Client
}

// NewTestServer builds and starts a server. failing lists normalized phones
// the fake gateway rejects.
func NewTestServer(t *testing.T, failing ...string) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	dir := NewFakeDirectory(testconfig.DirectoryToken)
	t.Cleanup(dir.Close)
	gw := NewFakeGateway(failing...)
	t.Cleanup(gw.Close)

	cfg := testconfig.NewTestConfig(t, testconfig.Endpoints{
		RedisAddr:    mr.Addr(),
		DirectoryURL: dir.Server.URL,
		GatewayURL:   gw.Server.URL,
	})

	hash, err := auth.NewPasswordServiceWithCost(bcrypt.MinCost).Hash(adminPassword)
	require.NoError(t, err)
	cfg.BootstrapEmail = adminEmail
	cfg.BootstrapPasswordHash = hash

	db, err := database.Open(cfg.DBDriver, cfg.DSN)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := app.Assemble(cfg, logger, db, rdb)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	require.NoError(t, c.Bootstrap(ctx))
	_, err = c.AuthSvc.CreateAdmin(ctx, operatorEmail, operatorPassword, domain.RoleOperator)
	require.NoError(t, err)

	srv := httptest.NewServer(c.Router())
	t.Cleanup(srv.Close)

	return &TestServer{
		Server:    srv,
		Container: c,
		Directory: dir,
		Gateway:   gw,
		Redis:     mr,
		Client:    srv.Client(),
	}
}

// Response is a decoded API response
type Response struct {
	Status int
	Body   map[string]any
	Raw    string
}

// Data returns the "data" object of the body
func (r Response) Data(t *testing.T) map[string]any {
	t.Helper()
	data, ok := r.Body["data"].(map[string]any)
	require.Truef(t, ok, "no data object in %s", r.Raw)
	return data
}

func (s *TestServer) do(t *testing.T, req *http.Request, token string) Response {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := Response{Status: resp.StatusCode, Raw: string(raw)}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out.Body)
	}
	return out
}

// JSON sends a JSON request
func (s *TestServer) JSON(t *testing.T, method, path, token string, body any) Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return s.do(t, req, token)
}

// Multipart posts form fields and an optional file
func (s *TestServer) Multipart(t *testing.T, path, token string, fields map[string][]string, filename string, file []byte) Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, w.WriteField(k, v))
		}
	}
	if file != nil {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, s.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return s.do(t, req, token)
}

// Login returns a bearer token for the account
func (s *TestServer) Login(t *testing.T, email, password string) string {
	t.Helper()
	resp := s.JSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equalf(t, http.StatusOK, resp.Status, "login failed: %s", resp.Raw)
	token, _ := resp.Data(t)["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}
