package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codexplain/internal/logging"
	"codexplain/internal/server/config"
	"codexplain/internal/server/services"
	"codexplain/internal/server/storage"
)

type stubGenerator struct {
	out     string
	err     error
	prompts []string
}

func (g *stubGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.out, nil
}

func newTestServer(t *testing.T, authMode string, gen *stubGenerator, ext TextExtractor) *Server {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AuthMode = authMode
	cfg.UsersFile = filepath.Join(dir, "users.json")
	cfg.HistoryFile = filepath.Join(dir, "history.json")

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	repos := storage.NewFile(cfg.UsersFile, cfg.HistoryFile, logger)

	us := services.NewUserService(repos.Users, cfg)
	hs := services.NewHistoryService(repos.History, cfg)
	gs := services.NewGenerationService(gen, hs, cfg, logger)

	return NewServer(cfg, logger, us, hs, gs, ext)
}

func jsonReq(t *testing.T, method, path, token string, body any) *http.Request {
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
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func registerAndLogin(t *testing.T, s *Server, email, password string) string {
	t.Helper()

	resp, err := s.app.Test(jsonReq(t, http.MethodPost, "/register", "",
		map[string]string{"email": email, "password": password}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = s.app.Test(jsonReq(t, http.MethodPost, "/login", "",
		map[string]string{"email": email, "password": password}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	token, ok := decodeBody(t, resp)["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func TestRegister_Duplicate(t *testing.T) {
	s := newTestServer(t, config.AuthModeRequired, &stubGenerator{}, nil)

	resp, err := s.app.Test(jsonReq(t, http.MethodPost, "/register", "",
		map[string]string{"email": "a@x.com", "password": "pw123"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = s.app.Test(jsonReq(t, http.MethodPost, "/register", "",
		map[string]string{"email": "a@x.com", "password": "other"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists", decodeBody(t, resp)["error"])
}

func TestRegister_MissingFields(t *testing.T) {
	s := newTestServer(t, config.AuthModeRequired, &stubGenerator{}, nil)

	resp, err := s.app.Test(jsonReq(t, http.MethodPost, "/register", "",
		map[string]string{"email": "a@x.com"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestLogin_Errors(t *testing.T) {
	s := newTestServer(t, config.AuthModeRequired, &stubGenerator{}, nil)
	registerAndLogin(t, s, "a@x.com", "pw123")

	resp, err := s.app.Test(jsonReq(t, http.MethodPost, "/login", "",
		map[string]string{"email": "nobody@x.com", "password": "pw123"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User not found", decodeBody(t, resp)["error"])

	resp, err = s.app.Test(jsonReq(t, http.MethodPost, "/login", "",
		map[string]string{"email": "a@x.com", "password": "wrong"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid password", decodeBody(t, resp)["error"])
}

func TestExplain_RequiresToken(t *testing.T) {
	s := newTestServer(t, config.AuthModeRequired, &stubGenerator{out: "ok"}, nil)

	resp, err := s.app.Test(jsonReq(t, http.MethodPost, "/explain", "",
		map[string]string{"code": "print(1)"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Unauthorized", decodeBody(t, resp)["error"])

	resp, err = s.app.Test(jsonReq(t, http.MethodPost, "/explain", "not-a-jwt",
		map[string]string{"code": "print(1)"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Unauthorized", decodeBody(t, resp)["error"])
}

func TestExplain_RoundTripWithHistory(t *testing.T) {
	gen := &stubGenerator{out: "prints one"}
	s := newTestServer(t, config.AuthModeRequired, gen, nil)
	token := registerAndLogin(t, s, "a@x.com", "pw123")

	resp, err := s.app.Test(jsonReq(t, http.MethodPost, "/explain", token,
		map[string]string{"code": "print(1)", "language": "python", "mode": "debug"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "prints one", body["explanation"])
	assert.Equal(t, "debug", body["mode"])

	resp, err = s.app.Test(jsonReq(t, http.MethodGet, "/history", token, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	records, ok := decodeBody(t, resp)["history"].([]any)
	require.True(t, ok)
	require.Len(t, records, 1)
	rec := records[0].(map[string]any)
	assert.Equal(t, "a@x.com", rec["email"])
	assert.Equal(t, "print(1)", rec["code"])
	assert.Equal(t, "prints one", rec["explanation"])
}

func TestExplain_Validation(t *testing.T) {
	s := newTestServer(t, config.AuthModeRequired, &stubGenerator{out: "ok"}, nil)
	token := registerAndLogin(t, s, "a@x.com", "pw123")

	resp, err := s.app.Test(jsonReq(t, http.MethodPost, "/explain", token,
		map[string]string{"language": "go"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Code is required", decodeBody(t, resp)["error"])

	resp, err = s.app.Test(jsonReq(t, http.MethodPost, "/explain", token,
		map[string]string{"code": "x", "mode": "nonsense"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid mode", decodeBody(t, resp)["error"])
}

func TestExplain_UpstreamFailure(t *testing.T) {
	s := newTestServer(t, config.AuthModeRequired, &stubGenerator{err: errors.New("model overloaded")}, nil)
	token := registerAndLogin(t, s, "a@x.com", "pw123")

	resp, err := s.app.Test(jsonReq(t, http.MethodPost, "/explain", token,
		map[string]string{"code": "x"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Generation failed", body["error"])
	assert.Contains(t, body["details"], "model overloaded")
}

func TestGuestMode_NoTokenNeeded(t *testing.T) {
	gen := &stubGenerator{out: "ok"}
	s := newTestServer(t, config.AuthModeDisabled, gen, nil)

	resp, err := s.app.Test(jsonReq(t, http.MethodPost, "/explain", "",
		map[string]string{"code": "x"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = s.app.Test(jsonReq(t, http.MethodGet, "/history", "", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	records := decodeBody(t, resp)["history"].([]any)
	require.Len(t, records, 1)
	assert.Equal(t, "guest", records[0].(map[string]any)["email"])
}

func TestHistory_DeleteScopedToCaller(t *testing.T) {
	gen := &stubGenerator{out: "ok"}
	s := newTestServer(t, config.AuthModeRequired, gen, nil)
	tokenA := registerAndLogin(t, s, "a@x.com", "pw123")
	tokenB := registerAndLogin(t, s, "b@x.com", "pw123")

	for _, token := range []string{tokenA, tokenB} {
		resp, err := s.app.Test(jsonReq(t, http.MethodPost, "/explain", token,
			map[string]string{"code": "x"}))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := s.app.Test(jsonReq(t, http.MethodDelete, "/history", tokenA, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "History cleared", decodeBody(t, resp)["message"])

	resp, err = s.app.Test(jsonReq(t, http.MethodGet, "/history", tokenA, nil))
	require.NoError(t, err)
	assert.Empty(t, decodeBody(t, resp)["history"])

	resp, err = s.app.Test(jsonReq(t, http.MethodGet, "/history", tokenB, nil))
	require.NoError(t, err)
	assert.Len(t, decodeBody(t, resp)["history"], 1)
}

func TestConvert_Validation(t *testing.T) {
	s := newTestServer(t, config.AuthModeDisabled, &stubGenerator{out: "ok"}, nil)

	resp, err := s.app.Test(jsonReq(t, http.MethodPost, "/convert", "",
		map[string]string{"code": "x", "from": "python"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Code, from and to are required", decodeBody(t, resp)["error"])
}

func TestPromptToCode_NotHistoryTracked(t *testing.T) {
	gen := &stubGenerator{out: "def f(): pass"}
	s := newTestServer(t, config.AuthModeDisabled, gen, nil)

	resp, err := s.app.Test(jsonReq(t, http.MethodPost, "/prompt-to-code", "",
		map[string]string{"prompt": "a no-op function", "language": "python"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "def f(): pass", decodeBody(t, resp)["result"])

	resp, err = s.app.Test(jsonReq(t, http.MethodGet, "/history", "", nil))
	require.NoError(t, err)
	assert.Empty(t, decodeBody(t, resp)["history"])
}

func TestExplainLine_Validation(t *testing.T) {
	s := newTestServer(t, config.AuthModeDisabled, &stubGenerator{out: "ok"}, nil)

	resp, err := s.app.Test(jsonReq(t, http.MethodPost, "/explain-line", "",
		map[string]any{"code": "a\nb", "lineNumber": 0}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Line number is required", decodeBody(t, resp)["error"])
}
