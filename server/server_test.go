package server_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/jrsteele09/delivery-signin/auth"
	"github.com/jrsteele09/delivery-signin/categories"
	"github.com/jrsteele09/delivery-signin/datasets/sourcefake"
	"github.com/jrsteele09/delivery-signin/internal/config"
	"github.com/jrsteele09/delivery-signin/server"
	"github.com/jrsteele09/delivery-signin/sessions"
	"github.com/jrsteele09/delivery-signin/signin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

const (
	customersJSON = `[{"customer_id": "c1", "password": "pw1", "name": "Alice"}]`
	couriersJSON  = `[{"courier_id": 42, "password": "pw2", "name": "Bob"}]`
	managersJSON  = `[{"manager_id": "m1", "password": "pw3", "name": "Dana"}]`
	testSignupURL = "https://signup.example.com/signup.html"
)

type testFixture struct {
	source *sourcefake.FakeSource
	store  *sessions.InMemoryStore
	server *httptest.Server
	client *http.Client
}

func setupTestFixture(t *testing.T, env map[string]string) *testFixture {
	t.Helper()

	t.Setenv("ENV", "TEST")
	t.Setenv("SIGNUP_URL", testSignupURL)
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com")
	for k, v := range env {
		t.Setenv(k, v)
	}
	cfg := config.New()

	src := sourcefake.NewFakeSource().
		Put("customers.json", customersJSON).
		Put("courier.json", couriersJSON).
		Put("managers.json", managersJSON)

	verifier, err := auth.NewVerifier(categories.Default(), src)
	require.NoError(t, err)

	flow, err := signin.NewFlow(verifier, sessions.NewPublisher(cfg.GetDashboardPath()), signin.NewAttemptGuard())
	require.NoError(t, err)

	store := sessions.NewInMemoryStore(time.Hour)
	datasetFS := fstest.MapFS{
		"customers.json": {Data: []byte(customersJSON)},
		"notes.txt":      {Data: []byte("not a dataset")},
	}

	s, err := server.New(cfg, flow, store, datasetFS)
	require.NoError(t, err)

	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testFixture{source: src, store: store, server: ts, client: client}
}

func (f *testFixture) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := f.client.Get(f.server.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (f *testFixture) postForm(t *testing.T, path string, form url.Values, headers map[string]string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, f.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (f *testFixture) postJSON(t *testing.T, path, body string) (*http.Response, string) {
	t.Helper()
	resp, err := f.client.Post(f.server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func credentials(identifier, password string) url.Values {
	return url.Values{"username": {identifier}, "password": {password}}
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := server.New(config.New(), nil, sessions.NewInMemoryStore(time.Minute), nil)
	require.Error(t, err)
}

func TestIndexHandler(t *testing.T) {
	f := setupTestFixture(t, nil)

	resp, body := f.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `href="/login?token=USR_TOKEN&amp;type=users"`)
	require.Contains(t, body, `href="/login?token=CUR_TOKEN&amp;type=couriers"`)
	require.Contains(t, body, `href="/login?token=MGR_TOKEN&amp;type=managers"`)

	resp, _ = f.get(t, "/unknown")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLoginPage(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		contains    []string
		notContains []string
	}{
		{
			name:  "Users",
			query: "?type=users&token=USR_TOKEN",
			contains: []string{
				"Users Login",
				`<code id="tokenDisplay">USR_TOKEN</code>`,
				`class="signup-section">`,
				"signup.html?type=users&amp;token=USR_TOKEN",
				`class="error-header error" hidden`,
			},
		},
		{
			name:     "Couriers",
			query:    "?type=couriers&token=CUR_TOKEN",
			contains: []string{"Couriers Login", "signup.html?type=couriers&amp;token=CUR_TOKEN"},
		},
		{
			name:        "Managers hide sign-up",
			query:       "?type=managers&token=MGR_TOKEN",
			contains:    []string{"Managers Login", `class="signup-section" hidden`},
			notContains: []string{"signup.html"},
		},
		{
			name:        "No parameters",
			query:       "",
			contains:    []string{"General Login", "No token provided", `class="signup-section" hidden`},
			notContains: []string{"signup.html"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t, nil)
			resp, body := f.get(t, "/login"+tt.query)

			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
			require.Equal(t, "SAMEORIGIN", resp.Header.Get("X-Frame-Options"))
			for _, s := range tt.contains {
				require.Contains(t, body, s)
			}
			for _, s := range tt.notContains {
				require.NotContains(t, body, s)
			}
			require.Equal(t, 0, f.source.TotalLoads())
		})
	}
}

func TestLoginSubmission(t *testing.T) {
	t.Run("success redirects to dashboard", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		f.get(t, "/login?type=users&token=USR_TOKEN")

		resp, _ := f.postForm(t, "/login?type=users&token=USR_TOKEN", credentials("c1", "pw1"), nil)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/dashboard?type=users&category=user&id=c1", resp.Header.Get("Location"))
		require.Equal(t, 1, f.store.Len())

		resp, body := f.get(t, resp.Header.Get("Location"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, "Welcome, Alice")
		require.Contains(t, body, `<dd id="sessionCategory">user</dd>`)
		require.Contains(t, body, `<dd id="sessionToken">USR_TOKEN</dd>`)
	})

	t.Run("htmx success", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		resp, _ := f.postForm(t, "/login?type=couriers&token=CUR_TOKEN", credentials("42", "pw2"),
			map[string]string{"HX-Request": "true"})
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		require.Equal(t, "/dashboard?type=couriers&category=courier&id=42", resp.Header.Get("HX-Redirect"))
	})

	t.Run("wrong password keeps identifier", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		resp, body := f.postForm(t, "/login?type=managers&token=MGR_TOKEN", credentials("m1", "nope"), nil)

		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Contains(t, body, "Wrong credentials. Please try again.")
		require.Contains(t, body, `class="error-header error" role="alert"`)
		require.Contains(t, body, `name="username" type="text" value="m1"`)
		require.Contains(t, body, `name="password" type="password" value=""`)
		require.Equal(t, 0, f.store.Len())
	})

	t.Run("wrong password after success keeps session", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		resp, _ := f.postForm(t, "/login?type=users&token=USR_TOKEN", credentials("c1", "pw1"), nil)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		resp, _ = f.postForm(t, "/login?type=managers&token=MGR_TOKEN", credentials("m1", "nope"), nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, 1, f.store.Len())

		resp, body := f.get(t, "/dashboard")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, "Welcome, Alice")
		require.Contains(t, body, `<dd id="sessionCategory">user</dd>`)
		require.Contains(t, body, `<dd id="sessionType">users</dd>`)
		require.Contains(t, body, `<dd id="sessionToken">USR_TOKEN</dd>`)
	})

	t.Run("invalid token", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		resp, body := f.postForm(t, "/login?type=users&token=XYZ", credentials("c1", "pw1"), nil)

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Contains(t, body, "Invalid access token. Please start from the main page.")
		require.Contains(t, body, `class="error-header info"`)
		require.Equal(t, 0, f.source.TotalLoads())
	})

	t.Run("dataset unavailable", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		f.source.Fail("courier.json", errors.New("connection refused"))
		resp, body := f.postForm(t, "/login?type=couriers&token=CUR_TOKEN", credentials("42", "pw2"), nil)

		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		require.Contains(t, body, "courier login system temporarily unavailable. Please try again later.")
	})
}

func TestDashboard_WithoutSession(t *testing.T) {
	f := setupTestFixture(t, nil)

	resp, _ := f.get(t, "/dashboard")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	// A browser session without a published sign-in is not enough
	f.get(t, "/login?type=users&token=USR_TOKEN")
	resp, _ = f.get(t, "/dashboard")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestAPILogin(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		body       string
		wantStatus int
		wantFields map[string]string
	}{
		{
			name:       "Success",
			query:      "?type=users&token=USR_TOKEN",
			body:       `{"identifier":"c1","password":"pw1"}`,
			wantStatus: http.StatusOK,
			wantFields: map[string]string{"redirect": "/dashboard?type=users&category=user&id=c1"},
		},
		{
			name:       "Mismatch",
			query:      "?type=users&token=USR_TOKEN",
			body:       `{"identifier":"c1","password":"bad"}`,
			wantStatus: http.StatusUnauthorized,
			wantFields: map[string]string{"kind": "error", "error": "credential_mismatch", "message": signin.CredentialMismatchMessage},
		},
		{
			name:       "Invalid token",
			query:      "?token=NOPE",
			body:       `{"identifier":"c1","password":"pw1"}`,
			wantStatus: http.StatusBadRequest,
			wantFields: map[string]string{"kind": "info", "error": "invalid_token"},
		},
		{
			name:       "Malformed body",
			query:      "?type=users&token=USR_TOKEN",
			body:       `{"identifier":`,
			wantStatus: http.StatusBadRequest,
			wantFields: map[string]string{"error": "invalid_request"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t, nil)
			resp, body := f.postJSON(t, "/api/login"+tt.query, tt.body)

			require.Equal(t, tt.wantStatus, resp.StatusCode)
			require.Contains(t, resp.Header.Get("Content-Type"), "application/json")
			for field, want := range tt.wantFields {
				require.Equal(t, want, jsoniter.Get([]byte(body), field).ToString(), field)
			}
		})
	}
}

func TestAPILogin_CORS(t *testing.T) {
	f := setupTestFixture(t, nil)

	req, err := http.NewRequest(http.MethodOptions, f.server.URL+"/api/login", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

	req.Header.Set("Origin", "https://evil.example.com")
	resp, err = f.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	f := setupTestFixture(t, map[string]string{
		"RATE_LIMIT_ENABLED":        "true",
		"LOGIN_ATTEMPTS_PER_MINUTE": "1",
		"LOGIN_BURST":               "1",
	})

	resp, _ := f.postForm(t, "/login?type=users&token=USR_TOKEN", credentials("c1", "bad"), nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = f.postForm(t, "/login?type=users&token=USR_TOKEN", credentials("c1", "pw1"), nil)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Equal(t, "60", resp.Header.Get("Retry-After"))
	require.Equal(t, 1, f.source.TotalLoads())

	// The page itself is not limited
	resp, _ = f.get(t, "/login?type=users&token=USR_TOKEN")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDatasetHandler(t *testing.T) {
	f := setupTestFixture(t, nil)

	resp, body := f.get(t, "/datasets/customers.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	require.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))
	require.JSONEq(t, customersJSON, body)

	for _, path := range []string{"/datasets/notes.txt", "/datasets/missing.json"} {
		resp, _ = f.get(t, path)
		require.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestStaticAndHealth(t *testing.T) {
	f := setupTestFixture(t, nil)

	resp, body := f.get(t, "/css/login.css")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	require.Contains(t, body, ".error-header")

	resp, _ = f.get(t, "/css/missing.css")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = f.get(t, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", jsoniter.Get([]byte(body), "status").ToString())
}
