package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"pressfolio/internal/middleware"
	"pressfolio/internal/session"
)

// helperSession returns a session.Data suitable for rendering admin templates.
func helperSession() *session.Data {
	return &session.Data{
		UserID:      uuid.New(),
		Email:       "test@pressfolio.local",
		DisplayName: "Test User",
		Role:        "admin",
		TwoFADone:   true,
	}
}

// helperRequestWithContext builds an *http.Request whose context carries a
// session, which the embedded templates expect.
func helperRequestWithContext(method, target string, sess *session.Data) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := req.Context()
	if sess != nil {
		ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	}
	return req.WithContext(ctx)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		devMode bool
	}{
		{"dev mode", true},
		{"prod mode", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rn, err := New(tt.devMode)
			if err != nil {
				t.Fatalf("New(devMode=%v) returned error: %v", tt.devMode, err)
			}
			if rn == nil {
				t.Fatal("New() returned nil renderer")
			}

			// Verify well-known admin templates exist.
			for _, name := range []string{"dashboard", "login", "2fa_setup", "2fa_verify", "posts", "categories"} {
				if _, ok := rn.admin[name]; !ok {
					t.Errorf("expected admin template %q to be parsed", name)
				}
			}
			// And public ones.
			for _, name := range []string{"home", "blog", "post", "series", "series_detail", "topics", "page"} {
				if _, ok := rn.public[name]; !ok {
					t.Errorf("expected public template %q to be parsed", name)
				}
			}

			// base.html should NOT appear as a standalone template key.
			if _, ok := rn.admin["base"]; ok {
				t.Error("base.html should not be registered as a separate template")
			}
		})
	}
}

func TestNewDevMode(t *testing.T) {
	rn, err := New(true)
	if err != nil {
		t.Fatalf("New(true) error: %v", err)
	}

	// Render login (standalone) and check for CDN URL present in dev mode.
	w := httptest.NewRecorder()
	req := helperRequestWithContext(http.MethodGet, "/admin/login", nil)
	rn.Page(w, req, "login", &PageData{Title: "Login"})

	body := w.Body.String()
	if !strings.Contains(body, "cdn.tailwindcss.com") {
		t.Error("dev mode: expected CDN tailwindcss URL in rendered output")
	}
	if strings.Contains(body, "/static/css/admin.css") {
		t.Error("dev mode: should NOT contain local static asset path")
	}
}

func TestNewProdMode(t *testing.T) {
	rn, err := New(false)
	if err != nil {
		t.Fatalf("New(false) error: %v", err)
	}

	w := httptest.NewRecorder()
	req := helperRequestWithContext(http.MethodGet, "/admin/login", nil)
	rn.Page(w, req, "login", &PageData{Title: "Login"})

	body := w.Body.String()
	if strings.Contains(body, "cdn.tailwindcss.com") {
		t.Error("prod mode: should NOT contain CDN tailwindcss URL")
	}
	if !strings.Contains(body, "/static/css/admin.css") {
		t.Error("prod mode: expected local static asset path in rendered output")
	}
}

func TestPageRendering(t *testing.T) {
	rn, err := New(true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	sess := helperSession()
	req := helperRequestWithContext(http.MethodGet, "/admin", sess)
	w := httptest.NewRecorder()

	rn.Page(w, req, "dashboard", &PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Session: sess,
		Data:    map[string]any{"PostCount": 5, "PublishedCount": 3, "CategoryCount": 4, "MediaCount": 10},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()

	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("full page render should contain <!DOCTYPE html>")
	}
	if !strings.Contains(body, "Pressfolio") {
		t.Error("full page render should contain site branding")
	}
	if !strings.Contains(body, "Recent posts") {
		t.Error("full page render should contain dashboard content")
	}
	ct := w.Header().Get("Content-Type")
	if ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type: got %q, want %q", ct, "text/html; charset=utf-8")
	}
}

func TestHTMXPartialRendering(t *testing.T) {
	rn, err := New(true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	sess := helperSession()
	req := helperRequestWithContext(http.MethodGet, "/admin", sess)
	req.Header.Set("HX-Request", "true")

	w := httptest.NewRecorder()
	rn.Page(w, req, "dashboard", &PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Session: sess,
		Data:    map[string]any{"PostCount": 1, "PublishedCount": 0, "CategoryCount": 0, "MediaCount": 0},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()

	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("HTMX partial should NOT contain <!DOCTYPE html>")
	}
	if strings.Contains(body, "<head>") {
		t.Error("HTMX partial should NOT contain <head> tag")
	}
	if !strings.Contains(body, "Recent posts") {
		t.Error("HTMX partial should contain dashboard content block")
	}
}

func TestStandaloneTemplates(t *testing.T) {
	rn, err := New(true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	for _, name := range []string{"login", "2fa_setup", "2fa_verify"} {
		t.Run(name, func(t *testing.T) {
			req := helperRequestWithContext(http.MethodGet, "/admin/"+name, nil)
			w := httptest.NewRecorder()

			rn.Page(w, req, name, &PageData{
				Title: name,
				Data:  map[string]any{},
			})

			if w.Code != http.StatusOK {
				t.Fatalf("template %q: expected 200, got %d", name, w.Code)
			}

			body := w.Body.String()

			if !strings.Contains(body, "<!DOCTYPE html>") {
				t.Errorf("template %q: expected standalone HTML with <!DOCTYPE html>", name)
			}
			// Standalone templates should NOT contain the base layout sidebar.
			if strings.Contains(body, "Dashboard") {
				t.Errorf("template %q: should NOT contain base layout sidebar", name)
			}
		})
	}
}

func TestMissingTemplate(t *testing.T) {
	rn, err := New(true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	req := helperRequestWithContext(http.MethodGet, "/admin/nonexistent", nil)
	w := httptest.NewRecorder()

	rn.Page(w, req, "nonexistent_template", &PageData{
		Title: "Not Found",
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "not found") {
		t.Error("error response should mention template not found")
	}
}

func TestPageDataCSRFInjection(t *testing.T) {
	rn, err := New(true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	// Run a request through the CSRF middleware to get a token in context.
	csrfMiddleware := middleware.NewCSRF(false)
	var capturedReq *http.Request
	inner := csrfMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
	}))

	setupReq := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	setupRR := httptest.NewRecorder()
	inner.ServeHTTP(setupRR, setupReq)

	if capturedReq == nil {
		t.Fatal("CSRF middleware did not call inner handler")
	}

	csrfToken := middleware.CSRFTokenFromCtx(capturedReq.Context())
	if csrfToken == "" {
		t.Fatal("CSRF token not found in context")
	}

	w := httptest.NewRecorder()
	data := &PageData{Title: "Login"}
	rn.Page(w, capturedReq, "login", data)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}

	body := w.Body.String()
	if !strings.Contains(body, csrfToken) {
		t.Error("rendered output should contain the CSRF token from context")
	}
	if data.CSRFToken != csrfToken {
		t.Errorf("PageData.CSRFToken: got %q, want %q", data.CSRFToken, csrfToken)
	}
}

func TestSessionInjectionFromContext(t *testing.T) {
	rn, err := New(true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	sess := helperSession()
	req := helperRequestWithContext(http.MethodGet, "/admin", sess)
	w := httptest.NewRecorder()

	// Pass PageData WITHOUT setting Session, it should be injected from context.
	data := &PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data:    map[string]any{"PostCount": 0, "PublishedCount": 0, "CategoryCount": 0, "MediaCount": 0},
	}
	rn.Page(w, req, "dashboard", data)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}

	if data.Session == nil {
		t.Error("expected Session to be injected from context")
	}
	if data.Session != nil && data.Session.DisplayName != "Test User" {
		t.Errorf("Session.DisplayName: got %q, want %q", data.Session.DisplayName, "Test User")
	}

	body := w.Body.String()
	if !strings.Contains(body, "Test User") {
		t.Error("rendered output should contain session DisplayName")
	}
}

func TestIsHTMXHelper(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected bool
	}{
		{"no header", "", false},
		{"header true", "true", true},
		{"header false", "false", false},
		{"header random", "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("HX-Request", tt.header)
			}
			if got := isHTMX(req); got != tt.expected {
				t.Errorf("isHTMX(): got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPublicRendering(t *testing.T) {
	rn, err := New(false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	out, err := rn.Public("page", &PublicData{
		SiteName: "Pressfolio",
		Title:    "About",
		Data:     map[string]any{"BodyHTML": "<p>Hello there.</p>"},
	})
	if err != nil {
		t.Fatalf("Public: %v", err)
	}

	body := string(out)
	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("public render should be a full page")
	}
	if !strings.Contains(body, "About · Pressfolio") {
		t.Error("title should combine page title and site name")
	}
	if !strings.Contains(body, "<p>Hello there.</p>") {
		t.Error("trusted body HTML should pass through unescaped")
	}

	if _, err := rn.Public("no_such_page", &PublicData{}); err == nil {
		t.Error("unknown public template should error")
	}
}
