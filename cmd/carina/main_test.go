package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/carina/internal/db"
	"github.com/erazemk/carina/internal/model"
	"github.com/erazemk/carina/internal/store"
)

func TestLevelRouter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(newLevelRouter(slog.LevelInfo, &stdout, &stderr))

	logger.Debug("hidden")
	logger.Info("hold registered", "code", "CN-1")
	logger.Warn("release rejected")
	logger.Error("releasing items")

	out, errOut := stdout.String(), stderr.String()
	if strings.Contains(out+errOut, "hidden") {
		t.Error("debug record should be dropped at info level")
	}
	if !strings.Contains(out, "hold registered") || !strings.Contains(out, "release rejected") {
		t.Errorf("info and warn should go to stdout, got %q", out)
	}
	if strings.Contains(out, "releasing items") || !strings.Contains(errOut, "releasing items") {
		t.Errorf("error should go only to stderr, got stdout %q stderr %q", out, errOut)
	}
}

func TestLevelRouterWithAttrs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(newLevelRouter(slog.LevelWarn, &stdout, &stderr)).With("station", "north")

	logger.Info("dropped")
	logger.Warn("kept")

	if strings.Contains(stdout.String(), "dropped") {
		t.Error("info record should be dropped at warn level")
	}
	if !strings.Contains(stdout.String(), "station=north") {
		t.Errorf("attrs should carry over, got %q", stdout.String())
	}
}

func TestInitAdmin(t *testing.T) {
	ctx := context.Background()
	database := db.NewTestDB(t)

	password, err := initAdmin(ctx, database, "Admin")
	if err != nil {
		t.Fatalf("initAdmin: %v", err)
	}
	if len(password) != 16 {
		t.Errorf("expected 16 character password, got %d", len(password))
	}

	user, err := store.GetUserByUsername(ctx, database, "Admin")
	if err != nil || user == nil {
		t.Fatalf("admin not created: %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("expected admin role, got %q", user.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		t.Error("stored hash does not match returned password")
	}

	// Second run leaves users alone.
	password, err = initAdmin(ctx, database, "Admin")
	if err != nil {
		t.Fatalf("second initAdmin: %v", err)
	}
	if password != "" {
		t.Error("expected no password when users exist")
	}
}

func TestGeneratePassword(t *testing.T) {
	a, err := generatePassword(16)
	if err != nil {
		t.Fatalf("generatePassword: %v", err)
	}
	b, _ := generatePassword(16)
	if len(a) != 16 || a == b {
		t.Errorf("expected two distinct 16 character passwords, got %q and %q", a, b)
	}
}

func TestNewHandlerKeepsMetricsOffMainListener(t *testing.T) {
	named := func(name string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, name)
		})
	}
	handler := newHandler(named("api"), named("web"))

	for path, want := range map[string]string{
		"/api/dashboard": "api",
		"/history":       "web",
		"/metrics":       "web",
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if got := rec.Body.String(); got != want {
			t.Errorf("GET %s: expected %s router, got %q", path, want, got)
		}
	}
}

func TestMetricsServer(t *testing.T) {
	server := newMetricsServer("127.0.0.1:0")

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("expected Prometheus exposition output")
	}

	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/dashboard", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 outside /metrics, got %d", rec.Code)
	}
}
