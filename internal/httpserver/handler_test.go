package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "conversational-relay/docs"
)

func systemEngine(t *testing.T) *HTTPServer {
	t.Helper()
	srv, err := New(&nopLogger{}, Config{
		Logger: &nopLogger{},
		Port:   8080,
		Mode:   "test",
	})
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	if err := srv.mapHandlers(); err != nil {
		t.Fatalf("failed to map handlers: %v", err)
	}
	return srv
}

func TestSystemRoutes_Health(t *testing.T) {
	srv := systemEngine(t)

	for _, path := range []string{"/health", "/ready", "/live"} {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		srv.gin.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), ServiceName) {
			t.Errorf("%s: expected service name in body, got %s", path, w.Body.String())
		}
	}
}

func TestSystemRoutes_SwaggerDoc(t *testing.T) {
	srv := systemEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	srv.gin.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for doc.json, got %d", w.Code)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc.json is not valid JSON: %v", err)
	}
	if !strings.Contains(w.Body.String(), "Conversational Relay API") {
		t.Errorf("expected API title in doc.json")
	}
}
