package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func preflight(handler http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/addToy", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	cases := []struct {
		name        string
		origins     []string
		dev         bool
		origin      string
		allowOrigin string
		credentials string
	}{
		{"no origins allows any", nil, false, "https://shop.example", "*", ""},
		{"development allows any", []string{"https://toytopia.example"}, true, "https://shop.example", "*", ""},
		{"listed origin", []string{"https://toytopia.example"}, false, "https://toytopia.example", "https://toytopia.example", "true"},
		{"unlisted origin", []string{"https://toytopia.example"}, false, "https://shop.example", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := preflight(CORSMiddleware(tc.origins, tc.dev)(next), tc.origin)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tc.allowOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tc.allowOrigin)
			}
			if got := w.Header().Get("Access-Control-Allow-Credentials"); got != tc.credentials {
				t.Errorf("Allow-Credentials = %q, want %q", got, tc.credentials)
			}
		})
	}
}
