package security

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/cors"
)

const defaultHSTSMaxAge = 31536000

// Headers sets the response headers every JSON endpoint carries.
type Headers struct {
	HSTS       bool
	HSTSMaxAge int
}

// Middleware attaches the security headers before delegating.
func (h Headers) Middleware(next http.Handler) http.Handler {
	hsts := ""
	if h.HSTS {
		maxAge := h.HSTSMaxAge
		if maxAge <= 0 {
			maxAge = defaultHSTSMaxAge
		}
		hsts = "max-age=" + strconv.Itoa(maxAge) + "; includeSubDomains"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := w.Header()
		headers.Set("X-Content-Type-Options", "nosniff")
		headers.Set("X-Frame-Options", "DENY")
		headers.Set("Referrer-Policy", "no-referrer")
		headers.Set("Cache-Control", "no-store")
		if hsts != "" && r.TLS != nil {
			headers.Set("Strict-Transport-Security", hsts)
		}
		next.ServeHTTP(w, r)
	})
}

// CORS builds the cross-origin policy for the comma separated origin list.
// An empty list disables cross-origin access.
func CORS(originsCSV string) func(http.Handler) http.Handler {
	var origins []string
	for _, origin := range strings.Split(originsCSV, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept", "X-Request-ID", "Idempotency-Key"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
