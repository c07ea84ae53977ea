package security

import (
	"net/http"

	"github.com/noah-isme/backend-turismo/internal/common"
)

// BodyLimit caps request payloads.
type BodyLimit struct {
	Max int64
}

// Middleware rejects declared oversized bodies with 413 and caps the rest with
// http.MaxBytesReader, so decoders fail once the limit is crossed.
func (b BodyLimit) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.Max <= 0 || r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}
		if r.ContentLength > b.Max {
			common.JSONError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large", nil)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, b.Max)
		next.ServeHTTP(w, r)
	})
}
