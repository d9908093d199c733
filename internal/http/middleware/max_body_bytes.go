package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
)

// payloadTooLargeJSON is pre-marshaled so the 413 can always be
// written even if marshaling were to fail.
const payloadTooLargeJSON = `{"error":{"code":"PAYLOAD_TOO_LARGE","message":"request body exceeds size limit","details":[]}}`

// MaxBodyBytes creates a middleware that limits request body size.
// The Content-Length header gives an early rejection when present;
// the body is still read through MaxBytesReader since the header can
// be missing (chunked encoding) or wrong.
func MaxBodyBytes(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > 0 && r.ContentLength > maxBytes {
				writePayloadTooLarge(w, r)
				return
			}

			body := http.MaxBytesReader(w, r.Body, maxBytes)
			buf, err := io.ReadAll(body)
			if err != nil {
				slog.WarnContext(r.Context(), "request body size limit exceeded",
					"method", r.Method,
					"path", r.URL.Path,
					"content_length", r.ContentLength,
					"limit", maxBytes,
					"error", err)
				writePayloadTooLarge(w, r)
				return
			}

			// Body is within limit, replace it so handlers can read it.
			r.Body = io.NopCloser(bytes.NewReader(buf))
			next.ServeHTTP(w, r)
		})
	}
}

func writePayloadTooLarge(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusRequestEntityTooLarge)
	if _, err := w.Write([]byte(payloadTooLargeJSON)); err != nil {
		slog.ErrorContext(r.Context(), "failed to write payload too large response", "error", err)
	}
}
