package middleware

import (
	"net/http"
	"slices"
)

const allowedHeaders = "authorization, apikey, content-type, x-client-info"

// CORS restricts the public form endpoint to an explicit origin allow-list.
// An absent or unrecognized Origin falls back to the first allowed origin,
// so the headers never echo an arbitrary caller.
type CORS struct {
	allowedOrigins []string
}

func NewCORS(allowedOrigins []string) *CORS {
	return &CORS{allowedOrigins: allowedOrigins}
}

func (c *CORS) originFor(r *http.Request) string {

	origin := r.Header.Get("Origin")

	if slices.Contains(c.allowedOrigins, origin) {
		return origin
	}

	if len(c.allowedOrigins) == 0 {
		return ""
	}

	return c.allowedOrigins[0]
}

func (c *CORS) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		if origin := c.originFor(r); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)

			return
		}

		next.ServeHTTP(w, r)

	})
}
