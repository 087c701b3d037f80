package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BearerAuth guards the learner's data routes (/api/profile, /api/roadmap,
// /api/chat and the rest) with server.api_token, so another local process
// cannot read or rewrite the profile without it. The CLI sends the token
// from config; the browser app is configured with the same value. An empty
// token leaves the daemon open, which is the default for a loopback-only
// install. CORS preflights carry no credentials and always pass.
func BearerAuth(token string) func(http.Handler) http.Handler {
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodOptions {
				got, ok := bearerToken(r)
				if !ok || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
					httpError(w, http.StatusUnauthorized, "authentication_error", "invalid or missing bearer token")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	return strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
}
