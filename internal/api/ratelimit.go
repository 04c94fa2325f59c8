package api

import (
	"net/http"
	"strings"

	"github.com/24061269-star/um-lost-and-found/internal/http/response"
)

// searchRateLimit throttles the search endpoint per caller. Authenticated
// callers are keyed by user id, anonymous ones by client IP. Everything
// else on the router passes through untouched.
func (s *Server) searchRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/search" {
			next.ServeHTTP(w, r)
			return
		}

		key, err := GetUserID(r.Context())
		if err != nil {
			key = getClientIP(r)
		}

		if !s.searchLimiter.Allow(key) {
			s.logger.Warn("search rate limit exceeded",
				"key", key,
				"path", r.URL.Path,
			)
			response.TooManyRequests(w, "Too many requests. Please try again later.", s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For (may contain multiple IPs, first is client).
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return xff[:i]
		}
		return xff
	}

	// Check X-Real-IP.
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr (strip port).
	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}
