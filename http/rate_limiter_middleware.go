package http

import (
	"math"
	"net"
	"net/http"

	"loan-quote/domain"
	"loan-quote/service"
)

func RateLimitMiddleware(
	limiter service.Limiter,
	next http.Handler,
) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		allowed, retryAfter := limiter.Allow(clientIP(r))
		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			writeError(w, r, domain.NewRateLimitError("rate limit exceeded", seconds))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
