package middleware

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/valkey-io/valkey-go"
)

// RateLimit is a fixed-window limiter backed by valkey, keyed per client IP.
// Intended for the auth endpoints. Valkey being unreachable fails open: a
// degraded limiter must not take login down with it.
func RateLimit(client valkey.Client, limit int, window time.Duration, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			key := fmt.Sprintf("ratelimit:%s:%d", ip, time.Now().Unix()/int64(window.Seconds()))

			ctx := r.Context()
			count, err := client.Do(ctx, client.B().Incr().Key(key).Build()).AsInt64()
			if err != nil {
				log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				client.Do(ctx, client.B().Expire().Key(key).Seconds(int64(window.Seconds())).Build())
			}

			if count > int64(limit) {
				writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
