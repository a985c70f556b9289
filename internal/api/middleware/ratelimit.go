package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/phrazzld/contacts-api/internal/api/shared"
)

var errRateLimited = errors.New("rate limit exceeded")

// NewRateLimiter allows requests per window for each client IP and answers
// the excess with a JSON 429.
func NewRateLimiter(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, "Too many requests", errRateLimited)
		}),
	)
}
