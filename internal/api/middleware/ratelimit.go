package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/minnseong/security-study/internal/api/metrics"
	"github.com/minnseong/security-study/internal/core/ports"
)

// LoginThrottle rejects repeated authentication attempts for the same
// username+address pair with 429. The limiter fails open: if its backend is
// unreachable, login availability wins over throttling and the error is only
// logged.
func LoginThrottle(limiter ports.LoginLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := throttleKey(c)

			allowed, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				log.Warn().Err(err).Msg("login throttle unavailable, failing open")
				return next(c)
			}
			if !allowed {
				metrics.LoginThrottledTotal.Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
			}
			return next(c)
		}
	}
}

// throttleKey combines the claimed username with the client address, so one
// caller hammering a single account cannot lock it for everyone else, and a
// single address cannot spray attempts across many accounts.
func throttleKey(c echo.Context) string {
	return peekUsername(c.Request()) + "@" + c.RealIP()
}

// maxPeekBytes bounds how much of an unauthenticated body the throttle will
// buffer. Real login payloads are tiny; anything larger is keyed by address
// alone rather than read in full.
const maxPeekBytes = 4 << 10

// peekUsername reads the username field from the JSON body and puts the body
// back so the handler can still bind it. At most maxPeekBytes are buffered;
// the remainder of an oversized body is left unread for the handler.
func peekUsername(req *http.Request) string {
	if req.Body == nil {
		return ""
	}

	peeked, err := io.ReadAll(io.LimitReader(req.Body, maxPeekBytes))
	if err != nil {
		req.Body = io.NopCloser(bytes.NewReader(peeked))
		return ""
	}
	req.Body = bodyWithPrefix{io.MultiReader(bytes.NewReader(peeked), req.Body), req.Body}

	var body struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(peeked, &body); err != nil {
		return ""
	}
	return body.Username
}

// bodyWithPrefix stitches the peeked prefix back in front of the unread rest.
type bodyWithPrefix struct {
	io.Reader
	io.Closer
}
