// Package httpx classifies provider failures and paces retries.
package httpx

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// StatusCoder is implemented by provider errors that carry an HTTP status.
type StatusCoder interface {
	HTTPStatusCode() int
}

// StatusOf is the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatusCode()
	}
	return 0
}

// RetryableStatus covers 408, 429 and 5xx.
func RetryableStatus(code int) bool {
	switch {
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return true
	default:
		return code >= 500 && code < 600
	}
}

// IsRetryableError reports whether repeating the call could succeed. A
// cancelled context is final.
func IsRetryableError(err error) bool {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, context.DeadlineExceeded):
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if code := StatusOf(err); code != 0 {
		return RetryableStatus(code)
	}
	return false
}

// RetryAfterDuration honours a Retry-After header given in seconds or as an
// HTTP date, else uses fallback. The result never exceeds limit when limit > 0.
func RetryAfterDuration(resp *http.Response, fallback, limit time.Duration) time.Duration {
	d := fallback
	if resp != nil {
		if v := strings.TrimSpace(resp.Header.Get("Retry-After")); v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				d = time.Duration(secs) * time.Second
			} else if at, err := http.ParseTime(v); err == nil && time.Until(at) > 0 {
				d = time.Until(at)
			}
		}
	}
	if limit > 0 && d > limit {
		d = limit
	}
	return d
}

// Backoff doubles from base per attempt (attempt 1 = base), capped at limit.
func Backoff(attempt int, base, limit time.Duration) time.Duration {
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if limit > 0 && d >= limit {
			return limit
		}
	}
	return d
}

// JitterSleep spreads d by ±20%.
func JitterSleep(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	spread := float64(d) * 0.2
	return time.Duration(float64(d) - spread + rand.Float64()*2*spread)
}

// Sleep waits d, returning early with ctx's error when it ends first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
