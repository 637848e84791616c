package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

type statusErr int

func (e statusErr) Error() string       { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) HTTPStatusCode() int { return int(e) }

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), true},
		{"429", statusErr(429), true},
		{"503 wrapped", fmt.Errorf("x: %w", statusErr(503)), true},
		{"400", statusErr(400), false},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		if got := IsRetryableError(tc.err); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestRetryAfterDuration(t *testing.T) {
	resp := &http.Response{Header: http.Header{"Retry-After": []string{"30"}}}
	if got := RetryAfterDuration(resp, time.Second, 10*time.Second); got != 10*time.Second {
		t.Fatalf("expected cap, got %v", got)
	}
	if got := RetryAfterDuration(nil, 2*time.Second, 0); got != 2*time.Second {
		t.Fatalf("expected fallback, got %v", got)
	}
}

func TestBackoff(t *testing.T) {
	if got := Backoff(1, time.Second, 5*time.Second); got != time.Second {
		t.Fatalf("attempt 1: %v", got)
	}
	if got := Backoff(3, time.Second, 5*time.Second); got != 4*time.Second {
		t.Fatalf("attempt 3: %v", got)
	}
	if got := Backoff(6, time.Second, 5*time.Second); got != 5*time.Second {
		t.Fatalf("attempt 6: %v", got)
	}
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestRetryAfterHTTPDate(t *testing.T) {
	at := time.Now().Add(5 * time.Second).UTC().Format(http.TimeFormat)
	resp := &http.Response{Header: http.Header{"Retry-After": []string{at}}}
	got := RetryAfterDuration(resp, time.Second, time.Minute)
	if got <= time.Second || got > 5*time.Second {
		t.Fatalf("expected about 5s from date header, got %v", got)
	}
}

func TestJitterSleepBounds(t *testing.T) {
	for i := 0; i < 50; i++ {
		got := JitterSleep(10 * time.Second)
		if got < 8*time.Second || got > 12*time.Second {
			t.Fatalf("jitter out of range: %v", got)
		}
	}
	if JitterSleep(0) != 0 {
		t.Fatalf("zero base should not sleep")
	}
}
