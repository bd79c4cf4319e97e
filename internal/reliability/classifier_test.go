package reliability

import (
	"errors"
	"testing"
	"time"
)

func TestIsRetryableHTTPStatus(t *testing.T) {
	cases := []struct {
		code int
		want bool
	}{
		{200, false},
		{400, false},
		{429, true},
		{500, true},
		{503, true},
	}
	for _, tc := range cases {
		got := IsRetryableHTTPStatus(tc.code)
		if got != tc.want {
			t.Fatalf("IsRetryableHTTPStatus(%d) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestIsRateLimit(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("googleapi: Error 429: Resource has been exhausted"), true},
		{errors.New("RESOURCE_EXHAUSTED: quota exceeded"), true},
		{errors.New("rate limit hit, slow down"), true},
		{errors.New("invalid API key"), false},
		{errors.New("deadline exceeded"), false},
	}
	for _, tc := range cases {
		if got := IsRateLimit(tc.err); got != tc.want {
			t.Fatalf("IsRateLimit(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestExponentialBackoffCap(t *testing.T) {
	base := 100 * time.Millisecond
	capDur := 700 * time.Millisecond
	if got := ExponentialBackoff(0, base, capDur); got != base {
		t.Fatalf("attempt 0 = %v, want %v", got, base)
	}
	if got := ExponentialBackoff(10, base, capDur); got != capDur {
		t.Fatalf("attempt 10 = %v, want %v", got, capDur)
	}
}

func TestExponentialBackoffSchedule(t *testing.T) {
	// The completion retry policy sleeps 1s then 2s before giving up.
	if got := ExponentialBackoff(0, time.Second, 30*time.Second); got != time.Second {
		t.Fatalf("attempt 0 = %v, want 1s", got)
	}
	if got := ExponentialBackoff(1, time.Second, 30*time.Second); got != 2*time.Second {
		t.Fatalf("attempt 1 = %v, want 2s", got)
	}
}
