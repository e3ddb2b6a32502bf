package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiteran/userd/pkg/config"
	"github.com/kiteran/userd/pkg/consts"
)

func TestThrottleBudgetSplitsBuckets(t *testing.T) {
	cfg := &config.RateLimitConfig{
		ReadLimit:          60,
		ReadWindowSeconds:  60,
		WriteLimit:         20,
		WriteWindowSeconds: 30,
	}

	tests := []struct {
		method string
		bucket string
		limit  int
		window time.Duration
	}{
		{http.MethodGet, consts.ThrottleBucketRead, 60, time.Minute},
		{http.MethodHead, consts.ThrottleBucketRead, 60, time.Minute},
		{http.MethodPost, consts.ThrottleBucketWrite, 20, 30 * time.Second},
		{http.MethodPatch, consts.ThrottleBucketWrite, 20, 30 * time.Second},
		{http.MethodDelete, consts.ThrottleBucketWrite, 20, 30 * time.Second},
	}

	for _, tt := range tests {
		bucket, limit, window := throttleBudget(tt.method, cfg)
		if bucket != tt.bucket || limit != tt.limit || window != tt.window {
			t.Errorf("%s: got (%s, %d, %s), want (%s, %d, %s)",
				tt.method, bucket, limit, window, tt.bucket, tt.limit, tt.window)
		}
	}
}

func TestThrottleKeyStableWithinWindow(t *testing.T) {
	window := time.Minute
	base := time.Unix(1_700_000_040, 0)

	first := throttleKey("10.0.0.1", consts.ThrottleBucketRead, base, window)
	second := throttleKey("10.0.0.1", consts.ThrottleBucketRead, base.Add(19*time.Second), window)
	if first != second {
		t.Errorf("keys differ within one window: %q vs %q", first, second)
	}

	next := throttleKey("10.0.0.1", consts.ThrottleBucketRead, base.Add(window), window)
	if next == first {
		t.Errorf("key did not roll over to the next window: %q", next)
	}

	if want := "throttle:10.0.0.1:read:28333334"; first != want {
		t.Errorf("key = %q, want %q", first, want)
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	window := time.Minute

	if got := retryAfterSeconds(time.Unix(1_700_000_040, 0), window); got != 60 {
		t.Errorf("at window start retry-after = %d, want 60", got)
	}
	if got := retryAfterSeconds(time.Unix(1_700_000_099, 0), window); got != 1 {
		t.Errorf("one second before rollover retry-after = %d, want 1", got)
	}
}

func TestThrottleDisabledPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)

	handler := ThrottleMiddleware(nil, func() *config.RateLimitConfig {
		return &config.RateLimitConfig{Enabled: false}
	})
	handler(c)

	if c.IsAborted() {
		t.Error("disabled throttle aborted the request")
	}
}
