/*
Copyright © 2026 kiteran <kiteran@proton.me>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiteran/userd/pkg/config"
	"github.com/kiteran/userd/pkg/consts"
	"github.com/kiteran/userd/pkg/customerrors"
	"github.com/redis/go-redis/v9"
)

// ThrottleMiddleware rate-limits per client ip with fixed windows
// counted in redis. Reads and writes draw from separate buckets. The
// limits callback is consulted on every request so a config reload
// takes effect without a restart. When redis is unreachable the
// request is let through.
func ThrottleMiddleware(client *redis.Client, limits func() *config.RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := limits()
		if cfg == nil || !cfg.Enabled {
			c.Next()
			return
		}

		now := time.Now()
		bucket, limit, window := throttleBudget(c.Request.Method, cfg)
		key := throttleKey(c.ClientIP(), bucket, now, window)

		count, err := client.Incr(c, key).Result()
		if err != nil {
			slog.WarnContext(c, "throttle counter unavailable, letting request through", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := client.Expire(c, key, window).Err(); err != nil {
				slog.WarnContext(c, "failed to expire throttle counter", "error", err, "key", key)
			}
		}

		if count > int64(limit) {
			c.Header(consts.HeaderRetryAfter, strconv.FormatInt(retryAfterSeconds(now, window), 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": customerrors.ErrTooManyRequests.Message,
			})
			return
		}

		c.Next()
	}
}

func throttleBudget(method string, cfg *config.RateLimitConfig) (string, int, time.Duration) {
	if method == http.MethodGet || method == http.MethodHead {
		return consts.ThrottleBucketRead, cfg.ReadLimit, time.Duration(cfg.ReadWindowSeconds) * time.Second
	}
	return consts.ThrottleBucketWrite, cfg.WriteLimit, time.Duration(cfg.WriteWindowSeconds) * time.Second
}

// throttleKey buckets time into fixed windows, so all requests inside
// the same window share one counter.
func throttleKey(ip, bucket string, now time.Time, window time.Duration) string {
	index := now.Unix() / int64(window/time.Second)
	return fmt.Sprintf(consts.ThrottleKeyFormat, ip, bucket, index)
}

// retryAfterSeconds is the time left until the current window rolls
// over.
func retryAfterSeconds(now time.Time, window time.Duration) int64 {
	windowSeconds := int64(window / time.Second)
	return windowSeconds - now.Unix()%windowSeconds
}
