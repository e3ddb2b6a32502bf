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

package consts

// Redis key formats
const (
	// UserCacheKeyFormat takes the user id.
	UserCacheKeyFormat = "user:%d"

	// ThrottleKeyFormat takes client ip, bucket name and window number.
	ThrottleKeyFormat = "throttle:%s:%s:%d"
)

// Throttle buckets
const (
	ThrottleBucketRead  = "read"
	ThrottleBucketWrite = "write"
)

// Audit trail actions
const (
	ActionUserCreated = "user.created"
	ActionUserUpdated = "user.updated"
	ActionUserDeleted = "user.deleted"
)

// Mongo collections
const (
	UserEventsCollection = "user_events"
)

// HTTP headers
const (
	HeaderRequestID  = "X-Request-ID"
	HeaderRetryAfter = "Retry-After"
)

// Gin context keys
const (
	ContextKeyRequestID = "requestId"
)
