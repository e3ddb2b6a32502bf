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
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kiteran/userd/pkg/consts"
)

// RequestIDMiddleware tags every request with an id, honoring one the
// caller already sent, and echoes it back in the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(consts.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(consts.ContextKeyRequestID, id)
		c.Header(consts.HeaderRequestID, id)
		c.Next()
	}
}
