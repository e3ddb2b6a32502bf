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

package routes

import (
	"net/http"
	"regexp"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type V1Routes struct {
	userRoutes *UserRoutes
}

var (
	v1Routes *V1Routes
	v1Once   sync.Once
)

func GetV1Routes() *V1Routes {
	v1Once.Do(func() {
		v1Routes = &V1Routes{
			userRoutes: GetUserRoutes(),
		}
	})
	return v1Routes
}

func (r *V1Routes) RegisterRoutes(routerGroup *gin.RouterGroup) error {
	// Names may carry any printable text but no control characters.
	nameRegex := regexp.MustCompile(`^[^\x00-\x1F\x7F]+$`)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return nameRegex.MatchString(fl.Field().String())
		}); err != nil {
			return err
		}
	}

	r.userRoutes.RegisterRoutes(routerGroup)
	return nil
}

// Healthz answers liveness probes. It is registered on the engine
// directly so it bypasses the api middleware chain.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
