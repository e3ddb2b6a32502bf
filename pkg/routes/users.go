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
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/kiteran/userd/pkg/config"
	"github.com/kiteran/userd/pkg/customerrors"
	"github.com/kiteran/userd/pkg/models"
	"github.com/kiteran/userd/pkg/pagination"
	"github.com/kiteran/userd/pkg/services"
	"github.com/kiteran/userd/pkg/utils/response"
)

type UserRoutes struct {
	userService  *services.UserService
	eventService *services.EventService
}

var (
	userRoutes     *UserRoutes
	userRoutesOnce sync.Once
)

func GetUserRoutes() *UserRoutes {
	userRoutesOnce.Do(func() {
		userRoutes = &UserRoutes{
			userService:  services.GetUserService(),
			eventService: services.GetEventService(),
		}
	})
	return userRoutes
}

func (r *UserRoutes) RegisterRoutes(router *gin.RouterGroup) {
	userGroup := router.Group("/users")
	{
		userGroup.GET("", r.ListUsers)
		userGroup.POST("", r.CreateUser)
		userGroup.GET("/:id", r.GetUser)
		userGroup.PATCH("/:id", r.UpdateUser)
		userGroup.DELETE("/:id", r.DeleteUser)
		userGroup.GET("/:id/events", r.ListUserEvents)
	}
}

func (r *UserRoutes) ListUsers(c *gin.Context) {
	var query pagination.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Failed(c, customerrors.ErrInvalidParams)
		return
	}

	dir, err := pagination.ParseDirection(query.Direction)
	if err != nil {
		response.Failed(c, customerrors.ErrInvalidParams)
		return
	}

	limits := config.GetConfigManager().GetConfig().Pagination
	query.Normalize(limits.DefaultLimit, limits.MaxLimit)

	page, err := r.userService.ListUsers(c, query.Limit, query.Cursor, dir)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, page)
}

func (r *UserRoutes) CreateUser(c *gin.Context) {
	var dto models.CreateUserDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Failed(c, customerrors.ErrInvalidParams)
		return
	}

	user, err := r.userService.CreateUser(c, &dto)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.Created(c, user)
}

func (r *UserRoutes) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Failed(c, customerrors.ErrInvalidParams)
		return
	}

	user, err := r.userService.GetUser(c, id)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, user)
}

func (r *UserRoutes) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Failed(c, customerrors.ErrInvalidParams)
		return
	}

	var dto models.UpdateUserDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Failed(c, customerrors.ErrInvalidParams)
		return
	}

	user, err := r.userService.UpdateUser(c, id, &dto)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, user)
}

func (r *UserRoutes) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Failed(c, customerrors.ErrInvalidParams)
		return
	}

	if err := r.userService.DeleteUser(c, id); err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, nil)
}

func (r *UserRoutes) ListUserEvents(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Failed(c, customerrors.ErrInvalidParams)
		return
	}

	var query pagination.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Failed(c, customerrors.ErrInvalidParams)
		return
	}

	dir, err := pagination.ParseDirection(query.Direction)
	if err != nil {
		response.Failed(c, customerrors.ErrInvalidParams)
		return
	}

	limits := config.GetConfigManager().GetConfig().Pagination
	query.Normalize(limits.DefaultLimit, limits.MaxLimit)

	// The trail of an unknown user is a 404, not an empty page.
	if _, err := r.userService.GetUser(c, id); err != nil {
		response.Failed(c, err)
		return
	}

	page, err := r.eventService.ListEvents(c, id, query.Limit, query.Cursor, dir)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, page)
}
