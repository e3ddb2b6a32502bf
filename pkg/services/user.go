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

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kiteran/userd/pkg/cache"
	"github.com/kiteran/userd/pkg/config"
	"github.com/kiteran/userd/pkg/conn"
	"github.com/kiteran/userd/pkg/consts"
	"github.com/kiteran/userd/pkg/customerrors"
	"github.com/kiteran/userd/pkg/models"
	"github.com/kiteran/userd/pkg/pagination"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/gorm"
)

type UserService struct {
	db     *gorm.DB
	codec  *pagination.Codec
	cache  *cache.Cache[models.UserDto]
	events *EventService
}

var (
	userService *UserService
	userOnce    sync.Once
)

func GetUserService() *UserService {
	userOnce.Do(func() {
		cfg := config.GetConfigManager().GetConfig()

		codec, err := pagination.NewCodec(cfg.Pagination.Secret)
		if err != nil {
			panic(fmt.Sprintf("cannot build cursor codec: %v", err))
		}

		var userCache *cache.Cache[models.UserDto]
		if cfg.Cache.Enabled {
			userCache = cache.New[models.UserDto](conn.GetRedis(), time.Duration(cfg.Cache.TTLSeconds)*time.Second)
		}

		userService = NewUserService(conn.GetDB(), codec, userCache, GetEventService())
	})
	return userService
}

func NewUserService(db *gorm.DB, codec *pagination.Codec, userCache *cache.Cache[models.UserDto], events *EventService) *UserService {
	return &UserService{
		db:     db,
		codec:  codec,
		cache:  userCache,
		events: events,
	}
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.UserDto, error) {
	cacheKey := fmt.Sprintf(consts.UserCacheKeyFormat, id)
	cached, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		slog.WarnContext(ctx, "user cache read failed", "error", err, "userId", id)
	} else if cached != nil {
		return cached, nil
	}

	user, err := gorm.G[models.User](s.db).
		Where("id = ? AND deleted_at IS NULL", id).
		First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerrors.ErrUserNotFound
		}
		slog.ErrorContext(ctx, "failed to find user", "error", err, "userId", id)
		return nil, err
	}

	dto := user.ToDto()
	if err := s.cache.Set(ctx, cacheKey, dto); err != nil {
		slog.WarnContext(ctx, "user cache write failed", "error", err, "userId", id)
	}
	return dto, nil
}

func (s *UserService) ListUsers(ctx context.Context, limit int, token string, dir pagination.Direction) (*pagination.Page[models.UserDto], error) {
	base := s.db.Model(&models.User{}).Where("deleted_at IS NULL")
	page, err := pagination.NewKeyset(base, s.codec, "id", func(u models.User) int64 { return u.ID }).
		WithLimit(limit).
		WithToken(token).
		Paginate(ctx, dir)
	if err != nil {
		switch {
		case errors.Is(err, pagination.ErrInvalidCursor):
			return nil, customerrors.ErrInvalidCursor
		case errors.Is(err, pagination.ErrInvalidLimit):
			return nil, customerrors.ErrInvalidParams
		}
		slog.ErrorContext(ctx, "failed to list users", "error", err)
		return nil, err
	}

	return &pagination.Page[models.UserDto]{
		Items: lo.Map(page.Items, func(u models.User, _ int) models.UserDto {
			return *u.ToDto()
		}),
		PreviousCursor: page.PreviousCursor,
		NextCursor:     page.NextCursor,
	}, nil
}

func (s *UserService) CreateUser(ctx context.Context, dto *models.CreateUserDto) (*models.UserDto, error) {
	user := &models.User{
		Name:    dto.Name,
		Email:   dto.Email,
		Profile: dto.Profile,
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := gorm.G[models.User](tx).
			Where("email = ? AND deleted_at IS NULL", dto.Email).
			Count(ctx, "id")
		if err != nil {
			return err
		}
		if taken > 0 {
			return customerrors.ErrEmailExists
		}

		if err := gorm.G[models.User](tx).Create(ctx, user); err != nil {
			// The unique index can still fire under concurrent creates.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return customerrors.ErrEmailExists
			}
			return err
		}
		return nil
	}); err != nil {
		if customerrors.GetBusinessError(err) == nil {
			slog.ErrorContext(ctx, "failed to create user", "error", err)
		}
		return nil, err
	}

	s.events.Record(ctx, user.ID, consts.ActionUserCreated, bson.M{"name": user.Name, "email": user.Email})
	return user.ToDto(), nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, dto *models.UpdateUserDto) (*models.UserDto, error) {
	var result *models.UserDto
	changedFields := make([]string, 0, 3)

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := gorm.G[models.User](tx).
			Where("id = ? AND deleted_at IS NULL", id).
			First(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return customerrors.ErrUserNotFound
			}
			return err
		}

		updates := map[string]any{}
		if dto.Name != nil && *dto.Name != user.Name {
			updates["name"] = *dto.Name
			changedFields = append(changedFields, "name")
		}
		if dto.Email != nil && *dto.Email != user.Email {
			taken, err := gorm.G[models.User](tx).
				Where("email = ? AND id != ? AND deleted_at IS NULL", *dto.Email, id).
				Count(ctx, "id")
			if err != nil {
				return err
			}
			if taken > 0 {
				return customerrors.ErrEmailExists
			}
			updates["email"] = *dto.Email
			changedFields = append(changedFields, "email")
		}
		if dto.Profile != nil {
			updates["profile"] = *dto.Profile
			changedFields = append(changedFields, "profile")
		}

		if len(updates) == 0 {
			result = user.ToDto()
			return nil
		}

		if err := tx.Model(&models.User{}).
			Where("id = ? AND deleted_at IS NULL", id).
			Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return customerrors.ErrEmailExists
			}
			return err
		}

		fresh, err := gorm.G[models.User](tx).
			Where("id = ? AND deleted_at IS NULL", id).
			First(ctx)
		if err != nil {
			return err
		}
		result = fresh.ToDto()
		return nil
	}); err != nil {
		if customerrors.GetBusinessError(err) == nil {
			slog.ErrorContext(ctx, "failed to update user", "error", err, "userId", id)
		}
		return nil, err
	}

	if len(changedFields) > 0 {
		if err := s.cache.Delete(ctx, fmt.Sprintf(consts.UserCacheKeyFormat, id)); err != nil {
			slog.WarnContext(ctx, "user cache invalidation failed", "error", err, "userId", id)
		}
		s.events.Record(ctx, id, consts.ActionUserUpdated, bson.M{"fields": changedFields})
	}
	return result, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	var email string

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := gorm.G[models.User](tx).
			Where("id = ? AND deleted_at IS NULL", id).
			First(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return customerrors.ErrUserNotFound
			}
			return err
		}
		email = user.Email

		if _, err := gorm.G[models.User](tx).
			Where("id = ? AND deleted_at IS NULL", id).
			Update(ctx, "deleted_at", time.Now()); err != nil {
			return err
		}
		return nil
	}); err != nil {
		if customerrors.GetBusinessError(err) == nil {
			slog.ErrorContext(ctx, "failed to delete user", "error", err, "userId", id)
		}
		return err
	}

	if err := s.cache.Delete(ctx, fmt.Sprintf(consts.UserCacheKeyFormat, id)); err != nil {
		slog.WarnContext(ctx, "user cache invalidation failed", "error", err, "userId", id)
	}
	s.events.Record(ctx, id, consts.ActionUserDeleted, bson.M{"email": email})
	return nil
}
