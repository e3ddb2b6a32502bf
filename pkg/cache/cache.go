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

// Package cache is a thin typed layer over redis for read-through
// caching of single entities.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// Cache stores values of one type under caller-provided keys. A nil
// *Cache is valid and behaves as an always-miss no-op, which is how a
// disabled cache is represented.
type Cache[T any] struct {
	rc  *redis.Client
	ttl time.Duration
}

func New[T any](rc *redis.Client, ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		rc:  rc,
		ttl: ttl,
	}
}

// Get returns the cached value, or (nil, nil) on a miss.
func (c *Cache[T]) Get(ctx context.Context, key string) (*T, error) {
	if c == nil || c.rc == nil {
		return nil, nil
	}

	result, err := c.rc.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var value T
	if err := sonic.UnmarshalString(result, &value); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &value, nil
}

func (c *Cache[T]) Set(ctx context.Context, key string, value *T) error {
	if c == nil || c.rc == nil {
		return nil
	}

	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	if err := c.rc.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

func (c *Cache[T]) Delete(ctx context.Context, key string) error {
	if c == nil || c.rc == nil {
		return nil
	}

	if err := c.rc.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}
