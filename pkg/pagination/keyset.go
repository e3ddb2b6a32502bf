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

// Package pagination implements keyset (cursor) pagination over gorm
// queries and mongo collections, with encrypted opaque cursors for the
// relational side and raw object-id cursors for the document side.
package pagination

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Keyset pages a filtered gorm query by a unique integer key column,
// newest first. The base query must carry its model (via Model or
// Table) and any filters; the paginator derives fresh sessions from it
// for every statement, so the caller's query is never mutated.
//
// A Keyset is built per request and used for exactly one page:
//
//	page, err := pagination.NewKeyset(base, codec, "id", keyOf).
//		WithLimit(20).
//		WithToken(token).
//		Paginate(ctx, pagination.DirectionForward)
type Keyset[T any] struct {
	base   *gorm.DB
	codec  *Codec
	column string
	keyOf  func(T) int64
	limit  int
	token  string
}

func NewKeyset[T any](base *gorm.DB, codec *Codec, column string, keyOf func(T) int64) *Keyset[T] {
	return &Keyset[T]{
		base:   base,
		codec:  codec,
		column: column,
		keyOf:  keyOf,
		limit:  DefaultLimit,
	}
}

// WithLimit sets the page size. Values are taken as given; callers
// normalize user input with NormalizeLimit, and non-positive sizes are
// rejected at pagination time.
func (k *Keyset[T]) WithLimit(limit int) *Keyset[T] {
	k.limit = limit
	return k
}

// WithToken sets the opaque cursor the page request starts from. An
// empty token means "from the top".
func (k *Keyset[T]) WithToken(token string) *Keyset[T] {
	k.token = token
	return k
}

// Paginate dispatches to First, Next or Previous: no token yields the
// first page regardless of direction.
func (k *Keyset[T]) Paginate(ctx context.Context, dir Direction) (*Page[T], error) {
	if k.token == "" {
		return k.First(ctx)
	}
	if dir == DirectionBackward {
		return k.Previous(ctx)
	}
	return k.Next(ctx)
}

// First returns the newest page: rows ordered by key descending,
// bounded by the page size. An empty result is a valid page with both
// cursors absent.
func (k *Keyset[T]) First(ctx context.Context) (*Page[T], error) {
	if k.limit <= 0 {
		return nil, ErrInvalidLimit
	}

	items, err := k.fetch(ctx, nil, DirectionForward)
	if err != nil {
		return nil, err
	}
	return k.boundaries(ctx, items)
}

// Next returns the page strictly after the row the token points at:
// rows with a key below the decoded cursor, newest first.
func (k *Keyset[T]) Next(ctx context.Context) (*Page[T], error) {
	if k.limit <= 0 {
		return nil, ErrInvalidLimit
	}

	after, err := k.codec.Decode(k.token)
	if err != nil {
		return nil, err
	}

	items, err := k.fetch(ctx, &after, DirectionForward)
	if err != nil {
		return nil, err
	}
	return k.boundaries(ctx, items)
}

// Previous returns the page strictly before the row the token points
// at. When the whole filtered set is smaller than one page it falls
// back to First: such a set has no boundary to walk back across. The
// backward fetch runs ascending and is normalized to canonical order
// before boundary evaluation.
func (k *Keyset[T]) Previous(ctx context.Context) (*Page[T], error) {
	if k.limit <= 0 {
		return nil, ErrInvalidLimit
	}

	before, err := k.codec.Decode(k.token)
	if err != nil {
		return nil, err
	}

	total, err := Count(ctx, k.base, k.column)
	if err != nil {
		return nil, err
	}
	if total < int64(k.limit) {
		return k.First(ctx)
	}

	items, err := k.fetch(ctx, &before, DirectionBackward)
	if err != nil {
		return nil, err
	}
	return k.boundaries(ctx, items)
}

// fetch runs the main page query. bound, when present, is applied as
// an exclusive comparison in the direction's operator. Backward
// results come back ascending and are reversed here, so every caller
// of boundaries sees canonical (descending) order.
func (k *Keyset[T]) fetch(ctx context.Context, bound *int64, dir Direction) ([]T, error) {
	q := k.base.WithContext(ctx)
	if bound != nil {
		q = q.Where(fmt.Sprintf("%s %s ?", k.column, dir.operator()), *bound)
	}

	items := make([]T, 0, k.limit)
	err := q.Order(fmt.Sprintf("%s %s", k.column, dir.order())).
		Limit(k.limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	if dir == DirectionBackward {
		items = lo.Reverse(items)
	}
	return items, nil
}

// boundaries computes both cursors for a page already in canonical
// order. The previous cursor is set when the page's first element is
// not the dataset's first row; the next cursor only when the page is
// exactly full and its last element is not the dataset's last row.
// Probes are single-row lookups against the base filter, not counts.
func (k *Keyset[T]) boundaries(ctx context.Context, items []T) (*Page[T], error) {
	page := &Page[T]{Items: items}
	if len(items) == 0 {
		return page, nil
	}

	first := k.keyOf(items[0])
	edge, ok, err := k.edge(ctx, DirectionForward)
	if err != nil {
		return nil, err
	}
	if ok && edge != first {
		token, err := k.codec.Encode(first)
		if err != nil {
			return nil, err
		}
		page.PreviousCursor = &token
	}

	if len(items) == k.limit {
		last := k.keyOf(items[len(items)-1])
		edge, ok, err := k.edge(ctx, DirectionBackward)
		if err != nil {
			return nil, err
		}
		if ok && edge != last {
			token, err := k.codec.Encode(last)
			if err != nil {
				return nil, err
			}
			page.NextCursor = &token
		}
	}

	return page, nil
}

// edge probes the dataset's boundary key under the base filter: the
// first row in the direction's sort order, i.e. the canonical first
// row for forward and the canonical last row for backward.
func (k *Keyset[T]) edge(ctx context.Context, dir Direction) (int64, bool, error) {
	var keys []int64
	err := k.base.WithContext(ctx).
		Order(fmt.Sprintf("%s %s", k.column, dir.order())).
		Limit(1).
		Pluck(k.column, &keys).Error
	if err != nil {
		return 0, false, err
	}
	if len(keys) == 0 {
		return 0, false, nil
	}
	return keys[0], true, nil
}
