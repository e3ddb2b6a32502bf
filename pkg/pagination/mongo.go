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

package pagination

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// documentSource is the slice of *mongo.Collection the pager needs.
// Kept narrow so tests can substitute fakes built from
// mongo.NewCursorFromDocuments and mongo.NewSingleResultFromDocument.
type documentSource interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
}

// DocumentPager pages a mongo collection by its object id, newest
// first. Cursors are raw hex object ids, not encrypted. The caller's
// filter map is copied before the id bound is applied, never mutated.
//
// Unlike Keyset, both directions fetch in descending order; a backward
// request simply bounds the window from below.
type DocumentPager[T any] struct {
	source documentSource
	filter bson.M
	keyOf  func(T) primitive.ObjectID
	limit  int
	token  string
}

func NewDocumentPager[T any](source documentSource, filter bson.M, keyOf func(T) primitive.ObjectID) *DocumentPager[T] {
	return &DocumentPager[T]{
		source: source,
		filter: filter,
		keyOf:  keyOf,
		limit:  DefaultLimit,
	}
}

func (p *DocumentPager[T]) WithLimit(limit int) *DocumentPager[T] {
	p.limit = limit
	return p
}

// WithToken sets the hex object id the page request starts from. An
// empty token means "from the top".
func (p *DocumentPager[T]) WithToken(token string) *DocumentPager[T] {
	p.token = token
	return p
}

// GetPage fetches one page in the given direction. The token, when
// present, becomes an exclusive bound on _id ($lt moving forward, $gt
// moving backward). After the fetch the pager probes for a row beyond
// each page edge with single find-one lookups: a previous cursor
// whenever something newer than the first item exists, a next cursor
// only when the page is exactly full and something older than the last
// item exists.
func (p *DocumentPager[T]) GetPage(ctx context.Context, dir Direction) (*Page[T], error) {
	if p.limit <= 0 {
		return nil, ErrInvalidLimit
	}

	filter := p.cloneFilter()
	if p.token != "" {
		id, err := primitive.ObjectIDFromHex(p.token)
		if err != nil {
			return nil, fmt.Errorf("%w: not an object id", ErrInvalidCursor)
		}
		filter["_id"] = bson.M{dir.mongoOperator(): id}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(p.limit))

	cur, err := p.source.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, p.limit)
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}

	page := &Page[T]{Items: items}
	if len(items) == 0 {
		return page, nil
	}

	first := p.keyOf(items[0])
	newer, err := p.exists(ctx, bson.M{"$gt": first})
	if err != nil {
		return nil, err
	}
	if newer {
		token := first.Hex()
		page.PreviousCursor = &token
	}

	if len(items) == p.limit {
		last := p.keyOf(items[len(items)-1])
		older, err := p.exists(ctx, bson.M{"$lt": last})
		if err != nil {
			return nil, err
		}
		if older {
			token := last.Hex()
			page.NextCursor = &token
		}
	}

	return page, nil
}

// exists probes for any document matching the base filter plus the
// given _id bound.
func (p *DocumentPager[T]) exists(ctx context.Context, bound bson.M) (bool, error) {
	probe := p.cloneFilter()
	probe["_id"] = bound

	err := p.source.FindOne(ctx, probe).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

func (p *DocumentPager[T]) cloneFilter() bson.M {
	clone := make(bson.M, len(p.filter)+1)
	for k, v := range p.filter {
		clone[k] = v
	}
	return clone
}

func (d Direction) mongoOperator() string {
	if d == DirectionBackward {
		return "$gt"
	}
	return "$lt"
}
