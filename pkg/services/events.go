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
	"log/slog"
	"sync"
	"time"

	"github.com/kiteran/userd/pkg/conn"
	"github.com/kiteran/userd/pkg/customerrors"
	"github.com/kiteran/userd/pkg/models"
	"github.com/kiteran/userd/pkg/pagination"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// eventCollection is the slice of *mongo.Collection the event service
// needs, so tests can substitute a fake.
type eventCollection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
}

type EventService struct {
	collection eventCollection
}

var (
	eventService *EventService
	eventOnce    sync.Once
)

func GetEventService() *EventService {
	eventOnce.Do(func() {
		eventService = NewEventService(conn.GetEventCollection())
	})
	return eventService
}

func NewEventService(collection eventCollection) *EventService {
	return &EventService{
		collection: collection,
	}
}

// Record appends one entry to the audit trail. Failures are logged and
// swallowed: the write that triggered the event has already committed,
// so the trail is best-effort by contract.
func (s *EventService) Record(ctx context.Context, userID int64, action string, detail bson.M) {
	if s == nil || s.collection == nil {
		return
	}

	event := &models.UserEvent{
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.collection.InsertOne(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to record user event", "error", err, "userId", userID, "action", action)
	}
}

// ListEvents pages one user's audit trail, newest first. The returned
// cursors are raw object ids.
func (s *EventService) ListEvents(ctx context.Context, userID int64, limit int, token string, dir pagination.Direction) (*pagination.Page[models.UserEventDto], error) {
	page, err := pagination.NewDocumentPager(s.collection, bson.M{"user_id": userID}, func(e models.UserEvent) primitive.ObjectID { return e.ID }).
		WithLimit(limit).
		WithToken(token).
		GetPage(ctx, dir)
	if err != nil {
		switch {
		case errors.Is(err, pagination.ErrInvalidCursor):
			return nil, customerrors.ErrInvalidCursor
		case errors.Is(err, pagination.ErrInvalidLimit):
			return nil, customerrors.ErrInvalidParams
		}
		slog.ErrorContext(ctx, "failed to list user events", "error", err, "userId", userID)
		return nil, err
	}

	return &pagination.Page[models.UserEventDto]{
		Items: lo.Map(page.Items, func(e models.UserEvent, _ int) models.UserEventDto {
			return *e.ToDto()
		}),
		PreviousCursor: page.PreviousCursor,
		NextCursor:     page.NextCursor,
	}, nil
}
