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

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserEvent is one entry of the user audit trail, stored in mongo.
// The object id doubles as the pagination key for the event feed.
type UserEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    int64              `bson:"user_id"`
	Action    string             `bson:"action"`
	Detail    bson.M             `bson:"detail,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (e *UserEvent) ToDto() *UserEventDto {
	return &UserEventDto{
		ID:        e.ID.Hex(),
		UserID:    e.UserID,
		Action:    e.Action,
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt,
	}
}

type UserEventDto struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	Action    string    `json:"action"`
	Detail    bson.M    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
