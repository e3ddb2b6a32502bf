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

package conn

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kiteran/userd/pkg/config"
	"github.com/kiteran/userd/pkg/consts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	mongoClient   *mongo.Client
	mongoDatabase *mongo.Database
	mongoOnce     sync.Once
)

func InitMongo(ctx context.Context, cfg *config.MongoConfig) error {
	var err error
	mongoOnce.Do(func() {
		timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, connErr := mongo.Connect(timeoutCtx, options.Client().ApplyURI(cfg.URI))
		if connErr != nil {
			err = fmt.Errorf("failed to connect to mongo: %w", connErr)
			return
		}

		if pingErr := client.Ping(timeoutCtx, nil); pingErr != nil {
			err = fmt.Errorf("failed to ping mongo: %w", pingErr)
			return
		}

		database := client.Database(cfg.Database)

		// The event feed is filtered by user and paged by object id.
		index := mongo.IndexModel{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "_id", Value: -1}},
		}
		if _, idxErr := database.Collection(consts.UserEventsCollection).
			Indexes().CreateOne(timeoutCtx, index); idxErr != nil {
			err = fmt.Errorf("failed to ensure event index: %w", idxErr)
			return
		}

		mongoClient = client
		mongoDatabase = database
	})
	return err
}

func GetMongoDatabase() *mongo.Database {
	if mongoDatabase == nil {
		panic("mongo not initialized, call InitMongo first")
	}
	return mongoDatabase
}

func GetEventCollection() *mongo.Collection {
	return GetMongoDatabase().Collection(consts.UserEventsCollection)
}

// CloseMongo disconnects the client, waiting at most five seconds for
// in-flight operations.
func CloseMongo() error {
	if mongoClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return mongoClient.Disconnect(ctx)
}
