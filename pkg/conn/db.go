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
	"log/slog"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/kiteran/userd/pkg/config"
	"github.com/kiteran/userd/pkg/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	db     *gorm.DB
	dbOnce sync.Once
)

func InitDB(ctx context.Context, cfg *config.DatabaseConfig) error {
	var err error
	dbOnce.Do(func() {
		timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		var dialector gorm.Dialector
		switch cfg.Driver {
		case "sqlite":
			dialector = sqlite.Open(cfg.Path)
		default:
			dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
				cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database)
			dialector = postgres.Open(dsn)
		}

		var dbConn *gorm.DB
		connErr := retry.Do(func() error {
			var openErr error
			dbConn, openErr = gorm.Open(dialector, &gorm.Config{TranslateError: true})
			return openErr
		},
			retry.Context(timeoutCtx),
			retry.Attempts(5),
			retry.Delay(2*time.Second),
			retry.DelayType(retry.FixedDelay),
			retry.LastErrorOnly(true),
			retry.OnRetry(func(attempt uint, err error) {
				slog.WarnContext(timeoutCtx, "database not reachable yet, retrying", "attempt", attempt+1, "error", err)
			}),
		)
		if connErr != nil {
			err = connErr
			return
		}

		if migrateErr := dbConn.WithContext(timeoutCtx).AutoMigrate(&models.User{}); migrateErr != nil {
			err = migrateErr
			return
		}
		db = dbConn
	})
	return err
}

func GetDB() *gorm.DB {
	if db == nil {
		panic("database not initialized, call InitDB first")
	}
	return db
}
