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
	"log/slog"

	"github.com/kiteran/userd/pkg/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type sampleUser struct {
	Name    string
	Email   string
	Profile string
}

var sampleUsers = []sampleUser{
	{Name: "Ada Lovelace", Email: "ada@example.com", Profile: `{"title":"analyst","location":"London"}`},
	{Name: "Alan Turing", Email: "alan@example.com", Profile: `{"title":"cryptographer","location":"Bletchley"}`},
	{Name: "Grace Hopper", Email: "grace@example.com", Profile: `{"title":"rear admiral","location":"Arlington"}`},
	{Name: "Edsger Dijkstra", Email: "edsger@example.com", Profile: `{"title":"professor","location":"Austin"}`},
	{Name: "Barbara Liskov", Email: "barbara@example.com", Profile: `{"title":"professor","location":"Cambridge"}`},
	{Name: "Donald Knuth", Email: "donald@example.com", Profile: `{"title":"professor emeritus","location":"Stanford"}`},
	{Name: "Margaret Hamilton", Email: "margaret@example.com", Profile: `{"title":"director","location":"Cambridge"}`},
	{Name: "Dennis Ritchie", Email: "dennis@example.com", Profile: `{"title":"researcher","location":"Murray Hill"}`},
	{Name: "Ken Thompson", Email: "ken@example.com", Profile: `{"title":"researcher","location":"Murray Hill"}`},
	{Name: "Frances Allen", Email: "frances@example.com", Profile: `{"title":"fellow","location":"Yorktown Heights"}`},
	{Name: "Tony Hoare", Email: "tony@example.com", Profile: `{"title":"researcher","location":"Cambridge"}`},
	{Name: "Niklaus Wirth", Email: "niklaus@example.com", Profile: `{"title":"professor","location":"Zurich"}`},
}

// SeedSampleUsers inserts a fixed user set when the table is empty, so
// debug runs have a few pages to walk through.
func SeedSampleUsers(ctx context.Context) error {
	if err := GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("deleted_at IS NULL").
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		for _, su := range sampleUsers {
			user := &models.User{
				Name:    su.Name,
				Email:   su.Email,
				Profile: datatypes.JSON(su.Profile),
			}
			if err := tx.Create(user).Error; err != nil {
				return err
			}
			slog.InfoContext(ctx, "created sample user", "name", su.Name, "email", su.Email)
		}
		return nil
	}); err != nil {
		slog.ErrorContext(ctx, "failed to seed sample users", "error", err)
		return err
	}
	return nil
}
