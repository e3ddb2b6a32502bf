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

	"gorm.io/datatypes"
)

type User struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	Name      string         `gorm:"type:varchar(255);not null;index"`
	Email     string         `gorm:"type:varchar(320);not null;uniqueIndex"`
	Profile   datatypes.JSON `gorm:"column:profile"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt *time.Time
}

func (User) TableName() string {
	return "users"
}

func (m *User) ToDto() *UserDto {
	return &UserDto{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Profile:   m.Profile,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type CreateUserDto struct {
	Name    string         `json:"name" binding:"required,max=64,username"`
	Email   string         `json:"email" binding:"required,email,max=320"`
	Profile datatypes.JSON `json:"profile,omitempty"`
}

// UpdateUserDto carries a partial update; nil fields are left as they
// are on the stored user.
type UpdateUserDto struct {
	Name    *string         `json:"name,omitempty" binding:"omitempty,min=1,max=64,username"`
	Email   *string         `json:"email,omitempty" binding:"omitempty,email,max=320"`
	Profile *datatypes.JSON `json:"profile,omitempty"`
}

type UserDto struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Profile   datatypes.JSON `json:"profile,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
