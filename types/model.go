/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Model is the base record shape shared by all persisted entities.
// Domain structs embed it to gain an identity and server-populated
// timestamps:
//
//	type User struct {
//	    types.Model `bson:",inline"`
//	    Email       string `bson:"email,omitempty" json:"email"`
//	}
//
// The ID is assigned on insert when left zero and never changes afterwards.
// CreatedAt is stamped once at creation; UpdatedAt is stamped on every
// update.
type Model struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CreatedAt time.Time          `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt *time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// GetID returns the entity identity.
func (m Model) GetID() primitive.ObjectID { return m.ID }

// Entity is satisfied by any struct that embeds Model.
type Entity interface {
	GetID() primitive.ObjectID
}
