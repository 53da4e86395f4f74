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

package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexManager creates the indexes declared by registered collection
// models. Index creation is idempotent on the server side.
type IndexManager struct {
	db     *mongo.Database
	logger Logger
}

// NewIndexManager creates a manager for the given database handle.
func NewIndexManager(db *mongo.Database, logger Logger) *IndexManager {
	if logger == nil {
		logger = GetLogger()
	}
	return &IndexManager{db: db, logger: logger}
}

// EnsureIndexes walks registered models in priority order, creating
// their indexes. A failure on one collection aborts the pass.
func (m *IndexManager) EnsureIndexes(ctx context.Context) error {
	for _, model := range GetRegisteredModels() {
		if len(model.Indexes) == 0 {
			continue
		}
		coll := m.db.Collection(model.CollectionName)
		names, err := coll.Indexes().CreateMany(ctx, model.Indexes)
		if err != nil {
			return fmt.Errorf("failed to create indexes for collection %s: %w",
				model.CollectionName, err)
		}
		m.logger.Info("Ensured indexes on %s: %v", model.CollectionName, names)
	}
	return nil
}

// UniqueIndex builds a unique ascending index over the given fields.
// Backs uniqueness constraints that services also check before writes.
func UniqueIndex(fields ...string) mongo.IndexModel {
	keys := bson.D{}
	for _, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
	}
	return mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetUnique(true),
	}
}

// AscendingIndex builds a non-unique ascending index over the fields.
func AscendingIndex(fields ...string) mongo.IndexModel {
	keys := bson.D{}
	for _, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
	}
	return mongo.IndexModel{Keys: keys}
}
