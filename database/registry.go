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
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionModel declares a collection and the indexes it needs.
// Priority controls creation order, lower values first.
type CollectionModel struct {
	CollectionName string
	Indexes        []mongo.IndexModel
	Priority       int
}

// ModelRegistry collects declared collection models so indexes can be
// created in one pass after connecting.
type ModelRegistry struct {
	mu     sync.RWMutex
	models map[string]CollectionModel
}

// NewModelRegistry creates an empty registry.
func NewModelRegistry() *ModelRegistry {
	return &ModelRegistry{models: make(map[string]CollectionModel)}
}

// Register adds (or replaces) a collection model.
func (r *ModelRegistry) Register(model CollectionModel) {
	if model.CollectionName == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[model.CollectionName] = model
}

// Models returns registered models sorted by priority, then name.
func (r *ModelRegistry) Models() []CollectionModel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	models := make([]CollectionModel, 0, len(r.models))
	for _, m := range r.models {
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool {
		if models[i].Priority != models[j].Priority {
			return models[i].Priority < models[j].Priority
		}
		return models[i].CollectionName < models[j].CollectionName
	})
	return models
}

var defaultRegistry = NewModelRegistry()

// RegisterModel adds a collection model to the default registry.
// Typically called from package init functions.
func RegisterModel(model CollectionModel) {
	defaultRegistry.Register(model)
}

// GetRegisteredModels returns the default registry's models in
// creation order.
func GetRegisteredModels() []CollectionModel {
	return defaultRegistry.Models()
}
