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
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestModelRegistryOrdering(t *testing.T) {
	r := NewModelRegistry()
	r.Register(CollectionModel{CollectionName: "orders", Priority: 2})
	r.Register(CollectionModel{CollectionName: "users", Priority: 1})
	r.Register(CollectionModel{CollectionName: "accounts", Priority: 1})

	models := r.Models()
	if len(models) != 3 {
		t.Fatalf("models = %d, want 3", len(models))
	}
	got := []string{models[0].CollectionName, models[1].CollectionName, models[2].CollectionName}
	want := []string{"accounts", "users", "orders"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestModelRegistryReplaces(t *testing.T) {
	r := NewModelRegistry()
	r.Register(CollectionModel{CollectionName: "users", Priority: 5})
	r.Register(CollectionModel{CollectionName: "users", Priority: 1})
	models := r.Models()
	if len(models) != 1 {
		t.Fatalf("models = %d, want 1", len(models))
	}
	if models[0].Priority != 1 {
		t.Fatalf("priority = %d, want 1", models[0].Priority)
	}
}

func TestModelRegistryIgnoresUnnamed(t *testing.T) {
	r := NewModelRegistry()
	r.Register(CollectionModel{})
	if len(r.Models()) != 0 {
		t.Fatal("unnamed model must be ignored")
	}
}

func TestUniqueIndex(t *testing.T) {
	idx := UniqueIndex("email")
	keys, ok := idx.Keys.(bson.D)
	if !ok || len(keys) != 1 {
		t.Fatalf("keys = %v", idx.Keys)
	}
	if keys[0].Key != "email" || keys[0].Value != 1 {
		t.Fatalf("key = %+v", keys[0])
	}
	if idx.Options == nil || idx.Options.Unique == nil || !*idx.Options.Unique {
		t.Fatal("index must be unique")
	}
}

func TestAscendingIndexCompound(t *testing.T) {
	idx := AscendingIndex("tenant", "name")
	keys := idx.Keys.(bson.D)
	if len(keys) != 2 {
		t.Fatalf("keys = %d, want 2", len(keys))
	}
	if keys[0].Key != "tenant" || keys[1].Key != "name" {
		t.Fatalf("keys = %+v", keys)
	}
	if idx.Options != nil && idx.Options.Unique != nil && *idx.Options.Unique {
		t.Fatal("index must not be unique")
	}
}
