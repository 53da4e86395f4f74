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

package repository

import (
	"context"

	"github.com/tomoncle/manta/types"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CrudRepository defines basic CRUD operations for a generic entity type.
//
// Absence is not an error at this layer: point lookups report it through
// the bool return, Delete through false, SearchAll through an empty slice.
// Callers decide what absence means.
type CrudRepository[T any] interface {
	// Get retrieves a single entity by identity.
	Get(ctx context.Context, id primitive.ObjectID) (*T, bool, error)

	// Search returns the first entity matching the filter.
	Search(ctx context.Context, filter types.Filter) (*T, bool, error)

	// SearchAll returns every entity matching the filter, possibly none.
	SearchAll(ctx context.Context, filter types.Filter) ([]*T, error)

	// Count returns the cardinality of the filter match.
	Count(ctx context.Context, filter types.Filter) (int64, error)

	// Create inserts the entity and re-reads the stored record, so the
	// result reflects server-assigned defaults.
	Create(ctx context.Context, entity *T) (*T, error)

	// Update replaces the full field set of the identified entity,
	// excluding identity and creation timestamp, then re-reads it.
	Update(ctx context.Context, id primitive.ObjectID, entity *T) (*T, bool, error)

	// Delete removes the identified entity; true iff one record went away.
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// PageQueryRepository defines filtered listing with optional pagination.
type PageQueryRepository[T any] interface {
	// List returns the total count over the full filter and the entities
	// of the requested page. A nil or unpaginated request returns every
	// match.
	List(ctx context.Context, req *types.PageRequest) (int64, []*T, error)
}

// Repository combines CRUD, pagination, and exposes the underlying
// collection handle for advanced use cases such as nested sub-document
// repositories.
type Repository[T any] interface {
	CrudRepository[T]
	PageQueryRepository[T]
	Collection() *mongo.Collection
}

// NestedRepository operates on one array field of a parent document,
// treating its elements as embedded sub-records. Children have no storage
// location of their own, so every mutation is a guarded array mutation on
// the parent document.
type NestedRepository[E any] interface {
	// List unwinds the array field of the matching parent, optionally
	// sorting and capping the unwound elements, and returns them in
	// order. A missing parent or field yields an empty slice.
	List(ctx context.Context, parentID primitive.ObjectID, sort []types.Sort, limit int64) ([]E, error)

	// Count returns the number of elements in the parent's array field,
	// zero when nothing matches.
	Count(ctx context.Context, parentID primitive.ObjectID) (int64, error)

	// Create appends value to the array field. The value must be a
	// document, string, or integer; anything else fails with
	// ErrUnsupportedElement. The bool reports whether a parent matched.
	Create(ctx context.Context, parentID primitive.ObjectID, value interface{}) (*E, bool, error)

	// Get projects the single array element with the given nested
	// identity out of the matching parent.
	Get(ctx context.Context, parentID, nestedID primitive.ObjectID, extra types.Filter) (*E, bool, error)

	// Update applies a field-level partial replace to the first array
	// element matching the nested identity, leaving siblings untouched,
	// and returns the element post-write.
	Update(ctx context.Context, parentID, nestedID primitive.ObjectID, updates types.Document, opts *NestedUpdateOptions) (*E, bool, error)

	// Remove pulls the element with the given nested identity from the
	// array field; true iff a removal occurred.
	Remove(ctx context.Context, parentID, nestedID primitive.ObjectID, extra types.Filter) (bool, error)
}

// NestedUpdateOptions carries the optional constraints of a nested update.
type NestedUpdateOptions struct {
	// Filter adds extra exact-match constraints on the parent document.
	Filter types.Filter
	// Upsert inserts the parent when nothing matches. Positional-match
	// semantics do not apply to the inserted document; this mirrors the
	// store's upsert behavior and is rarely what callers want.
	Upsert bool
}
