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
	"errors"
	"fmt"
	"time"

	"github.com/tomoncle/manta/types"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type baseRepositoryImpl[T any] struct {
	coll *mongo.Collection
}

// NewRepository returns a generic repository bound to one collection of
// the provided database.
func NewRepository[T any](db *mongo.Database, collection string) Repository[T] {
	return &baseRepositoryImpl[T]{coll: db.Collection(collection)}
}

// NewCollectionRepository returns a generic repository over an existing
// collection handle.
func NewCollectionRepository[T any](coll *mongo.Collection) Repository[T] {
	return &baseRepositoryImpl[T]{coll: coll}
}

func (r *baseRepositoryImpl[T]) Collection() *mongo.Collection { return r.coll }

func (r *baseRepositoryImpl[T]) List(ctx context.Context, req *types.PageRequest) (int64, []*T, error) {
	filter := buildFilter(req.GetFilter())
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, nil, err
	}

	opts := options.Find()
	if req.Paginated() {
		opts.SetSkip(int64(req.GetOffset())).SetLimit(int64(req.GetSize()))
	}
	if orders := req.GetOrders(); len(orders) > 0 {
		opts.SetSort(buildSort(orders))
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return 0, nil, err
	}
	entities := make([]*T, 0)
	if err := cur.All(ctx, &entities); err != nil {
		return 0, nil, err
	}
	return total, entities, nil
}

func (r *baseRepositoryImpl[T]) Get(ctx context.Context, id primitive.ObjectID) (*T, bool, error) {
	return r.Search(ctx, types.Filter{"_id": id})
}

func (r *baseRepositoryImpl[T]) Search(ctx context.Context, filter types.Filter) (*T, bool, error) {
	var entity T
	err := r.coll.FindOne(ctx, buildFilter(filter)).Decode(&entity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &entity, true, nil
}

func (r *baseRepositoryImpl[T]) SearchAll(ctx context.Context, filter types.Filter) ([]*T, error) {
	cur, err := r.coll.Find(ctx, buildFilter(filter))
	if err != nil {
		return nil, err
	}
	entities := make([]*T, 0)
	if err := cur.All(ctx, &entities); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context, filter types.Filter) (int64, error) {
	return r.coll.CountDocuments(ctx, buildFilter(filter))
}

func (r *baseRepositoryImpl[T]) Create(ctx context.Context, entity *T) (*T, error) {
	doc, err := toDocument(entity)
	if err != nil {
		return nil, err
	}
	if _, ok := doc["created_at"]; !ok {
		doc["created_at"] = time.Now().UTC()
	}
	delete(doc, "updated_at")

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("repository: unexpected inserted id type %T", res.InsertedID)
	}
	created, found, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		// The insert succeeded but the re-read missed; let the caller
		// retry instead of pretending the write is observable.
		return nil, fmt.Errorf("repository: created document %s is not readable", id.Hex())
	}
	return created, nil
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, id primitive.ObjectID, entity *T) (*T, bool, error) {
	doc, err := toDocument(entity)
	if err != nil {
		return nil, false, err
	}
	delete(doc, "_id")
	delete(doc, "created_at")
	doc["updated_at"] = time.Now().UTC()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": doc})
	if err != nil {
		return nil, false, err
	}
	if res.MatchedCount == 0 {
		return nil, false, nil
	}
	return r.Get(ctx, id)
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

// toDocument converts an entity into a mutable BSON document via a
// marshal round trip, the single conversion point between typed entities
// and stored documents.
func toDocument(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func buildFilter(f types.Filter) bson.M {
	out := bson.M{}
	for k, v := range f {
		out[k] = v
	}
	return out
}

func buildSort(orders []types.Sort) bson.D {
	sort := bson.D{}
	for _, o := range orders {
		sort = append(sort, bson.E{Key: o.Key, Value: o.Order.Number()})
	}
	return sort
}
