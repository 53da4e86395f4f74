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
	"reflect"

	apperrors "github.com/tomoncle/manta/errors"
	"github.com/tomoncle/manta/types"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrUnsupportedElement rejects nested element payloads outside the
// supported value union. It is the bad-request invalid-element kind, so
// callers can surface it without translation.
var ErrUnsupportedElement = apperrors.ErrInvalidElement.WithDetail(
	"element value must be a document, string, or integer")

type nestedRepositoryImpl[E any] struct {
	coll  *mongo.Collection
	field string
}

// NewNested returns a repository over one array field of the parent
// repository's documents. The element type and field are fixed at
// construction; each call then addresses a single parent document.
func NewNested[E any](parent interface{ Collection() *mongo.Collection }, field string) NestedRepository[E] {
	return &nestedRepositoryImpl[E]{coll: parent.Collection(), field: field}
}

func (n *nestedRepositoryImpl[E]) List(ctx context.Context, parentID primitive.ObjectID, sort []types.Sort, limit int64) ([]E, error) {
	cur, err := n.coll.Aggregate(ctx, buildNestedPipeline(parentID, n.field, sort, limit, true))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		return []E{}, cur.Err()
	}
	arr, ok := cur.Current.Lookup(n.field).ArrayOK()
	if !ok {
		return []E{}, nil
	}
	values, err := arr.Values()
	if err != nil {
		return nil, err
	}
	elements := make([]E, 0, len(values))
	for _, v := range values {
		var e E
		if err := v.Unmarshal(&e); err != nil {
			return nil, err
		}
		elements = append(elements, e)
	}
	return elements, nil
}

func (n *nestedRepositoryImpl[E]) Count(ctx context.Context, parentID primitive.ObjectID) (int64, error) {
	cur, err := n.coll.Aggregate(ctx, buildNestedPipeline(parentID, n.field, nil, 0, false))
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		return 0, cur.Err()
	}
	var res struct {
		Count int64 `bson:"count"`
	}
	if err := cur.Decode(&res); err != nil {
		return 0, err
	}
	return res.Count, nil
}

func (n *nestedRepositoryImpl[E]) Create(ctx context.Context, parentID primitive.ObjectID, value interface{}) (*E, bool, error) {
	if err := validateElementValue(value); err != nil {
		return nil, false, err
	}
	res, err := n.coll.UpdateOne(ctx, bson.M{"_id": parentID}, bson.M{"$push": bson.M{n.field: value}})
	if err != nil {
		return nil, false, err
	}
	if res.MatchedCount == 0 {
		return nil, false, nil
	}
	element, err := parseElement[E](value)
	if err != nil {
		return nil, true, err
	}
	return element, true, nil
}

func (n *nestedRepositoryImpl[E]) Get(ctx context.Context, parentID, nestedID primitive.ObjectID, extra types.Filter) (*E, bool, error) {
	sr := n.coll.FindOne(ctx,
		nestedFilter(parentID, nestedID, n.field, extra),
		options.FindOne().SetProjection(elemMatchProjection(n.field, nestedID)))
	raw, err := sr.Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return firstProjectedElement[E](raw, n.field)
}

func (n *nestedRepositoryImpl[E]) Update(ctx context.Context, parentID, nestedID primitive.ObjectID, updates types.Document, opts *NestedUpdateOptions) (*E, bool, error) {
	var extra types.Filter
	upsert := false
	if opts != nil {
		extra = opts.Filter
		upsert = opts.Upsert
	}

	// Positional $ keeps the write scoped to the first matching element,
	// which gives per-child atomicity without a separate collection.
	set := bson.M{}
	for k, v := range updates {
		set[n.field+".$."+k] = v
	}

	findOpts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(elemMatchProjection(n.field, nestedID))
	if upsert {
		findOpts.SetUpsert(true)
	}

	sr := n.coll.FindOneAndUpdate(ctx,
		nestedFilter(parentID, nestedID, n.field, extra),
		bson.M{"$set": set},
		findOpts)
	raw, err := sr.Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return firstProjectedElement[E](raw, n.field)
}

func (n *nestedRepositoryImpl[E]) Remove(ctx context.Context, parentID, nestedID primitive.ObjectID, extra types.Filter) (bool, error) {
	res, err := n.coll.UpdateOne(ctx,
		nestedFilter(parentID, nestedID, n.field, extra),
		bson.M{"$pull": bson.M{n.field: bson.M{"_id": nestedID}}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// buildNestedPipeline assembles the unwind/group pipeline that flattens
// one array field into one pseudo-document per element, optionally sorts
// and caps them, then re-collects them with a count.
func buildNestedPipeline(parentID primitive.ObjectID, field string, sort []types.Sort, limit int64, collect bool) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": parentID}}},
		bson.D{{Key: "$unwind", Value: "$" + field}},
	}
	if len(sort) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: buildSort(sort)}})
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	group := bson.M{
		"_id":   "$_id",
		"count": bson.M{"$sum": 1},
	}
	if collect {
		group[field] = bson.M{"$push": "$" + field}
	}
	return append(pipeline, bson.D{{Key: "$group", Value: group}})
}

// nestedFilter targets one parent document and one element of its array
// field. Extra constraints never override the identity keys.
func nestedFilter(parentID, nestedID primitive.ObjectID, field string, extra types.Filter) bson.M {
	filter := buildFilter(extra)
	filter["_id"] = parentID
	filter[field+"._id"] = nestedID
	return filter
}

func elemMatchProjection(field string, nestedID primitive.ObjectID) bson.M {
	return bson.M{field: bson.M{"$elemMatch": bson.M{"_id": nestedID}}}
}

func firstProjectedElement[E any](raw bson.Raw, field string) (*E, bool, error) {
	arr, ok := raw.Lookup(field).ArrayOK()
	if !ok {
		return nil, false, nil
	}
	values, err := arr.Values()
	if err != nil {
		return nil, false, err
	}
	if len(values) == 0 {
		return nil, false, nil
	}
	var element E
	if err := values[0].Unmarshal(&element); err != nil {
		return nil, false, err
	}
	return &element, true, nil
}

// validateElementValue enforces the supported payload union: a document
// (map or struct), a string, or an integer.
func validateElementValue(value interface{}) error {
	switch value.(type) {
	case nil:
		return ErrUnsupportedElement
	case string:
		return nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return ErrUnsupportedElement
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		return nil
	default:
		return ErrUnsupportedElement
	}
}

// parseElement re-parses the appended value as the element type, either
// directly or via a BSON round trip for document-shaped values.
func parseElement[E any](value interface{}) (*E, error) {
	if e, ok := value.(E); ok {
		return &e, nil
	}
	raw, err := bson.Marshal(value)
	if err != nil {
		return nil, err
	}
	var element E
	if err := bson.Unmarshal(raw, &element); err != nil {
		return nil, err
	}
	return &element, nil
}
