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

// Package manta provides a generic service layer over the generic MongoDB
// repository: request/response translation, optional field-level
// uniqueness enforcement, and translation of absence into typed domain
// errors.
package manta

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomoncle/manta/database"
	apperrors "github.com/tomoncle/manta/errors"
	"github.com/tomoncle/manta/repository"
	"github.com/tomoncle/manta/types"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Service sits above one repository, translating between a wire
// representation (Req in, Res out) and the stored entity type T.
//
// This is the layer where "missing record" and "duplicate unique value"
// become user-visible errors; the repository below only reports presence
// and counts.
type Service[T types.Entity, Req any, Res any] interface {
	// List returns one page of matching entities wrapped in a
	// pagination envelope.
	List(ctx context.Context, req *types.PageRequest) (*types.Pagination[Res], error)

	// Get returns the identified entity or a not-found error.
	Get(ctx context.Context, id primitive.ObjectID) (*Res, error)

	// Search returns the first entity matching the filter or a
	// not-found error.
	Search(ctx context.Context, filter types.Filter) (*Res, error)

	// SearchAll returns every entity matching the filter, failing with
	// not-found when there are none.
	SearchAll(ctx context.Context, filter types.Filter) ([]*Res, error)

	// Count returns the cardinality of the filter match.
	Count(ctx context.Context, filter types.Filter) (int64, error)

	// Create stores a new entity built from the request, enforcing the
	// declared unique fields first.
	Create(ctx context.Context, req *Req) (*Res, error)

	// Update merges the fields set on the request over the stored
	// entity and persists the result. Unique fields are re-checked,
	// tolerating a match on the record being updated.
	Update(ctx context.Context, id primitive.ObjectID, req *Req) (*Res, error)

	// Delete removes the identified entity or fails with not-found.
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Repository exposes the underlying repository for advanced use,
	// e.g. constructing nested sub-document repositories.
	Repository() repository.Repository[T]
}

// ServiceConfig wires a Service. Repository is required unless the
// service is built with NewCollectionService. FromRequest and ToResponse
// default to a BSON field-wise translation when nil.
type ServiceConfig[T types.Entity, Req any, Res any] struct {
	Repository   repository.Repository[T]
	UniqueFields []string
	FromRequest  func(*Req) (*T, error)
	ToResponse   func(*T) (*Res, error)
}

type baseServiceImpl[T types.Entity, Req any, Res any] struct {
	repo         repository.Repository[T]
	repoInit     func() repository.Repository[T]
	once         sync.Once
	uniqueFields []string
	fromRequest  func(*Req) (*T, error)
	toResponse   func(*T) (*Res, error)
}

// NewService returns a Service backed by the configured repository.
func NewService[T types.Entity, Req any, Res any](cfg ServiceConfig[T, Req, Res]) Service[T, Req, Res] {
	return &baseServiceImpl[T, Req, Res]{
		repo:         cfg.Repository,
		uniqueFields: cfg.UniqueFields,
		fromRequest:  cfg.FromRequest,
		toResponse:   cfg.ToResponse,
	}
}

// NewCollectionService returns a Service whose wire representation is the
// entity itself, backed by the named collection of the global database.
// The repository is resolved lazily so services can be declared before
// database.InitDB runs.
func NewCollectionService[T types.Entity](collection string, uniqueFields ...string) Service[T, T, T] {
	return &baseServiceImpl[T, T, T]{
		repoInit: func() repository.Repository[T] {
			return repository.NewRepository[T](mustGlobalDatabase(), collection)
		},
		uniqueFields: uniqueFields,
	}
}

func (s *baseServiceImpl[T, Req, Res]) baseRepo() repository.Repository[T] {
	s.once.Do(func() {
		if s.repo == nil && s.repoInit != nil {
			s.repo = s.repoInit()
		}
	})
	return s.repo
}

func (s *baseServiceImpl[T, Req, Res]) Repository() repository.Repository[T] {
	return s.baseRepo()
}

func (s *baseServiceImpl[T, Req, Res]) List(ctx context.Context, req *types.PageRequest) (*types.Pagination[Res], error) {
	total, entities, err := s.baseRepo().List(ctx, req)
	if err != nil {
		return nil, apperrors.FromError(err)
	}
	data, err := s.mapResponses(entities)
	if err != nil {
		return nil, apperrors.FromError(err)
	}
	page, size := 1, len(data)
	if req.Paginated() {
		page, size = req.GetPage(), req.GetSize()
	}
	return types.NewPagination[Res](total, page, size, data), nil
}

func (s *baseServiceImpl[T, Req, Res]) Get(ctx context.Context, id primitive.ObjectID) (*Res, error) {
	entity, found, err := s.baseRepo().Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromError(err)
	}
	if !found {
		return nil, notFoundByID(id)
	}
	return s.mapResponse(entity)
}

func (s *baseServiceImpl[T, Req, Res]) Search(ctx context.Context, filter types.Filter) (*Res, error) {
	entity, found, err := s.baseRepo().Search(ctx, filter)
	if err != nil {
		return nil, apperrors.FromError(err)
	}
	if !found {
		return nil, apperrors.ErrNotFound.WithDetail("no object matches the given filters")
	}
	return s.mapResponse(entity)
}

func (s *baseServiceImpl[T, Req, Res]) SearchAll(ctx context.Context, filter types.Filter) ([]*Res, error) {
	entities, err := s.baseRepo().SearchAll(ctx, filter)
	if err != nil {
		return nil, apperrors.FromError(err)
	}
	if len(entities) == 0 {
		return nil, apperrors.ErrNotFound.WithDetail("no objects match the given filters")
	}
	return s.mapResponses(entities)
}

func (s *baseServiceImpl[T, Req, Res]) Count(ctx context.Context, filter types.Filter) (int64, error) {
	count, err := s.baseRepo().Count(ctx, filter)
	if err != nil {
		return 0, apperrors.FromError(err)
	}
	return count, nil
}

func (s *baseServiceImpl[T, Req, Res]) Create(ctx context.Context, req *Req) (*Res, error) {
	entity, err := s.mapRequest(req)
	if err != nil {
		return nil, apperrors.ErrBadRequest.WithCause(err)
	}
	if err := s.checkUnique(ctx, req, nil); err != nil {
		return nil, err
	}
	created, err := s.baseRepo().Create(ctx, entity)
	if err != nil {
		return nil, apperrors.FromError(err)
	}
	return s.mapResponse(created)
}

func (s *baseServiceImpl[T, Req, Res]) Update(ctx context.Context, id primitive.ObjectID, req *Req) (*Res, error) {
	stored, found, err := s.baseRepo().Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromError(err)
	}
	if !found {
		return nil, notFoundByID(id)
	}
	if err := s.checkUnique(ctx, req, &id); err != nil {
		return nil, err
	}
	merged, err := s.mergeRequest(stored, req)
	if err != nil {
		return nil, apperrors.ErrBadRequest.WithCause(err)
	}
	updated, found, err := s.baseRepo().Update(ctx, id, merged)
	if err != nil {
		return nil, apperrors.FromError(err)
	}
	if !found {
		// Deleted between the read and the write.
		return nil, notFoundByID(id)
	}
	return s.mapResponse(updated)
}

func (s *baseServiceImpl[T, Req, Res]) Delete(ctx context.Context, id primitive.ObjectID) error {
	removed, err := s.baseRepo().Delete(ctx, id)
	if err != nil {
		return apperrors.FromError(err)
	}
	if !removed {
		return notFoundByID(id)
	}
	return nil
}

// checkUnique searches for another record holding the declared unique
// field values of the request. The check is advisory: concurrent creates
// can still race, so collections should additionally carry a unique
// index (see database.UniqueIndex).
func (s *baseServiceImpl[T, Req, Res]) checkUnique(ctx context.Context, req *Req, selfID *primitive.ObjectID) error {
	if len(s.uniqueFields) == 0 {
		return nil
	}
	doc, err := marshalDocument(req)
	if err != nil {
		return apperrors.ErrBadRequest.WithCause(err)
	}
	filter := types.Filter{}
	for _, field := range s.uniqueFields {
		if value, ok := doc[field]; ok && value != nil {
			filter[field] = value
		}
	}
	if len(filter) == 0 {
		return nil
	}
	existing, found, err := s.baseRepo().Search(ctx, filter)
	if err != nil {
		return apperrors.FromError(err)
	}
	if !found {
		return nil
	}
	if selfID != nil && (*existing).GetID() == *selfID {
		return nil
	}
	return apperrors.ErrDuplicateValue.WithDetail(
		fmt.Sprintf("unique fields %v already hold the given values", s.uniqueFields))
}

// mergeRequest overlays the fields present on the marshaled request over
// the stored entity. Request types rely on bson omitempty tags, so only
// explicitly set fields survive the marshal and override stored values.
// Identity and timestamps always come from the stored record.
func (s *baseServiceImpl[T, Req, Res]) mergeRequest(stored *T, req *Req) (*T, error) {
	base, err := marshalDocument(stored)
	if err != nil {
		return nil, err
	}
	overlay, err := marshalDocument(req)
	if err != nil {
		return nil, err
	}
	delete(overlay, "_id")
	delete(overlay, "created_at")
	delete(overlay, "updated_at")
	for k, v := range overlay {
		base[k] = v
	}
	return unmarshalDocument[T](base)
}

func (s *baseServiceImpl[T, Req, Res]) mapRequest(req *Req) (*T, error) {
	if s.fromRequest != nil {
		return s.fromRequest(req)
	}
	return convertVia[T](req)
}

func (s *baseServiceImpl[T, Req, Res]) mapResponse(entity *T) (*Res, error) {
	if s.toResponse != nil {
		res, err := s.toResponse(entity)
		if err != nil {
			return nil, apperrors.FromError(err)
		}
		return res, nil
	}
	res, err := convertVia[Res](entity)
	if err != nil {
		return nil, apperrors.FromError(err)
	}
	return res, nil
}

func (s *baseServiceImpl[T, Req, Res]) mapResponses(entities []*T) ([]*Res, error) {
	out := make([]*Res, 0, len(entities))
	for _, entity := range entities {
		res, err := s.mapResponse(entity)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func notFoundByID(id primitive.ObjectID) *apperrors.AppError {
	return apperrors.ErrNotFound.WithDetail(
		fmt.Sprintf("object with id %s does not exist", id.Hex()))
}

// convertVia translates between representations through a BSON round
// trip: fields travel by name, exactly like rebuilding one model from
// another's field map.
func convertVia[Out any](in interface{}) (*Out, error) {
	raw, err := bson.Marshal(in)
	if err != nil {
		return nil, err
	}
	var out Out
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func marshalDocument(v interface{}) (bson.M, error) {
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

func mustGlobalDatabase() *mongo.Database {
	db := database.GetDB()
	if db == nil {
		panic("manta: database not initialized, call database.InitDB first")
	}
	return db
}

func unmarshalDocument[T any](doc bson.M) (*T, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
