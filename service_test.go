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

package manta

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "github.com/tomoncle/manta/errors"
	"github.com/tomoncle/manta/repository"
	"github.com/tomoncle/manta/types"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type testUser struct {
	types.Model `bson:",inline"`
	Name        string `bson:"name,omitempty"`
	Email       string `bson:"email,omitempty"`
	Age         int    `bson:"age,omitempty"`
}

// memoryRepo is an in-memory repository.Repository[testUser] used to
// exercise service semantics without a server.
type memoryRepo struct {
	mu    sync.Mutex
	store map[primitive.ObjectID]testUser
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{store: map[primitive.ObjectID]testUser{}}
}

func (m *memoryRepo) Collection() *mongo.Collection { return nil }

func (m *memoryRepo) List(_ context.Context, req *types.PageRequest) (int64, []*testUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := make([]*testUser, 0)
	for _, u := range m.store {
		if m.matches(u, req.GetFilter()) {
			copied := u
			matched = append(matched, &copied)
		}
	}
	total := int64(len(matched))
	if req.Paginated() {
		start := req.GetOffset()
		if start > len(matched) {
			start = len(matched)
		}
		end := start + req.GetSize()
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return total, matched, nil
}

func (m *memoryRepo) Get(ctx context.Context, id primitive.ObjectID) (*testUser, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return nil, false, nil
	}
	return &u, true, nil
}

func (m *memoryRepo) Search(_ context.Context, filter types.Filter) (*testUser, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.store {
		if m.matches(u, filter) {
			copied := u
			return &copied, true, nil
		}
	}
	return nil, false, nil
}

func (m *memoryRepo) SearchAll(_ context.Context, filter types.Filter) ([]*testUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*testUser, 0)
	for _, u := range m.store {
		if m.matches(u, filter) {
			copied := u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryRepo) Count(_ context.Context, filter types.Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, u := range m.store {
		if m.matches(u, filter) {
			count++
		}
	}
	return count, nil
}

func (m *memoryRepo) Create(_ context.Context, entity *testUser) (*testUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *entity
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = nil
	m.store[u.ID] = u
	return &u, nil
}

func (m *memoryRepo) Update(_ context.Context, id primitive.ObjectID, entity *testUser) (*testUser, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.store[id]
	if !ok {
		return nil, false, nil
	}
	u := *entity
	u.ID = id
	u.CreatedAt = stored.CreatedAt
	now := time.Now().UTC()
	u.UpdatedAt = &now
	m.store[id] = u
	return &u, true, nil
}

func (m *memoryRepo) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return false, nil
	}
	delete(m.store, id)
	return true, nil
}

func (m *memoryRepo) matches(u testUser, filter types.Filter) bool {
	if len(filter) == 0 {
		return true
	}
	doc, err := marshalDocument(u)
	if err != nil {
		return false
	}
	for k, v := range filter {
		stored, ok := doc[k]
		if !ok {
			return false
		}
		a, _ := bson.Marshal(bson.M{"v": stored})
		b, _ := bson.Marshal(bson.M{"v": v})
		if string(a) != string(b) {
			return false
		}
	}
	return true
}

var _ repository.Repository[testUser] = (*memoryRepo)(nil)

func newTestService(uniqueFields ...string) (Service[testUser, testUser, testUser], *memoryRepo) {
	repo := newMemoryRepo()
	svc := NewService(ServiceConfig[testUser, testUser, testUser]{
		Repository:   repo,
		UniqueFields: uniqueFields,
	})
	return svc, repo
}

func TestServiceCreateAndGet(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &testUser{Name: "ann", Email: "ann@example.com"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Fatal("created user must carry its id")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Name != "ann" {
		t.Fatalf("name = %q, want ann", got.Name)
	}
}

func TestServiceGetMissing(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Get(context.Background(), primitive.NewObjectID())
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("get missing = %v, want not found", err)
	}
	if apperrors.StatusOf(err) != 404 {
		t.Fatalf("status = %d, want 404", apperrors.StatusOf(err))
	}
}

func TestServiceCreateDuplicateUnique(t *testing.T) {
	svc, _ := newTestService("email")
	ctx := context.Background()

	if _, err := svc.Create(ctx, &testUser{Name: "ann", Email: "ann@example.com"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.Create(ctx, &testUser{Name: "other", Email: "ann@example.com"})
	if !errors.Is(err, apperrors.ErrDuplicateValue) {
		t.Fatalf("duplicate create = %v, want duplicate value", err)
	}
	if apperrors.StatusOf(err) != 400 {
		t.Fatalf("status = %d, want 400", apperrors.StatusOf(err))
	}
}

func TestServiceUpdateKeepsOwnUniqueValue(t *testing.T) {
	svc, _ := newTestService("email")
	ctx := context.Background()

	created, err := svc.Create(ctx, &testUser{Name: "ann", Email: "ann@example.com"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	// Re-submitting the record's own unique value must not conflict.
	updated, err := svc.Update(ctx, created.ID, &testUser{Name: "ann2", Email: "ann@example.com"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "ann2" {
		t.Fatalf("name = %q, want ann2", updated.Name)
	}
}

func TestServiceUpdateToTakenUniqueValue(t *testing.T) {
	svc, _ := newTestService("email")
	ctx := context.Background()

	if _, err := svc.Create(ctx, &testUser{Name: "ann", Email: "ann@example.com"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	bob, err := svc.Create(ctx, &testUser{Name: "bob", Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	_, err = svc.Update(ctx, bob.ID, &testUser{Email: "ann@example.com"})
	if !errors.Is(err, apperrors.ErrDuplicateValue) {
		t.Fatalf("conflicting update = %v, want duplicate value", err)
	}
}

func TestServiceUpdateMergesPartialRequest(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &testUser{Name: "ann", Email: "ann@example.com", Age: 30})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	// Only the name travels; unset fields keep their stored values.
	updated, err := svc.Update(ctx, created.ID, &testUser{Name: "annette"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "annette" {
		t.Fatalf("name = %q, want annette", updated.Name)
	}
	if updated.Email != "ann@example.com" {
		t.Fatalf("email = %q, must survive a partial update", updated.Email)
	}
	if updated.Age != 30 {
		t.Fatalf("age = %d, must survive a partial update", updated.Age)
	}
}

func TestServiceUpdateMissing(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Update(context.Background(), primitive.NewObjectID(), &testUser{Name: "ghost"})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("update missing = %v, want not found", err)
	}
}

func TestServiceDelete(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &testUser{Name: "ann"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("second delete = %v, want not found", err)
	}
}

func TestServiceSearch(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, &testUser{Name: "ann", Age: 30}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	found, err := svc.Search(ctx, types.Filter{"name": "ann"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if found.Age != 30 {
		t.Fatalf("age = %d, want 30", found.Age)
	}
	if _, err := svc.Search(ctx, types.Filter{"name": "nobody"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("search miss = %v, want not found", err)
	}
}

func TestServiceSearchAll(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, name := range []string{"ann", "bob"} {
		if _, err := svc.Create(ctx, &testUser{Name: name, Age: 30}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	all, err := svc.SearchAll(ctx, types.Filter{"age": 30})
	if err != nil {
		t.Fatalf("search all failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("matches = %d, want 2", len(all))
	}
	if _, err := svc.SearchAll(ctx, types.Filter{"age": 99}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("empty search all = %v, want not found", err)
	}
}

func TestServiceListPagination(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		if _, err := svc.Create(ctx, &testUser{Name: "user", Age: 20 + i}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	page, err := svc.List(ctx, types.NewDefaultPageRequest(1, 5))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.TotalCount != 11 {
		t.Fatalf("total count = %d, want 11", page.TotalCount)
	}
	if page.TotalPages != 3 {
		t.Fatalf("total pages = %d, want 3", page.TotalPages)
	}
	if len(page.Data) != 5 {
		t.Fatalf("page data = %d, want 5", len(page.Data))
	}
	if page.Page != 1 || page.Size != 5 {
		t.Fatalf("page/size = %d/%d, want 1/5", page.Page, page.Size)
	}
}

func TestServiceListEmpty(t *testing.T) {
	svc, _ := newTestService()
	page, err := svc.List(context.Background(), types.NewDefaultPageRequest(1, 5))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.TotalCount != 0 || page.TotalPages != 0 {
		t.Fatalf("count/pages = %d/%d, want 0/0", page.TotalCount, page.TotalPages)
	}
	if page.Data == nil || len(page.Data) != 0 {
		t.Fatal("empty page data must be an empty slice")
	}
}

func TestServiceCount(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, &testUser{Name: "ann"}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	count, err := svc.Count(ctx, types.Filter{"name": "ann"})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}

type userResponse struct {
	ID   primitive.ObjectID `bson:"_id"`
	Name string             `bson:"name"`
}

func TestServiceCustomMappers(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(ServiceConfig[testUser, testUser, userResponse]{
		Repository: repo,
		ToResponse: func(u *testUser) (*userResponse, error) {
			return &userResponse{ID: u.ID, Name: u.Name}, nil
		},
	})
	created, err := svc.Create(context.Background(), &testUser{Name: "ann", Email: "ann@example.com"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Name != "ann" || created.ID.IsZero() {
		t.Fatalf("response = %+v", created)
	}
}

func TestServiceDefaultResponseConversion(t *testing.T) {
	svc, _ := newTestService()
	created, err := svc.Create(context.Background(), &testUser{Name: "ann"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	// Default mapping travels field-by-field through BSON.
	out, err := convertVia[userResponse](created)
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}
	if out.ID != created.ID || out.Name != "ann" {
		t.Fatalf("converted = %+v", out)
	}
}
