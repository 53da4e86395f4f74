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

import "testing"

func TestTotalPages(t *testing.T) {
	cases := []struct {
		name  string
		count int64
		size  int
		want  int64
	}{
		{"empty", 0, 5, 0},
		{"exact multiple", 10, 5, 2},
		{"remainder rounds up", 11, 5, 3},
		{"count equals size", 5, 5, 1},
		{"count below size", 3, 5, 1},
		{"single item", 1, 100, 1},
		{"zero size", 7, 0, 1},
		{"negative size", 7, -1, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := TotalPages(c.count, c.size); got != c.want {
				t.Fatalf("TotalPages(%d, %d) = %d, want %d", c.count, c.size, got, c.want)
			}
		})
	}
}

func TestPageRequestOffset(t *testing.T) {
	req := NewDefaultPageRequest(1, 20)
	if got := req.GetOffset(); got != 0 {
		t.Fatalf("first page offset = %d, want 0", got)
	}
	req = NewDefaultPageRequest(3, 20)
	if got := req.GetOffset(); got != 40 {
		t.Fatalf("third page offset = %d, want 40", got)
	}
}

func TestPageRequestPaginated(t *testing.T) {
	var nilReq *PageRequest
	if nilReq.Paginated() {
		t.Fatal("nil request reported as paginated")
	}
	if NewUnpagedRequest(nil).Paginated() {
		t.Fatal("unpaged request reported as paginated")
	}
	if !NewDefaultPageRequest(1, 10).Paginated() {
		t.Fatal("page+size request not reported as paginated")
	}
	if NewDefaultPageRequest(0, 10).Paginated() {
		t.Fatal("request with zero page reported as paginated")
	}
	if NewDefaultPageRequest(1, 0).Paginated() {
		t.Fatal("request with zero size reported as paginated")
	}
}

func TestPageRequestNilGetters(t *testing.T) {
	var req *PageRequest
	if req.GetPage() != 1 || req.GetSize() != 10 {
		t.Fatal("nil request getters must return defaults")
	}
	if req.GetOffset() != 0 {
		t.Fatalf("nil request offset = %d, want 0", req.GetOffset())
	}
	if req.GetFilter() != nil {
		t.Fatal("nil request filter must be nil")
	}
	if len(req.GetOrders()) != 0 {
		t.Fatal("nil request orders must be empty")
	}
}

func TestNewPagination(t *testing.T) {
	data := []*string{ptr("a"), ptr("b"), ptr("c")}
	page := NewPagination[string](11, 2, 5, data)
	if page.TotalCount != 11 {
		t.Fatalf("total count = %d, want 11", page.TotalCount)
	}
	if page.TotalPages != 3 {
		t.Fatalf("total pages = %d, want 3", page.TotalPages)
	}
	if page.Page != 2 || page.Size != 5 {
		t.Fatalf("page/size = %d/%d, want 2/5", page.Page, page.Size)
	}
	if len(page.Data) != 3 {
		t.Fatalf("data length = %d, want 3", len(page.Data))
	}
}

func TestNewPaginationEmpty(t *testing.T) {
	page := NewPagination[string](0, 1, 10, nil)
	if page.TotalPages != 0 {
		t.Fatalf("empty result total pages = %d, want 0", page.TotalPages)
	}
	if page.Data == nil {
		t.Fatal("data must be an empty slice, not nil")
	}
}

func ptr(s string) *string { return &s }
