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

// PageRequest describes an optional page window, a filter, and ordering.
// Pagination applies only when both page and size are positive; a request
// with either left at zero lists every match.
type PageRequest struct {
	page   int
	size   int
	filter Filter
	orders []Sort
}

// Paginated reports whether both page and size were supplied.
func (p *PageRequest) Paginated() bool {
	return p != nil && p.page > 0 && p.size > 0
}

func (p *PageRequest) GetPage() int {
	if p == nil || p.page < 1 {
		return 1
	}
	return p.page
}

func (p *PageRequest) GetSize() int {
	if p == nil || p.size < 1 {
		return 10
	}
	return p.size
}

// GetOffset returns the number of matches to skip for the requested page.
// Page numbering is 1-based: page 1 starts at offset 0.
func (p *PageRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetSize()
}

func (p *PageRequest) GetFilter() Filter {
	if p == nil {
		return nil
	}
	return p.filter
}

func (p *PageRequest) GetOrders() []Sort {
	if p == nil {
		return nil
	}
	return p.orders
}

// NewPageRequest constructs a PageRequest with filter and order settings.
func NewPageRequest(page int, size int, filter Filter, orders []Sort) *PageRequest {
	return &PageRequest{page, size, filter, orders}
}

// NewPageRequestWithFilter constructs a PageRequest with a filter only.
func NewPageRequestWithFilter(page int, size int, filter Filter) *PageRequest {
	return NewPageRequest(page, size, filter, nil)
}

// NewDefaultPageRequest constructs a PageRequest with no filter or ordering.
func NewDefaultPageRequest(page int, size int) *PageRequest {
	return NewPageRequest(page, size, nil, nil)
}

// NewUnpagedRequest constructs a request that filters without paginating.
func NewUnpagedRequest(filter Filter) *PageRequest {
	return &PageRequest{filter: filter}
}

// Pagination wraps one page of results with count-derived metadata.
type Pagination[T any] struct {
	TotalCount int64 `json:"total_count"`
	TotalPages int64 `json:"total_pages"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Data       []*T  `json:"data"`
}

// NewPagination constructs a result page, deriving the page count from the
// total count and page size.
func NewPagination[T any](totalCount int64, page, size int, data []*T) *Pagination[T] {
	if data == nil {
		data = make([]*T, 0)
	}
	return &Pagination[T]{
		TotalCount: totalCount,
		TotalPages: TotalPages(totalCount, size),
		Page:       page,
		Size:       size,
		Data:       data,
	}
}

// NewDefaultPagination constructs an empty result page.
func NewDefaultPagination[T any](page, size int) *Pagination[T] {
	return NewPagination[T](0, page, size, nil)
}

// TotalPages returns the number of pages needed to hold totalCount items:
// zero for an empty result, otherwise ceil(totalCount/size). A size of
// zero or less means the whole result fits one page.
func TotalPages(totalCount int64, size int) int64 {
	if totalCount == 0 {
		return 0
	}
	if size <= 0 || totalCount <= int64(size) {
		return 1
	}
	pages := totalCount / int64(size)
	if totalCount%int64(size) != 0 {
		pages++
	}
	return pages
}
