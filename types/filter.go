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

// Filter is an exact-match conjunction over document fields. Every entry
// must hold for a document to match; there is no range or OR support at
// this layer.
type Filter map[string]interface{}

// Clone returns a shallow copy, safe for callers that add reserved keys.
func (f Filter) Clone() Filter {
	if f == nil {
		return Filter{}
	}
	out := make(Filter, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Document is a loosely structured BSON document, used for raw field
// updates where no typed struct applies.
type Document map[string]interface{}

// Sort pairs a document key with a direction.
type Sort struct {
	Key   string
	Order SortOrder
}

// NewSort creates an ascending sort for the given key.
func NewSort(key string) Sort { return Sort{Key: key, Order: SortAsc} }

// NewSortDesc creates a descending sort for the given key.
func NewSortDesc(key string) Sort { return Sort{Key: key, Order: SortDesc} }
