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

func TestFilterClone(t *testing.T) {
	original := Filter{"name": "ann", "age": 30}
	clone := original.Clone()
	clone["name"] = "bob"
	if original["name"] != "ann" {
		t.Fatal("clone must not share storage with the original")
	}
	if clone["age"] != 30 {
		t.Fatal("clone lost an entry")
	}
}

func TestFilterCloneNil(t *testing.T) {
	var f Filter
	clone := f.Clone()
	if clone == nil {
		t.Fatal("clone of nil filter must be usable")
	}
	clone["k"] = "v"
}

func TestSortOrder(t *testing.T) {
	if SortAsc.Number() != 1 || SortDesc.Number() != -1 {
		t.Fatalf("sort order numbers = %d/%d", SortAsc.Number(), SortDesc.Number())
	}
	asc := NewSort("name")
	if asc.Key != "name" || asc.Order != SortAsc {
		t.Fatalf("NewSort = %+v", asc)
	}
	desc := NewSortDesc("created_at")
	if desc.Order != SortDesc {
		t.Fatalf("NewSortDesc = %+v", desc)
	}
}
