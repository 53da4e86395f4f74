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

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// SortOrder is the direction of a sort key, encoded the way the document
// store expects it: 1 ascending, -1 descending.
type SortOrder int

const (
	SortAsc  SortOrder = 1
	SortDesc SortOrder = -1
)

func (o SortOrder) IsValid() bool { return o == SortAsc || o == SortDesc }

// Number returns the document-store direction value; invalid values
// default to ascending.
func (o SortOrder) Number() int {
	if o == SortDesc {
		return -1
	}
	return 1
}

func (o SortOrder) String() string {
	switch o {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return IllegalName
	}
}

func (o SortOrder) Name() string {
	switch o {
	case SortAsc:
		return "ascending"
	case SortDesc:
		return "descending"
	default:
		return IllegalName
	}
}

func (o SortOrder) Desc() string {
	switch o {
	case SortAsc:
		return "sort ascending"
	case SortDesc:
		return "sort descending"
	default:
		return IllegalDesc
	}
}

var _ BaseEnum = SortAsc
