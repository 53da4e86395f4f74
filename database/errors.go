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

package database

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotInitialized is returned by package level helpers called before
// InitDB.
var ErrNotInitialized = errors.New("database not initialized")

// MongoError classifies driver errors into coarse categories suitable
// for mapping to API level error kinds.
type MongoError int

const (
	MongoErrorUnknown MongoError = iota
	MongoErrorNoDocuments
	MongoErrorDuplicateKey
	MongoErrorTimeout
	MongoErrorNetwork
	MongoErrorWriteConflict
	MongoErrorNamespaceNotFound
	MongoErrorIndexNotFound
	MongoErrorCursorNotFound
	MongoErrorUnauthorized
)

// String returns the classification name.
func (e MongoError) String() string {
	switch e {
	case MongoErrorNoDocuments:
		return "NoDocuments"
	case MongoErrorDuplicateKey:
		return "DuplicateKey"
	case MongoErrorTimeout:
		return "Timeout"
	case MongoErrorNetwork:
		return "Network"
	case MongoErrorWriteConflict:
		return "WriteConflict"
	case MongoErrorNamespaceNotFound:
		return "NamespaceNotFound"
	case MongoErrorIndexNotFound:
		return "IndexNotFound"
	case MongoErrorCursorNotFound:
		return "CursorNotFound"
	case MongoErrorUnauthorized:
		return "Unauthorized"
	default:
		return "Unknown"
	}
}

// IsMongoError reports whether err matches the given classification.
func IsMongoError(err error, kind MongoError) bool {
	return ClassifyError(err) == kind
}

// ClassifyError inspects a driver error and returns its category.
func ClassifyError(err error) MongoError {
	if err == nil {
		return MongoErrorUnknown
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return MongoErrorNoDocuments
	}
	if mongo.IsDuplicateKeyError(err) {
		return MongoErrorDuplicateKey
	}
	if mongo.IsTimeout(err) {
		return MongoErrorTimeout
	}
	if mongo.IsNetworkError(err) {
		return MongoErrorNetwork
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case 112: // WriteConflict
			return MongoErrorWriteConflict
		case 26: // NamespaceNotFound
			return MongoErrorNamespaceNotFound
		case 27: // IndexNotFound
			return MongoErrorIndexNotFound
		case 43: // CursorNotFound
			return MongoErrorCursorNotFound
		case 13: // Unauthorized
			return MongoErrorUnauthorized
		}
	}

	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if we.Code == 11000 || we.Code == 11001 {
				return MongoErrorDuplicateKey
			}
		}
	}

	// Some errors only surface as text, keep a string fallback.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "duplicate key"):
		return MongoErrorDuplicateKey
	case strings.Contains(msg, "not authorized"):
		return MongoErrorUnauthorized
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no reachable servers"):
		return MongoErrorNetwork
	}
	return MongoErrorUnknown
}
