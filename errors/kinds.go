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

package errors

import "net/http"

// Predefined error kinds. Always derive per-call errors with WithDetail
// or WithCause; never mutate these values.

var (
	// ErrNotFound: the requested identity or filter match does not exist.
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "The requested resource does not exist.",
		HTTPStatus: http.StatusNotFound,
	}

	// ErrBadRequest: caller input violates a domain invariant.
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "The request contains invalid data.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrDuplicateValue: a declared unique field already holds this value.
	ErrDuplicateValue = &AppError{
		Code:       "DUPLICATE_VALUE",
		Message:    "A record with the same unique properties already exists.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrInvalidElement: a nested element payload is outside the
	// supported document/string/integer union.
	ErrInvalidElement = &AppError{
		Code:       "INVALID_ELEMENT",
		Message:    "Element data must be a document, string, or integer.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrUnauthorized: caller identity could not be established.
	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Authentication is required.",
		HTTPStatus: http.StatusUnauthorized,
	}

	// ErrForbidden: caller lacks permission for the action.
	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "The action is not allowed.",
		HTTPStatus: http.StatusForbidden,
	}

	// ErrTokenVerification: a token failed decoding or signature checks.
	// Kept on 403 for compatibility with deployed clients even though
	// 401 would be the conventional status.
	ErrTokenVerification = &AppError{
		Code:       "TOKEN_VERIFICATION_FAILED",
		Message:    "The token could not be verified.",
		HTTPStatus: http.StatusForbidden,
	}

	// ErrInternalServerError: unexpected persistence or infrastructure
	// failure.
	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "An unexpected internal error occurred.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
