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

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(ErrNotFound))
	assert.Equal(t, http.StatusBadRequest, StatusOf(ErrBadRequest))
	assert.Equal(t, http.StatusBadRequest, StatusOf(ErrDuplicateValue))
	assert.Equal(t, http.StatusBadRequest, StatusOf(ErrInvalidElement))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(ErrUnauthorized))
	assert.Equal(t, http.StatusForbidden, StatusOf(ErrForbidden))
	assert.Equal(t, http.StatusForbidden, StatusOf(ErrTokenVerification))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(ErrInternalServerError))
}

func TestStatusOfUnknownError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}

func TestStatusOfWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("lookup failed: %w", ErrNotFound)
	assert.Equal(t, http.StatusNotFound, StatusOf(wrapped))
}

func TestWithDetailReturnsCopy(t *testing.T) {
	detailed := ErrNotFound.WithDetail("object with id 42 does not exist")
	require.NotSame(t, ErrNotFound, detailed)
	assert.Empty(t, ErrNotFound.Detail)
	assert.Equal(t, "object with id 42 does not exist", detailed.Detail)
	assert.True(t, errors.Is(detailed, ErrNotFound))
}

func TestWithCauseReturnsCopy(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := ErrInternalServerError.WithCause(cause)
	require.NoError(t, ErrInternalServerError.Err)
	assert.True(t, errors.Is(wrapped, ErrInternalServerError))
	assert.Equal(t, cause, errors.Unwrap(wrapped))
}

func TestFromError(t *testing.T) {
	appErr := FromError(ErrBadRequest)
	assert.Same(t, ErrBadRequest, appErr)

	cause := errors.New("disk full")
	converted := FromError(cause)
	assert.True(t, errors.Is(converted, ErrInternalServerError))
	assert.Equal(t, cause, errors.Unwrap(converted))
}

func TestIsDoesNotCrossKinds(t *testing.T) {
	assert.False(t, errors.Is(ErrBadRequest, ErrNotFound))
	assert.False(t, errors.Is(ErrDuplicateValue, ErrBadRequest))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound.WithDetail("gone")))
	assert.False(t, IsNotFound(ErrForbidden))
	assert.False(t, IsNotFound(errors.New("gone")))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "[NOT_FOUND] The requested resource does not exist.", ErrNotFound.Error())
	withCause := ErrNotFound.WithCause(errors.New("boom"))
	assert.Equal(t, "[NOT_FOUND] The requested resource does not exist.: boom", withCause.Error())
}
