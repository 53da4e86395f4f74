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

// Package auth provides signed access token issuance and password
// hashing helpers.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/tomoncle/manta/errors"
)

// DefaultAccessTTL is the token lifetime used when Config.AccessTTL is
// zero.
const DefaultAccessTTL = 15 * time.Minute

// Config holds token signing settings.
type Config struct {
	Secret    string
	Issuer    string
	AccessTTL time.Duration
}

// TokenIssuer issues and verifies HS256 signed access tokens.
type TokenIssuer struct {
	config Config
}

// NewTokenIssuer creates an issuer for the given config.
func NewTokenIssuer(config Config) (*TokenIssuer, error) {
	if config.Secret == "" {
		return nil, fmt.Errorf("auth: signing secret must not be empty")
	}
	if config.AccessTTL <= 0 {
		config.AccessTTL = DefaultAccessTTL
	}
	return &TokenIssuer{config: config}, nil
}

// Issue creates a signed token for the given subject. Extra claims
// merge over the registered set, so callers can add roles or scopes.
func (t *TokenIssuer) Issue(subject string, extra map[string]interface{}) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(t.config.AccessTTL)),
		"jti": uuid.NewString(),
	}
	if t.config.Issuer != "" {
		claims["iss"] = t.config.Issuer
	}
	for k, v := range extra {
		claims[k] = v
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(t.config.Secret))
	if err != nil {
		return "", fmt.Errorf("auth: failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims. Expired,
// malformed, or tampered tokens fail with a token verification error.
func (t *TokenIssuer) Verify(tokenString string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(t.config.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, apperrors.ErrTokenVerification.WithCause(err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, apperrors.ErrTokenVerification
	}
	return claims, nil
}
