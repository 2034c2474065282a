/* Copyright 2025 Libris Authors
 *
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

// Package context carries request-scoped values through handlers
package context

import (
	"context"
)

const (
	requestIDKey privateKey = "request_id"
)

type privateKey string

// WithRequestID creates a new context with the given request id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID retrieves the request id from the given context. It returns an
// empty string if the context does not carry one.
func RequestID(ctx context.Context) string {
	if temp := ctx.Value(requestIDKey); temp != nil {
		if id, ok := temp.(string); ok {
			return id
		}
	}

	return ""
}
