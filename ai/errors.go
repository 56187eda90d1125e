// Copyright 2026 Clearchart
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import "errors"

var (
	// ErrProviderUnavailable indicates the embedding service could not be
	// reached or returned a malformed response. Callers recover by treating
	// the semantic leg as empty rather than failing the operation.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")

	// ErrBadDimension indicates the provider returned a vector whose length
	// does not match the configured dimension.
	ErrBadDimension = errors.New("embedding has wrong dimension")
)
