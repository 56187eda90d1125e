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


// Package storage provides the storage abstraction layer for notevault.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic, so different backends (BadgerDB,
// in-memory, etc.) can be used interchangeably.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - NoteRepository: note records and the atomic edit operation
//   - IndexRepository: blind-index term entries and embedding vectors
//   - VersionRepository: the append-only edit history
//
// # Tenant scoping
//
// Every operation takes an explicit tenant scope. There is no implicit
// global visibility: data of one tenant is never reachable through a call
// scoped to another, and a zero tenant is rejected outright.
//
// # Thread safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context support
//
// All repository methods accept context.Context for cancellation and
// timeout support.
package storage
