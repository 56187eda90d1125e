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


// Package search provides hybrid retrieval over encrypted notes.
//
// The Engine type combines two legs:
//   - Keyword: query terms are normalized and hashed the same way note
//     content was at index time, then matched exactly in the blind index.
//     Multi-term queries use OR semantics — any single matching term hits.
//   - Semantic: the query is embedded and stored vectors ranked by cosine
//     distance. The embedding provider is a fallible remote call; when it
//     fails, search silently degrades to keyword-only results.
//
// Both legs are filtered to a single tenant at the storage layer. Results
// are merged with semantic order first and deduplicated by note ID.
package search
