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


// Package crypto provides field-level encryption and blind indexing for
// note content.
//
// The Codec type pairs AES-256-GCM encryption of scalar text fields with a
// deterministic BLAKE2b blind-index hash that supports equality search over
// ciphertext. Tokenize normalizes free text into the term set that gets
// hashed at index time and at query time, so both sides of a keyword lookup
// agree on normalization.
//
// Decrypt distinguishes corrupt or foreign ciphertext (core.ErrCorruptCiphertext)
// from an absent value; GCM authentication guarantees tampered data is
// rejected rather than decrypted into garbage.
package crypto
