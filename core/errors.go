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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidNote indicates a NoteRecord failed validation.
	ErrInvalidNote = errors.New("invalid note record")

	// ErrInvalidVersion indicates a NoteVersion failed validation.
	ErrInvalidVersion = errors.New("invalid note version")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyAuthor indicates the AuthorId field is empty.
	ErrEmptyAuthor = errors.New("author cannot be empty")

	// ErrEmptyEditor indicates the EditedBy field is empty.
	ErrEmptyEditor = errors.New("editor cannot be empty")

	// ErrTenantRequired indicates an operation was attempted without a
	// tenant scope. Every read and write must carry a non-zero tenant.
	ErrTenantRequired = errors.New("tenant scope required")

	// ErrCorruptCiphertext indicates decryption was attempted on data not
	// produced by the current key and algorithm. Distinct from "not found":
	// the value exists but cannot be read.
	ErrCorruptCiphertext = errors.New("corrupt ciphertext")
)
