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

import "fmt"

// ValidateNote validates a NoteRecord according to domain rules.
//
// Validation rules:
//   - TenantId must be non-zero
//   - Content must not be empty
//   - AuthorId must not be empty
//
// NOT validated:
//   - ID (0 is valid before the database sequence assigns one)
//   - PatientId (linkage is an external concern)
func ValidateNote(note *NoteRecord) error {
	if note == nil {
		return fmt.Errorf("%w: note is nil", ErrInvalidNote)
	}

	if note.TenantId == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidNote, ErrTenantRequired)
	}

	if note.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidNote, ErrEmptyContent)
	}

	if note.AuthorId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidNote, ErrEmptyAuthor)
	}

	return nil
}

// ValidateVersion validates a NoteVersion according to domain rules.
//
// Validation rules:
//   - TenantId and NoteId must be non-zero
//   - PriorContent must not be empty
//   - EditedBy must not be empty
func ValidateVersion(version *NoteVersion) error {
	if version == nil {
		return fmt.Errorf("%w: version is nil", ErrInvalidVersion)
	}

	if version.TenantId == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidVersion, ErrTenantRequired)
	}

	if version.NoteId == 0 {
		return fmt.Errorf("%w: note id is required", ErrInvalidVersion)
	}

	if version.PriorContent == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVersion, ErrEmptyContent)
	}

	if version.EditedBy == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVersion, ErrEmptyEditor)
	}

	return nil
}
