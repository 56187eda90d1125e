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


package reembed

import (
	"context"

	"github.com/clearchart/notevault/core"
	"github.com/clearchart/notevault/storage"
)

const (
	// DefaultBatchSize is the default number of notes to process in each batch
	DefaultBatchSize = 100
)

// NoteIterator walks every note of one tenant in batches.
type NoteIterator struct {
	repo      storage.NoteRepository
	tenant    core.TenantID
	batchSize int
}

// NewNoteIterator creates a new note iterator.
// batchSize: number of notes in each batch (must be > 0)
func NewNoteIterator(repo storage.NoteRepository, tenant core.TenantID, batchSize int) *NoteIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &NoteIterator{
		repo:      repo,
		tenant:    tenant,
		batchSize: batchSize,
	}
}

// ForEach iterates over the tenant's notes, calling fn for each batch.
// Iteration stops on the first error from fn or when all notes are
// processed. Context cancellation is checked between batches.
func (it *NoteIterator) ForEach(ctx context.Context, fn func([]*core.NoteRecord) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	notes, err := it.repo.NotesForTenant(ctx, it.tenant)
	if err != nil {
		return err
	}

	for i := 0; i < len(notes); i += it.batchSize {
		end := i + it.batchSize
		if end > len(notes) {
			end = len(notes)
		}

		if err := fn(notes[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
