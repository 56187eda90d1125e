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
	"fmt"
	"io"
	"time"

	"github.com/clearchart/notevault/ai"
	"github.com/clearchart/notevault/core"
	"github.com/clearchart/notevault/crypto"
	"github.com/clearchart/notevault/storage"
)

// Config holds configuration for the re-embedding operation.
type Config struct {
	// BatchSize is the number of notes to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of notes)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder regenerates the embedding vectors for every note of a tenant.
type Reembedder struct {
	noteRepo  storage.NoteRepository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(noteRepo storage.NoteRepository, indexRepo storage.IndexRepository, codec *crypto.Codec, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		noteRepo:  noteRepo,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(indexRepo, codec, embedder, config.MaxRetries, config.RetryDelay),
	}
}

// Run re-embeds every note in the tenant scope. Progress is reported to the
// configured writer. The blind index and note records are not touched, so a
// failed or interrupted run leaves search degraded at worst, never broken.
func (r *Reembedder) Run(ctx context.Context, tenant core.TenantID) error {
	allNotes, err := r.noteRepo.NotesForTenant(ctx, tenant)
	if err != nil {
		return fmt.Errorf("failed to query notes: %w", err)
	}

	totalNotes := len(allNotes)
	if totalNotes == 0 {
		fmt.Fprintf(r.progress, "No notes found for tenant %d (0 notes)\n", tenant)
		return nil
	}

	fmt.Fprintf(r.progress, "Starting re-embedding of %d notes (batch size: %d)\n",
		totalNotes, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, totalNotes, r.config.ReportInterval)
	tracker.Start()

	processed := 0

	iterator := NewNoteIterator(r.noteRepo, tenant, r.config.BatchSize)
	err = iterator.ForEach(ctx, func(notes []*core.NoteRecord) error {
		if err := r.processor.Process(ctx, notes); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(notes)
		tracker.Update(processed)

		return nil
	})

	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Re-embedding complete. Processed %d notes in %v (%.1f notes/sec)\n",
		totalNotes, elapsed.Round(time.Second), float64(totalNotes)/elapsed.Seconds())

	return nil
}
