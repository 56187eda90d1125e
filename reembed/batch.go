package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/clearchart/notevault/ai"
	"github.com/clearchart/notevault/core"
	"github.com/clearchart/notevault/crypto"
	"github.com/clearchart/notevault/storage"
)

// BatchProcessor regenerates embedding vectors for batches of notes.
// Content is decrypted in memory for embedding and discarded afterwards;
// nothing plaintext is ever written back.
type BatchProcessor struct {
	indexRepo      storage.IndexRepository
	codec          *crypto.Codec
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(indexRepo storage.IndexRepository, codec *crypto.Codec, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		indexRepo:      indexRepo,
		codec:          codec,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds a batch of notes and replaces their stored vectors.
// Vectors are normalized after embedding so cosine ranking stays stable
// across embedding models that return unnormalized output.
func (bp *BatchProcessor) Process(ctx context.Context, notes []*core.NoteRecord) error {
	if len(notes) == 0 {
		return nil
	}

	texts := make([]string, len(notes))
	for i, note := range notes {
		plaintext, err := bp.codec.Decrypt(note.Content)
		if err != nil {
			return fmt.Errorf("failed to decrypt note %d: %w", note.Id, err)
		}
		texts[i] = plaintext
	}

	// Generate embeddings with retry
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(notes) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(notes), len(embeddings))
	}

	for i, note := range notes {
		err := bp.indexRepo.UpsertVector(ctx, &core.VectorRecord{
			NoteId:   note.Id,
			TenantId: note.TenantId,
			Vector:   NormalizeVector(embeddings[i]),
		})
		if err != nil {
			return fmt.Errorf("failed to store vector for note %d: %w", note.Id, err)
		}
	}

	return nil
}
