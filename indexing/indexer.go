package indexing

import (
	"context"
	"log/slog"
	"time"

	"github.com/clearchart/notevault/ai"
	"github.com/clearchart/notevault/core"
	"github.com/clearchart/notevault/crypto"
	"github.com/clearchart/notevault/storage"
)

const defaultEmbedTimeout = 10 * time.Second

// Indexer derives the searchable artifacts from a note's plaintext: the
// blind-index term set and the embedding vector. Plaintext never touches
// storage; only hashes and vectors leave this package.
type Indexer struct {
	indexRepository storage.IndexRepository
	codec           *crypto.Codec
	embedder        ai.Embedder
	embedTimeout    time.Duration
	logger          *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
		return nil
	}
}

// WithEmbedTimeout bounds each embedding-provider call.
// Default is 10s.
func WithEmbedTimeout(d time.Duration) Option {
	return func(i *Indexer) error {
		if d > 0 {
			i.embedTimeout = d
		}
		return nil
	}
}

// NewIndexer creates a new Indexer.
func NewIndexer(
	indexRepository storage.IndexRepository,
	codec *crypto.Codec,
	provider ai.Provider,
	opts ...Option,
) (*Indexer, error) {
	if indexRepository == nil {
		return nil, ErrIndexRepositoryRequired
	}
	if codec == nil {
		return nil, ErrCodecRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	i := &Indexer{
		indexRepository: indexRepository,
		codec:           codec,
		embedder:        provider.Embedder(),
		embedTimeout:    defaultEmbedTimeout,
		logger:          slog.Default().With("component", "indexer"),
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}

	return i, nil
}

// TermHashes derives the blind-index term set for a plaintext. Exposed so
// callers can compute the set that a storage-level edit will install.
func (i *Indexer) TermHashes(plaintext string) []core.TermHash {
	return i.codec.TermHashes(plaintext)
}

// IndexNote rebuilds both indexes for a note from its plaintext. The term
// reindex is mandatory: a failure is returned to the caller. The vector
// refresh depends on a remote provider and is best-effort: a failure is
// logged and the note stays findable by keyword until the next refresh.
//
// IndexNote is idempotent; rerunning it converges on the same state.
func (i *Indexer) IndexNote(ctx context.Context, tenant core.TenantID, noteID core.ID, plaintext string) error {
	hashes := i.codec.TermHashes(plaintext)
	if err := i.indexRepository.ReindexTerms(ctx, tenant, noteID, hashes); err != nil {
		return err
	}

	if err := i.RefreshVector(ctx, tenant, noteID, plaintext); err != nil {
		i.logger.Warn("vector refresh failed, note remains keyword-searchable",
			"note", noteID, "err", err)
	}
	return nil
}

// RefreshVector embeds the plaintext and replaces the note's stored vector.
func (i *Indexer) RefreshVector(ctx context.Context, tenant core.TenantID, noteID core.ID, plaintext string) error {
	embedCtx, cancel := context.WithTimeout(ctx, i.embedTimeout)
	defer cancel()

	vector, err := i.embedder.EmbedText(embedCtx, plaintext)
	if err != nil {
		return err
	}

	return i.indexRepository.UpsertVector(ctx, &core.VectorRecord{
		NoteId:   noteID,
		TenantId: tenant,
		Vector:   vector,
	})
}
