package search

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

// Engine answers hybrid queries over encrypted notes: a deterministic
// keyword leg through the blind index, merged with a semantic leg through
// nearest-neighbor vector search.
type Engine struct {
	indexRepository storage.IndexRepository
	codec           *crypto.Codec
	embedder        ai.Embedder
	embedTimeout    time.Duration
	logger          *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithEmbedTimeout bounds the embedding-provider call made by Search.
// Default is 10s.
func WithEmbedTimeout(d time.Duration) Option {
	return func(e *Engine) error {
		if d > 0 {
			e.embedTimeout = d
		}
		return nil
	}
}

// NewEngine creates a new hybrid search engine.
func NewEngine(
	indexRepository storage.IndexRepository,
	codec *crypto.Codec,
	provider ai.Provider,
	opts ...Option,
) (*Engine, error) {
	if indexRepository == nil {
		return nil, ErrIndexRepositoryRequired
	}
	if codec == nil {
		return nil, ErrCodecRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	e := &Engine{
		indexRepository: indexRepository,
		codec:           codec,
		embedder:        provider.Embedder(),
		embedTimeout:    defaultEmbedTimeout,
		logger:          slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Search returns up to limit note IDs matching the query within the tenant
// scope. Search is read-only: it never mutates the blind index or the
// vector index, so cancelling it mid-flight cannot corrupt stored state.
func (e *Engine) Search(ctx context.Context, query string, tenant core.TenantID, limit int) ([]core.ID, error) {
	return e.SearchWithMonitor(ctx, query, tenant, limit, nil)
}

// SearchWithMonitor runs Search with hooks observing each stage.
//
// The keyword leg tokenizes and hashes the query and looks the hashes up in
// the blind index. The semantic leg embeds the query and ranks stored
// vectors by distance; if the embedding provider fails or times out, the
// leg is skipped and keyword results are returned alone — a degraded
// search, never a failed one.
//
// Merge ordering: semantic matches first, in distance order; keyword-only
// matches appended after in their stable lookup order.
func (e *Engine) SearchWithMonitor(ctx context.Context, query string, tenant core.TenantID, limit int, monitor Monitor) ([]core.ID, error) {
	if tenant == 0 {
		return nil, core.ErrTenantRequired
	}
	if limit <= 0 {
		return []core.ID{}, nil
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	// 1. Keyword leg: exact matches through the blind index.
	hashes := e.codec.TermHashes(query)
	var keywordIds []core.ID
	if len(hashes) > 0 {
		var err error
		keywordIds, err = e.indexRepository.LookupTerms(ctx, tenant, hashes)
		if err != nil {
			e.logger.Error("blind index lookup failed", "err", err)
			return nil, err
		}
	}
	monitor.AfterKeywordSearch(keywordIds)

	// 2. Semantic leg: best-effort nearest-neighbor ranking.
	semantic := e.semanticLeg(ctx, query, tenant, limit, monitor)

	// 3. Merge: semantic order wins, keyword-only IDs follow.
	merged := make([]core.ID, 0, len(semantic)+len(keywordIds))
	seen := make(map[core.ID]bool, len(semantic)+len(keywordIds))
	for _, match := range semantic {
		if !seen[match.NoteId] {
			seen[match.NoteId] = true
			merged = append(merged, match.NoteId)
		}
	}
	for _, id := range keywordIds {
		if !seen[id] {
			seen[id] = true
			merged = append(merged, id)
		}
	}

	if len(merged) > limit {
		merged = merged[:limit]
	}
	monitor.Finish(merged)

	return merged, nil
}

// semanticLeg embeds the query and ranks the tenant's vectors. Any failure
// is logged and reported to the monitor, and an empty result returned: the
// overall search must still succeed on keyword matches alone.
func (e *Engine) semanticLeg(ctx context.Context, query string, tenant core.TenantID, limit int, monitor Monitor) []core.VectorMatch {
	embedCtx, cancel := context.WithTimeout(ctx, e.embedTimeout)
	defer cancel()

	vector, err := e.embedder.EmbedText(embedCtx, query)
	if err != nil {
		e.logger.Warn("embedding provider failed, degrading to keyword-only search", "err", err)
		monitor.SemanticLegSkipped(err)
		return nil
	}

	matches, err := e.indexRepository.NearestVectors(ctx, tenant, vector, limit)
	if err != nil {
		e.logger.Warn("vector search failed, degrading to keyword-only search", "err", err)
		monitor.SemanticLegSkipped(err)
		return nil
	}

	monitor.AfterSemanticSearch(matches)
	return matches
}
