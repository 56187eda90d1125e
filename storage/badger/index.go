package badger

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/clearchart/notevault/core"
	"github.com/clearchart/notevault/storage"
)

// IndexRepository implements storage.IndexRepository for BadgerDB.
// It maintains the blind-index term entries and the per-note vectors that
// the hybrid search engine queries.
type IndexRepository struct {
	backend *Backend
}

var _ storage.IndexRepository = (*IndexRepository)(nil)

// NewIndexRepository creates a new IndexRepository.
func NewIndexRepository(backend *Backend) *IndexRepository {
	return &IndexRepository{backend: backend}
}

// Close implements storage.IndexRepository. The repository holds no
// sequences of its own.
func (r *IndexRepository) Close() error {
	return nil
}

// ReindexTerms replaces all blind-index entries for a note with exactly the
// given set. The delete-then-insert runs in one transaction: concurrent
// readers observe either the old set or the new set, never a mix, and a
// failure leaves the old entries untouched.
func (r *IndexRepository) ReindexTerms(ctx context.Context, tenant core.TenantID, noteID core.ID, termHashes []core.TermHash) error {
	if tenant == 0 {
		return core.ErrTenantRequired
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if err := replaceTermIndex(tx, tenant, noteID, termHashes); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrIndexReplaceFailed, err)
	}
	return nil
}

// LookupTerms returns the IDs of every note having at least one of the given
// term hashes. OR semantics: a multi-term query matches notes containing any
// single term. IDs come back deduplicated in first-match order.
func (r *IndexRepository) LookupTerms(ctx context.Context, tenant core.TenantID, termHashes []core.TermHash) ([]core.ID, error) {
	if tenant == 0 {
		return nil, core.ErrTenantRequired
	}

	seen := make(map[core.ID]bool)
	var ids []core.ID

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for _, hash := range termHashes {
			if hash == "" {
				continue
			}
			prefix := makePartialBlindIndexKey(tenant, hash)
			for iter.Seek(prefix); iter.Valid(); iter.Next() {
				key := iter.Item().Key()
				if len(key) < len(prefix) || !slices.Equal(key[:len(prefix)], prefix) {
					break
				}

				var noteID core.ID
				if err := iter.Item().Value(func(val []byte) error {
					var err error
					noteID, err = storage.UnmarshalID(val)
					return err
				}); err != nil {
					return err
				}
				if !seen[noteID] {
					seen[noteID] = true
					ids = append(ids, noteID)
				}
			}
		}
		return nil
	}, false)

	return ids, err
}

// UpsertVector replaces the stored embedding vector for a note.
func (r *IndexRepository) UpsertVector(ctx context.Context, record *core.VectorRecord) error {
	if record == nil || record.TenantId == 0 {
		return core.ErrTenantRequired
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		record.UpdatedAt = time.Now().UTC()
		key := makeVectorKey(record.TenantId, record.NoteId)
		if err := tx.Set(key, storage.MarshalVectorRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// NearestVectors scans the tenant's vectors and returns up to limit note IDs
// ranked by ascending cosine distance, ties broken by most recent update.
func (r *IndexRepository) NearestVectors(ctx context.Context, tenant core.TenantID, vector []float32, limit int) ([]core.VectorMatch, error) {
	if tenant == 0 {
		return nil, core.ErrTenantRequired
	}

	type scored struct {
		match     core.VectorMatch
		updatedAt time.Time
	}
	var results []scored

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialVectorKey(tenant)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.VectorRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalVectorRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil || len(record.Vector) == 0 {
				continue
			}

			results = append(results, scored{
				match: core.VectorMatch{
					NoteId:   record.NoteId,
					Distance: cosineDistance(vector, record.Vector),
				},
				updatedAt: record.UpdatedAt,
			})
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Ascending distance; on a tie the most recently updated vector wins.
	slices.SortFunc(results, func(a, b scored) int {
		if a.match.Distance < b.match.Distance {
			return -1
		}
		if a.match.Distance > b.match.Distance {
			return 1
		}
		return b.updatedAt.Compare(a.updatedAt)
	})

	if len(results) > limit {
		results = results[:limit]
	}

	matches := make([]core.VectorMatch, len(results))
	for i, s := range results {
		matches[i] = s.match
	}
	return matches, nil
}

// replaceTermIndex swaps a note's blind-index entries inside an open
// transaction: the previous term set is loaded, its forward entries deleted,
// and the new entries written along with the new term set.
func replaceTermIndex(tx *badger.Txn, tenant core.TenantID, noteID core.ID, termHashes []core.TermHash) error {
	termSetKey := makeTermSetKey(tenant, noteID)

	old, err := readTermSet(tx, termSetKey)
	if err != nil {
		return err
	}
	for _, hash := range old {
		if err := tx.Delete(makeBlindIndexKey(tenant, hash, noteID)); err != nil {
			return err
		}
	}

	if len(termHashes) == 0 {
		if len(old) == 0 {
			return nil
		}
		return tx.Delete(termSetKey)
	}

	for _, hash := range termHashes {
		key := makeBlindIndexKey(tenant, hash, noteID)
		if err := tx.Set(key, storage.MarshalID(noteID)); err != nil {
			return err
		}
	}
	return tx.Set(termSetKey, storage.MarshalTermSet(termHashes))
}

// readTermSet reads the currently indexed term hashes for a note.
// Returns nil when the note has no indexed terms.
func readTermSet(tx *badger.Txn, key []byte) ([]core.TermHash, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var hashes []core.TermHash
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		hashes, unmarshalErr = storage.UnmarshalTermSet(val)
		return unmarshalErr
	})
	return hashes, err
}

// cosineDistance computes 1 - cosine similarity. Zero-magnitude vectors are
// treated as maximally distant.
func cosineDistance(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return float32(1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)))
}
