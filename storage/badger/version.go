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


package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/clearchart/notevault/core"
	"github.com/clearchart/notevault/storage"
)

// VersionRepository implements storage.VersionRepository for BadgerDB.
// The ledger is append-only: this repository has no update or delete path.
type VersionRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.VersionRepository = (*VersionRepository)(nil)

// NewVersionRepository creates a new VersionRepository.
func NewVersionRepository(backend *Backend) (*VersionRepository, error) {
	idSeq, err := backend.GetSequence(noteVersionIDSeq)
	if err != nil {
		return nil, err
	}

	return &VersionRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *VersionRepository) Close() error {
	return r.idSeq.Release()
}

// AppendVersion appends an immutable version snapshot.
func (r *VersionRepository) AppendVersion(ctx context.Context, version *core.NoteVersion) (*core.NoteVersion, error) {
	if err := core.ValidateVersion(version); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		nextID, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		if nextID == 0 {
			nextID, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}
		version.Id = core.ID(nextID)

		if version.EditedAt.IsZero() {
			version.EditedAt = time.Now().UTC()
		}

		key := makeVersionKey(version.TenantId, version.NoteId, version.EditedAt, version.Id)
		if err := tx.Set(key, storage.MarshalVersion(version)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return version, nil
}

// VersionsFor returns every version of a note in creation order, oldest first.
func (r *VersionRepository) VersionsFor(ctx context.Context, tenant core.TenantID, noteID core.ID) ([]*core.NoteVersion, error) {
	if tenant == 0 {
		return nil, core.ErrTenantRequired
	}

	var results []*core.NoteVersion
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialVersionKey(tenant, noteID)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(prefix); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || !slices.Equal(key[:len(prefix)], prefix) {
				break
			}

			var version *core.NoteVersion
			if err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				version, unmarshalErr = storage.UnmarshalVersion(val)
				return unmarshalErr
			}); err != nil {
				return err
			}
			if version != nil {
				results = append(results, version)
			}
		}
		return nil
	}, false)

	return results, err
}

// LatestVersion returns the most recently appended version for a note.
func (r *VersionRepository) LatestVersion(ctx context.Context, tenant core.TenantID, noteID core.ID) (*core.NoteVersion, error) {
	versions, err := r.VersionsFor(ctx, tenant, noteID)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, storage.ErrNotFound
	}
	return versions[len(versions)-1], nil
}
