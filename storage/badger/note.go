package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/clearchart/notevault/core"
	"github.com/clearchart/notevault/storage"
)

// NoteRepository implements storage.NoteRepository for BadgerDB.
type NoteRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
	verSeq  *badger.Sequence
}

var _ storage.NoteRepository = (*NoteRepository)(nil)

// NewNoteRepository creates a new NoteRepository.
func NewNoteRepository(backend *Backend) (*NoteRepository, error) {
	idSeq, err := backend.GetSequence(noteRecordIDSeq)
	if err != nil {
		return nil, err
	}
	verSeq, err := backend.GetSequence(noteVersionIDSeq)
	if err != nil {
		idSeq.Release()
		return nil, err
	}

	return &NoteRepository{
		backend: backend,
		idSeq:   idSeq,
		verSeq:  verSeq,
	}, nil
}

// Close releases the ID sequences.
func (r *NoteRepository) Close() error {
	if err := r.verSeq.Release(); err != nil {
		return err
	}
	return r.idSeq.Release()
}

// AddNote persists a new note and its initial blind-index term set atomically.
func (r *NoteRepository) AddNote(ctx context.Context, note *core.NoteRecord, termHashes []core.TermHash) (*core.NoteRecord, error) {
	if err := core.ValidateNote(note); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		nextID, err := r.nextID(r.idSeq)
		if err != nil {
			return err
		}
		note.Id = core.ID(nextID)

		note.CreatedAt = time.Now().UTC()
		note.UpdatedAt = note.CreatedAt

		// Store primary record
		key := makeNoteKey(note.TenantId, note.Id)
		if err := tx.Set(key, storage.MarshalNote(note)); err != nil {
			return err
		}

		// Update patient index
		if note.PatientId != 0 {
			patKey := makePatientKey(note.TenantId, note.PatientId, note.Id)
			if err := tx.Set(patKey, storage.MarshalID(note.Id)); err != nil {
				return err
			}
		}

		// Write the initial term index
		if err := replaceTermIndex(tx, note.TenantId, note.Id, termHashes); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return note, nil
}

// ApplyEdit appends the prior-state snapshot, persists the new note state,
// and replaces the blind-index term set, all in one transaction. The
// snapshot must match the stored state or the edit is rejected.
func (r *NoteRepository) ApplyEdit(ctx context.Context, edit *storage.NoteEdit) (*core.NoteVersion, error) {
	if edit == nil || edit.Note == nil || edit.Snapshot == nil {
		return nil, storage.ErrEditConflict
	}
	note, snapshot := edit.Note, edit.Snapshot
	if err := core.ValidateNote(note); err != nil {
		return nil, err
	}
	if err := core.ValidateVersion(snapshot); err != nil {
		return nil, err
	}
	if snapshot.TenantId != note.TenantId || snapshot.NoteId != note.Id {
		return nil, storage.ErrEditConflict
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeNoteKey(note.TenantId, note.Id)
		stored, err := readNote(tx, key)
		if err != nil {
			return err
		}
		if stored == nil {
			return storage.ErrNotFound
		}

		// The snapshot must capture the state being replaced. A mismatch
		// means the caller raced another edit or snapshotted after mutating.
		if stored.Content != snapshot.PriorContent {
			return storage.ErrEditConflict
		}

		verID, err := r.nextID(r.verSeq)
		if err != nil {
			return err
		}
		snapshot.Id = core.ID(verID)
		snapshot.EditedAt = time.Now().UTC()

		verKey := makeVersionKey(snapshot.TenantId, snapshot.NoteId, snapshot.EditedAt, snapshot.Id)
		if err := tx.Set(verKey, storage.MarshalVersion(snapshot)); err != nil {
			return err
		}

		// Persist the new state, preserving creation metadata.
		note.CreatedAt = stored.CreatedAt
		note.PatientId = stored.PatientId
		note.UpdatedAt = time.Now().UTC()
		if err := tx.Set(key, storage.MarshalNote(note)); err != nil {
			return err
		}

		if err := replaceTermIndex(tx, note.TenantId, note.Id, edit.TermHashes); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return edit.Snapshot, nil
}

// GetNote retrieves a single note by ID within the tenant scope.
func (r *NoteRepository) GetNote(ctx context.Context, tenant core.TenantID, id core.ID) (*core.NoteRecord, error) {
	if tenant == 0 {
		return nil, core.ErrTenantRequired
	}

	var result *core.NoteRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readNote(tx, makeNoteKey(tenant, id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetNotes retrieves multiple notes by their IDs within the tenant scope.
func (r *NoteRepository) GetNotes(ctx context.Context, tenant core.TenantID, ids ...core.ID) ([]*core.NoteRecord, error) {
	if tenant == 0 {
		return nil, core.ErrTenantRequired
	}

	var result []*core.NoteRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			note, err := readNote(tx, makeNoteKey(tenant, id))
			if err != nil {
				return err
			}
			if note != nil {
				result = append(result, note)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetNotesByPatient retrieves the notes recorded for one patient.
func (r *NoteRepository) GetNotesByPatient(ctx context.Context, tenant core.TenantID, patientID core.ID) ([]*core.NoteRecord, error) {
	if tenant == 0 {
		return nil, core.ErrTenantRequired
	}

	var results []*core.NoteRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialPatientKey(tenant, patientID)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

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

			note, err := readNote(tx, makeNoteKey(tenant, noteID))
			if err != nil {
				return err
			}
			if note != nil {
				results = append(results, note)
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.NoteRecord) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return results, nil
}

// NotesForTenant retrieves every note in the tenant scope, ordered by ID.
func (r *NoteRepository) NotesForTenant(ctx context.Context, tenant core.TenantID) ([]*core.NoteRecord, error) {
	if tenant == 0 {
		return nil, core.ErrTenantRequired
	}

	var results []*core.NoteRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialNoteKey(tenant)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var note *core.NoteRecord
			if err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				note, unmarshalErr = storage.UnmarshalNote(val)
				return unmarshalErr
			}); err != nil {
				return err
			}
			if note != nil {
				results = append(results, note)
			}
		}
		return nil
	}, false)

	return results, err
}

// nextID draws the next ID from a sequence, skipping the 0 that BadgerDB
// sequences can return on first use.
func (r *NoteRepository) nextID(seq *badger.Sequence) (uint64, error) {
	next, err := seq.Next()
	if err != nil {
		return 0, err
	}
	if next == 0 {
		next, err = seq.Next()
		if err != nil {
			return 0, err
		}
	}
	return next, nil
}

// readNote reads a note record from the transaction.
// Returns nil, nil when the key does not exist.
func readNote(tx *badger.Txn, key []byte) (*core.NoteRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var note *core.NoteRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		note, unmarshalErr = storage.UnmarshalNote(val)
		return unmarshalErr
	})
	return note, err
}
