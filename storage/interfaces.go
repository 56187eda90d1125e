package storage

import (
	"context"

	"github.com/clearchart/notevault/core"
)

// NoteEdit describes one edit to a note as a single logical operation.
// It cannot be constructed meaningfully without the prior-state snapshot,
// which forces the snapshot-then-mutate ordering: the version is written
// from Snapshot in the same transaction that persists Note.
type NoteEdit struct {
	// Note carries the new state: content already encrypted, metadata updated.
	Note *core.NoteRecord

	// Snapshot is the note's state as it existed before this edit. Its
	// PriorContent must match the currently stored encrypted content, or the
	// edit is rejected with ErrEditConflict.
	Snapshot *core.NoteVersion

	// TermHashes is the blind-index term set derived from the new plaintext.
	// It replaces the note's previous term set atomically with the edit.
	TermHashes []core.TermHash
}

// NoteRepository provides operations for managing note records.
// Implementations must be thread-safe and scope every operation to the
// tenant carried by the arguments; a zero tenant is rejected with
// core.ErrTenantRequired.
type NoteRepository interface {
	// AddNote persists a new note together with its initial blind-index term
	// set, atomically. Generates the ID from a sequence and sets timestamps.
	// Returns the note with ID and timestamps populated.
	AddNote(ctx context.Context, note *core.NoteRecord, termHashes []core.TermHash) (*core.NoteRecord, error)

	// ApplyEdit atomically appends the prior-state snapshot to the version
	// ledger, persists the new note state, and replaces the blind-index term
	// set. Nothing is applied if any step fails. Returns the appended version.
	// Returns ErrEditConflict if the snapshot does not match the stored state,
	// ErrNotFound if the note does not exist.
	ApplyEdit(ctx context.Context, edit *NoteEdit) (*core.NoteVersion, error)

	// GetNote retrieves a single note by ID within the tenant scope.
	// Returns ErrNotFound if the note doesn't exist in that tenant.
	GetNote(ctx context.Context, tenant core.TenantID, id core.ID) (*core.NoteRecord, error)

	// GetNotes retrieves multiple notes by their IDs within the tenant scope.
	// Returns only the notes that exist (no error for missing notes).
	GetNotes(ctx context.Context, tenant core.TenantID, ids ...core.ID) ([]*core.NoteRecord, error)

	// GetNotesByPatient retrieves the notes recorded for one patient,
	// ordered by creation time.
	GetNotesByPatient(ctx context.Context, tenant core.TenantID, patientID core.ID) ([]*core.NoteRecord, error)

	// NotesForTenant retrieves every note in the tenant scope, ordered by ID.
	// Intended for maintenance scans such as re-embedding after a model change.
	NotesForTenant(ctx context.Context, tenant core.TenantID) ([]*core.NoteRecord, error)

	// Close releases resources held by the repository.
	Close() error
}

// IndexRepository maintains the searchable indexes derived from note content:
// the blind-index term entries and the per-note embedding vector.
type IndexRepository interface {
	// ReindexTerms replaces all blind-index entries for a note with exactly
	// the given set, as one all-or-nothing operation. A failure leaves the
	// previous entries intact and is reported as ErrIndexReplaceFailed.
	ReindexTerms(ctx context.Context, tenant core.TenantID, noteID core.ID, termHashes []core.TermHash) error

	// LookupTerms returns the IDs of every note having at least one of the
	// given term hashes (OR semantics). IDs are deduplicated and returned in
	// first-match order following the order of the given hashes.
	LookupTerms(ctx context.Context, tenant core.TenantID, termHashes []core.TermHash) ([]core.ID, error)

	// UpsertVector replaces the stored embedding vector for a note.
	// At most one vector exists per note.
	UpsertVector(ctx context.Context, record *core.VectorRecord) error

	// NearestVectors returns up to limit notes ranked by ascending cosine
	// distance to the query vector, ties broken by most recent vector update.
	// Notes without a vector are simply absent.
	NearestVectors(ctx context.Context, tenant core.TenantID, vector []float32, limit int) ([]core.VectorMatch, error)

	// Close releases resources held by the repository.
	Close() error
}

// VersionRepository provides access to the append-only edit history of notes.
// Versions are never updated or deleted.
type VersionRepository interface {
	// AppendVersion appends an immutable version snapshot. Generates the ID
	// from a sequence and sets EditedAt if unset. Returns the version with
	// ID and timestamp populated.
	AppendVersion(ctx context.Context, version *core.NoteVersion) (*core.NoteVersion, error)

	// VersionsFor returns every version of a note in creation order,
	// oldest first. This is the only supported access pattern.
	VersionsFor(ctx context.Context, tenant core.TenantID, noteID core.ID) ([]*core.NoteVersion, error)

	// LatestVersion returns the most recently appended version for a note.
	// Returns ErrNotFound if the note has no versions.
	LatestVersion(ctx context.Context, tenant core.TenantID, noteID core.ID) (*core.NoteVersion, error)

	// Close releases resources held by the repository.
	Close() error
}
