package core

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated from database sequences.
type ID uint64

// TenantID identifies the isolation boundary every record belongs to.
// All repository operations are scoped to exactly one tenant; the zero
// value is invalid.
type TenantID uint64

// TermHash is the deterministic one-way hash of a normalized search term.
// It is stored in place of the term itself so that equality search works
// without decrypting note content.
type TermHash string

// HashTerm computes the blind-index hash for a single term using
// BLAKE2b-256 over the case-folded input. The hash is stable across
// process restarts and is never reversible.
func HashTerm(term string) TermHash {
	h, _ := blake2b.New(32, nil)
	h.Write([]byte(term))
	return TermHash(hex.EncodeToString(h.Sum(nil)))
}

// IDFromContent generates a deterministic ID from text content using BLAKE2b
// hashing. This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// NoteRecord represents a clinical note. Content is stored encrypted; the
// structured metadata fields are not sensitive and remain plaintext.
type NoteRecord struct {
	Id        ID
	TenantId  TenantID
	PatientId ID
	Content   string // ciphertext produced by crypto.Codec
	Tooth     string // metadata: tooth designation, e.g. "19", "FM"
	Category  string // metadata: note type, e.g. "EMERGENCY"
	AuthorId  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteVersion is an immutable snapshot of a note's state as it existed
// immediately before an edit. Versions are append-only: they are never
// updated or deleted once written.
type NoteVersion struct {
	Id           ID
	NoteId       ID
	TenantId     TenantID
	PriorContent string // encrypted content before the edit
	Tooth        string
	Category     string
	EditedBy     string
	Reason       string
	EditedAt     time.Time
}

// VectorRecord holds the current semantic fingerprint of a note. At most one
// exists per note; edits replace it rather than accumulate.
type VectorRecord struct {
	NoteId    ID
	TenantId  TenantID
	Vector    []float32
	UpdatedAt time.Time
}

// VectorMatch is a note match from nearest-neighbor vector search.
// Distance is cosine distance; smaller is closer.
type VectorMatch struct {
	NoteId   ID
	Distance float32
}
