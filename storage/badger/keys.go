package badger

import (
	"encoding/binary"
	"time"

	"github.com/clearchart/notevault/core"
)

// Key prefixes for different data types. Every key embeds the tenant right
// after its prefix so that no scan can cross a tenant boundary.
const (
	noteRecordPrefix  = "notrec"
	notePatientPrefix = "notpat"
	noteVersionPrefix = "notver"
	noteVectorPrefix  = "notvec"
	blindIndexPrefix  = "blidx"
	noteTermSetPrefix = "blterms"
	noteRecordIDSeq   = "notrecseq"
	noteVersionIDSeq  = "notverseq"
)

func appendUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	// BigEndian so lexicographic sort matches numeric order
	binary.BigEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

// makeNoteKey generates a key for a note record by tenant and ID.
func makeNoteKey(tenant core.TenantID, id core.ID) []byte {
	buf := []byte(noteRecordPrefix + ":")
	buf = appendUint64(buf, uint64(tenant))
	return appendUint64(buf, uint64(id))
}

// makePartialNoteKey generates the scan prefix for all of a tenant's notes.
func makePartialNoteKey(tenant core.TenantID) []byte {
	buf := []byte(noteRecordPrefix + ":")
	return appendUint64(buf, uint64(tenant))
}

// makePatientKey generates a composite key for the patient index.
// Format: prefix:tenant:patientID:noteID
func makePatientKey(tenant core.TenantID, patientID, noteID core.ID) []byte {
	buf := []byte(notePatientPrefix + ":")
	buf = appendUint64(buf, uint64(tenant))
	buf = appendUint64(buf, uint64(patientID))
	return appendUint64(buf, uint64(noteID))
}

// makePartialPatientKey generates the scan prefix for one patient's notes.
func makePartialPatientKey(tenant core.TenantID, patientID core.ID) []byte {
	buf := []byte(notePatientPrefix + ":")
	buf = appendUint64(buf, uint64(tenant))
	return appendUint64(buf, uint64(patientID))
}

// makeVersionKey generates a composite key for the version ledger.
// Format: prefix:tenant:noteID:editedAt:versionID — iterating the
// (tenant, noteID) prefix yields versions in creation order.
func makeVersionKey(tenant core.TenantID, noteID core.ID, editedAt time.Time, versionID core.ID) []byte {
	buf := []byte(noteVersionPrefix + ":")
	buf = appendUint64(buf, uint64(tenant))
	buf = appendUint64(buf, uint64(noteID))
	buf = appendUint64(buf, uint64(editedAt.UnixMicro()))
	return appendUint64(buf, uint64(versionID))
}

// makePartialVersionKey generates the scan prefix for one note's versions.
func makePartialVersionKey(tenant core.TenantID, noteID core.ID) []byte {
	buf := []byte(noteVersionPrefix + ":")
	buf = appendUint64(buf, uint64(tenant))
	return appendUint64(buf, uint64(noteID))
}

// makeVectorKey generates a key for a note's embedding vector.
func makeVectorKey(tenant core.TenantID, noteID core.ID) []byte {
	buf := []byte(noteVectorPrefix + ":")
	buf = appendUint64(buf, uint64(tenant))
	return appendUint64(buf, uint64(noteID))
}

// makePartialVectorKey generates the scan prefix for all vectors of a tenant.
func makePartialVectorKey(tenant core.TenantID) []byte {
	buf := []byte(noteVectorPrefix + ":")
	return appendUint64(buf, uint64(tenant))
}

// makeBlindIndexKey generates a composite key for a blind-index entry.
// Format: prefix:tenant:termHash:noteID
func makeBlindIndexKey(tenant core.TenantID, hash core.TermHash, noteID core.ID) []byte {
	buf := []byte(blindIndexPrefix + ":")
	buf = appendUint64(buf, uint64(tenant))
	buf = append(buf, hash...)
	return appendUint64(buf, uint64(noteID))
}

// makePartialBlindIndexKey generates the scan prefix for one term hash.
func makePartialBlindIndexKey(tenant core.TenantID, hash core.TermHash) []byte {
	buf := []byte(blindIndexPrefix + ":")
	buf = appendUint64(buf, uint64(tenant))
	return append(buf, hash...)
}

// makeTermSetKey generates the key holding the term hashes currently
// indexed for a note, used to clear stale entries on reindex.
func makeTermSetKey(tenant core.TenantID, noteID core.ID) []byte {
	buf := []byte(noteTermSetPrefix + ":")
	buf = appendUint64(buf, uint64(tenant))
	return appendUint64(buf, uint64(noteID))
}
