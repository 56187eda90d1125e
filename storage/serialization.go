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


package storage

import (
	"github.com/clearchart/notevault/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalNote serializes a NoteRecord to bytes.
func MarshalNote(note *core.NoteRecord) []byte {
	buf := make([]byte, core.NoteRecordMUS.Size(*note))
	core.NoteRecordMUS.Marshal(*note, buf)
	return buf
}

// UnmarshalNote deserializes a NoteRecord from bytes.
func UnmarshalNote(data []byte) (*core.NoteRecord, error) {
	note, _, err := core.NoteRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// MarshalVersion serializes a NoteVersion to bytes.
func MarshalVersion(version *core.NoteVersion) []byte {
	buf := make([]byte, core.NoteVersionMUS.Size(*version))
	core.NoteVersionMUS.Marshal(*version, buf)
	return buf
}

// UnmarshalVersion deserializes a NoteVersion from bytes.
func UnmarshalVersion(data []byte) (*core.NoteVersion, error) {
	version, _, err := core.NoteVersionMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &version, nil
}

// MarshalVectorRecord serializes a VectorRecord to bytes.
func MarshalVectorRecord(record *core.VectorRecord) []byte {
	buf := make([]byte, core.VectorRecordMUS.Size(*record))
	core.VectorRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalVectorRecord deserializes a VectorRecord from bytes.
func UnmarshalVectorRecord(data []byte) (*core.VectorRecord, error) {
	record, _, err := core.VectorRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalTermSet serializes a note's indexed term hashes to bytes.
func MarshalTermSet(hashes []core.TermHash) []byte {
	buf := make([]byte, core.TermSetMUS.Size(hashes))
	core.TermSetMUS.Marshal(hashes, buf)
	return buf
}

// UnmarshalTermSet deserializes a note's indexed term hashes from bytes.
func UnmarshalTermSet(data []byte) ([]core.TermHash, error) {
	hashes, _, err := core.TermSetMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return hashes, nil
}
