package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written mus serializers for the badger value format. Timestamps are
// encoded as Unix microseconds and decoded back to UTC.

// IDMUS serializes ID values.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

// TenantIDMUS serializes TenantID values.
var TenantIDMUS = tenantIDMUS{}

type tenantIDMUS struct{}

func (tenantIDMUS) Marshal(v TenantID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (tenantIDMUS) Unmarshal(bs []byte) (v TenantID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return TenantID(u), n, err
}

func (tenantIDMUS) Size(v TenantID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

// timeMUS serializes time.Time as Unix microseconds.
var timeMUS = timeMicroMUS{}

type timeMicroMUS struct{}

func (timeMicroMUS) Marshal(v time.Time, bs []byte) (n int) {
	return raw.Int64.Marshal(v.UnixMicro(), bs)
}

func (timeMicroMUS) Unmarshal(bs []byte) (v time.Time, n int, err error) {
	us, n, err := raw.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(us).UTC(), n, nil
}

func (timeMicroMUS) Size(v time.Time) (size int) {
	return raw.Int64.Size(v.UnixMicro())
}

// vectorMUS serializes embedding vectors as a length-prefixed float32 slice.
var vectorMUS = float32SliceMUS{}

type float32SliceMUS struct{}

func (float32SliceMUS) Marshal(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return n
}

func (float32SliceMUS) Unmarshal(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length == 0 {
		return nil, n, nil
	}
	v = make([]float32, length)
	for i := 0; i < length; i++ {
		var n1 int
		v[i], n1, err = raw.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
	}
	return v, n, nil
}

func (float32SliceMUS) Size(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += raw.Float32.Size(f)
	}
	return size
}

// NoteRecordMUS serializes NoteRecord values.
var NoteRecordMUS = noteRecordMUS{}

type noteRecordMUS struct{}

func (noteRecordMUS) Marshal(v NoteRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += TenantIDMUS.Marshal(v.TenantId, bs[n:])
	n += IDMUS.Marshal(v.PatientId, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += ord.String.Marshal(v.Tooth, bs[n:])
	n += ord.String.Marshal(v.Category, bs[n:])
	n += ord.String.Marshal(v.AuthorId, bs[n:])
	n += timeMUS.Marshal(v.CreatedAt, bs[n:])
	n += timeMUS.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (noteRecordMUS) Unmarshal(bs []byte) (v NoteRecord, n int, err error) {
	var n1 int
	if v.Id, n1, err = IDMUS.Unmarshal(bs); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.TenantId, n1, err = TenantIDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.PatientId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Tooth, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Category, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.AuthorId, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (noteRecordMUS) Size(v NoteRecord) (size int) {
	size = IDMUS.Size(v.Id)
	size += TenantIDMUS.Size(v.TenantId)
	size += IDMUS.Size(v.PatientId)
	size += ord.String.Size(v.Content)
	size += ord.String.Size(v.Tooth)
	size += ord.String.Size(v.Category)
	size += ord.String.Size(v.AuthorId)
	size += timeMUS.Size(v.CreatedAt)
	size += timeMUS.Size(v.UpdatedAt)
	return size
}

// NoteVersionMUS serializes NoteVersion values.
var NoteVersionMUS = noteVersionMUS{}

type noteVersionMUS struct{}

func (noteVersionMUS) Marshal(v NoteVersion, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.NoteId, bs[n:])
	n += TenantIDMUS.Marshal(v.TenantId, bs[n:])
	n += ord.String.Marshal(v.PriorContent, bs[n:])
	n += ord.String.Marshal(v.Tooth, bs[n:])
	n += ord.String.Marshal(v.Category, bs[n:])
	n += ord.String.Marshal(v.EditedBy, bs[n:])
	n += ord.String.Marshal(v.Reason, bs[n:])
	n += timeMUS.Marshal(v.EditedAt, bs[n:])
	return n
}

func (noteVersionMUS) Unmarshal(bs []byte) (v NoteVersion, n int, err error) {
	var n1 int
	if v.Id, n1, err = IDMUS.Unmarshal(bs); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.NoteId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.TenantId, n1, err = TenantIDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.PriorContent, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Tooth, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Category, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.EditedBy, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Reason, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.EditedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (noteVersionMUS) Size(v NoteVersion) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.NoteId)
	size += TenantIDMUS.Size(v.TenantId)
	size += ord.String.Size(v.PriorContent)
	size += ord.String.Size(v.Tooth)
	size += ord.String.Size(v.Category)
	size += ord.String.Size(v.EditedBy)
	size += ord.String.Size(v.Reason)
	size += timeMUS.Size(v.EditedAt)
	return size
}

// VectorRecordMUS serializes VectorRecord values.
var VectorRecordMUS = vectorRecordMUS{}

type vectorRecordMUS struct{}

func (vectorRecordMUS) Marshal(v VectorRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.NoteId, bs)
	n += TenantIDMUS.Marshal(v.TenantId, bs[n:])
	n += vectorMUS.Marshal(v.Vector, bs[n:])
	n += timeMUS.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (vectorRecordMUS) Unmarshal(bs []byte) (v VectorRecord, n int, err error) {
	var n1 int
	if v.NoteId, n1, err = IDMUS.Unmarshal(bs); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.TenantId, n1, err = TenantIDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (vectorRecordMUS) Size(v VectorRecord) (size int) {
	size = IDMUS.Size(v.NoteId)
	size += TenantIDMUS.Size(v.TenantId)
	size += vectorMUS.Size(v.Vector)
	size += timeMUS.Size(v.UpdatedAt)
	return size
}

// TermSetMUS serializes the set of term hashes currently indexed for a note.
var TermSetMUS = termSetMUS{}

type termSetMUS struct{}

func (termSetMUS) Marshal(v []TermHash, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, th := range v {
		n += ord.String.Marshal(string(th), bs[n:])
	}
	return n
}

func (termSetMUS) Unmarshal(bs []byte) (v []TermHash, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length == 0 {
		return nil, n, nil
	}
	v = make([]TermHash, length)
	for i := 0; i < length; i++ {
		var (
			s  string
			n1 int
		)
		s, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
		v[i] = TermHash(s)
	}
	return v, n, nil
}

func (termSetMUS) Size(v []TermHash) (size int) {
	size = varint.Int.Size(len(v))
	for _, th := range v {
		size += ord.String.Size(string(th))
	}
	return size
}
