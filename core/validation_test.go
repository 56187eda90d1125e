package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validNote() *NoteRecord {
	return &NoteRecord{
		TenantId:  1,
		PatientId: 2,
		Content:   "ciphertext",
		AuthorId:  "dr.adams",
	}
}

func validVersion() *NoteVersion {
	return &NoteVersion{
		NoteId:       1,
		TenantId:     1,
		PriorContent: "prior ciphertext",
		EditedBy:     "dr.brown",
	}
}

func TestValidateNote(t *testing.T) {
	t.Run("valid note passes", func(t *testing.T) {
		assert.NoError(t, ValidateNote(validNote()))
	})

	t.Run("nil note", func(t *testing.T) {
		assert.ErrorIs(t, ValidateNote(nil), ErrInvalidNote)
	})

	t.Run("missing tenant", func(t *testing.T) {
		note := validNote()
		note.TenantId = 0
		err := ValidateNote(note)
		assert.ErrorIs(t, err, ErrInvalidNote)
		assert.ErrorIs(t, err, ErrTenantRequired)
	})

	t.Run("empty content", func(t *testing.T) {
		note := validNote()
		note.Content = ""
		assert.ErrorIs(t, ValidateNote(note), ErrEmptyContent)
	})

	t.Run("empty author", func(t *testing.T) {
		note := validNote()
		note.AuthorId = ""
		assert.ErrorIs(t, ValidateNote(note), ErrEmptyAuthor)
	})

	t.Run("zero ID is allowed before assignment", func(t *testing.T) {
		note := validNote()
		note.Id = 0
		assert.NoError(t, ValidateNote(note))
	})
}

func TestValidateVersion(t *testing.T) {
	t.Run("valid version passes", func(t *testing.T) {
		assert.NoError(t, ValidateVersion(validVersion()))
	})

	t.Run("nil version", func(t *testing.T) {
		assert.ErrorIs(t, ValidateVersion(nil), ErrInvalidVersion)
	})

	t.Run("missing tenant", func(t *testing.T) {
		v := validVersion()
		v.TenantId = 0
		assert.ErrorIs(t, ValidateVersion(v), ErrTenantRequired)
	})

	t.Run("missing note id", func(t *testing.T) {
		v := validVersion()
		v.NoteId = 0
		assert.ErrorIs(t, ValidateVersion(v), ErrInvalidVersion)
	})

	t.Run("empty prior content", func(t *testing.T) {
		v := validVersion()
		v.PriorContent = ""
		assert.ErrorIs(t, ValidateVersion(v), ErrEmptyContent)
	})

	t.Run("empty editor", func(t *testing.T) {
		v := validVersion()
		v.EditedBy = ""
		assert.ErrorIs(t, ValidateVersion(v), ErrEmptyEditor)
	})
}
