package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearchart/notevault/core"
	"github.com/clearchart/notevault/crypto"
	"github.com/clearchart/notevault/storage"
	"github.com/clearchart/notevault/storage/badger"
)

const testTenant = core.TenantID(5)

type ledgerFixture struct {
	ledger   *Ledger
	versions storage.VersionRepository
	codec    *crypto.Codec
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	notes, index, versions, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		notes.Close()
		index.Close()
		versions.Close()
		backend.Close()
	})

	codec, err := crypto.NewCodec([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	ledger, err := NewLedger(versions, codec)
	require.NoError(t, err)

	return &ledgerFixture{ledger: ledger, versions: versions, codec: codec}
}

// appendVersion stores a version whose prior content is the encryption of
// the given plaintext.
func (f *ledgerFixture) appendVersion(t *testing.T, noteID core.ID, plaintext, reason string, at time.Time) {
	t.Helper()

	ciphertext, err := f.codec.Encrypt(plaintext)
	require.NoError(t, err)

	_, err = f.versions.AppendVersion(context.Background(), &core.NoteVersion{
		NoteId:       noteID,
		TenantId:     testTenant,
		PriorContent: ciphertext,
		Tooth:        "19",
		Category:     "RESTORATIVE",
		EditedBy:     "dr.brown",
		Reason:       reason,
		EditedAt:     at,
	})
	require.NoError(t, err)
}

func TestNewLedger(t *testing.T) {
	codec, err := crypto.NewCodec(make([]byte, crypto.KeySize))
	require.NoError(t, err)

	t.Run("requires version repository", func(t *testing.T) {
		_, err := NewLedger(nil, codec)
		assert.ErrorIs(t, err, ErrVersionRepositoryRequired)
	})

	t.Run("requires codec", func(t *testing.T) {
		_, _, versions, backend, err := badger.NewMemoryRepositories()
		require.NoError(t, err)
		defer backend.Close()

		_, err = NewLedger(versions, nil)
		assert.ErrorIs(t, err, ErrCodecRequired)
	})
}

func TestHistory(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	f.appendVersion(t, 1, "original wording", "typo", base)
	f.appendVersion(t, 1, "corrected wording", "added detail", base.Add(time.Hour))
	f.appendVersion(t, 2, "unrelated note", "n/a", base)

	t.Run("returns decrypted entries oldest first", func(t *testing.T) {
		entries, err := f.ledger.History(ctx, testTenant, 1)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, "original wording", entries[0].Content)
		assert.Equal(t, "typo", entries[0].Reason)
		assert.Equal(t, "corrected wording", entries[1].Content)
		assert.Equal(t, "dr.brown", entries[1].EditedBy)
		assert.True(t, entries[0].EditedAt.Before(entries[1].EditedAt))
	})

	t.Run("never-edited note has empty history", func(t *testing.T) {
		entries, err := f.ledger.History(ctx, testTenant, 999)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("scoped to tenant", func(t *testing.T) {
		entries, err := f.ledger.History(ctx, core.TenantID(99), 1)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("corrupt stored content surfaces an error", func(t *testing.T) {
		_, err := f.versions.AppendVersion(ctx, &core.NoteVersion{
			NoteId:       3,
			TenantId:     testTenant,
			PriorContent: "not-real-ciphertext",
			EditedBy:     "dr.brown",
		})
		require.NoError(t, err)

		_, err = f.ledger.History(ctx, testTenant, 3)
		assert.ErrorIs(t, err, core.ErrCorruptCiphertext)
	})
}

func TestLatest(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	t.Run("no versions returns ErrNotFound", func(t *testing.T) {
		_, err := f.ledger.Latest(ctx, testTenant, 7)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("returns newest entry decrypted", func(t *testing.T) {
		base := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
		f.appendVersion(t, 7, "older state", "first", base)
		f.appendVersion(t, 7, "newer state", "second", base.Add(time.Minute))

		entry, err := f.ledger.Latest(ctx, testTenant, 7)
		require.NoError(t, err)
		assert.Equal(t, "newer state", entry.Content)
		assert.Equal(t, "second", entry.Reason)
	})
}
