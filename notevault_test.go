package notevault

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearchart/notevault/crypto"
)

func testKey() []byte {
	return []byte("0123456789abcdef0123456789abcdef")
}

func TestNewVault(t *testing.T) {
	t.Run("create new vault", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_vault")
		vault, err := NewVault(tmpDir, testKey())
		require.NoError(t, err)
		require.NotNil(t, vault)
		defer vault.Close()

		// Verify components are initialized
		assert.NotNil(t, vault.NoteRepository())
		assert.NotNil(t, vault.IndexRepository())
		assert.NotNil(t, vault.VersionRepository())
		assert.NotNil(t, vault.Codec())
		assert.NotNil(t, vault.backend)
		assert.NotNil(t, vault.logger)
	})

	t.Run("rejects bad key", func(t *testing.T) {
		vault, err := NewVault(t.TempDir(), []byte("short"))
		assert.ErrorIs(t, err, crypto.ErrInvalidKey)
		assert.Nil(t, vault)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to open a vault at a file path instead of a directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		vault, err := NewVault(tmpFile, testKey())
		assert.Error(t, err)
		assert.Nil(t, vault)
	})

	t.Run("in-memory storage", func(t *testing.T) {
		vault, err := NewVault("", testKey(), WithInMemoryStorage())
		require.NoError(t, err)
		require.NotNil(t, vault)
		assert.NoError(t, vault.Close())
	})
}

func TestVault_Close(t *testing.T) {
	vault, err := NewVault(t.TempDir(), testKey())
	require.NoError(t, err)
	require.NotNil(t, vault)

	err = vault.Close()
	assert.NoError(t, err)
}

func TestVault_FactoryMethods(t *testing.T) {
	vault, err := NewVault("", testKey(), WithInMemoryStorage())
	require.NoError(t, err)
	require.NotNil(t, vault)
	defer vault.Close()

	t.Run("can create indexer", func(t *testing.T) {
		indexer, err := vault.NewIndexer()
		require.NoError(t, err)
		require.NotNil(t, indexer)
	})

	t.Run("can create search engine", func(t *testing.T) {
		engine, err := vault.NewSearchEngine()
		require.NoError(t, err)
		require.NotNil(t, engine)
	})

	t.Run("can create ledger", func(t *testing.T) {
		ldgr, err := vault.NewLedger()
		require.NoError(t, err)
		require.NotNil(t, ldgr)
	})

	t.Run("can create note service", func(t *testing.T) {
		service, err := vault.NewNoteService()
		require.NoError(t, err)
		require.NotNil(t, service)
		service.Release()
	})
}
