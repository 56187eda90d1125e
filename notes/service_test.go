package notes

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearchart/notevault/ai/mock"
	"github.com/clearchart/notevault/core"
	"github.com/clearchart/notevault/crypto"
	"github.com/clearchart/notevault/indexing"
	"github.com/clearchart/notevault/ledger"
	"github.com/clearchart/notevault/search"
	"github.com/clearchart/notevault/storage"
	"github.com/clearchart/notevault/storage/badger"
)

const testTenant = core.TenantID(11)

type serviceFixture struct {
	service  *Service
	notes    storage.NoteRepository
	embedder *mock.MockEmbedder
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	noteRepo, indexRepo, versionRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		noteRepo.Close()
		indexRepo.Close()
		versionRepo.Close()
		backend.Close()
	})

	codec, err := crypto.NewCodec([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	embedder.Dimension = 8
	provider := mock.NewMockProviderWithEmbedder(embedder)

	indexer, err := indexing.NewIndexer(indexRepo, codec, provider)
	require.NoError(t, err)

	engine, err := search.NewEngine(indexRepo, codec, provider)
	require.NoError(t, err)

	ldgr, err := ledger.NewLedger(versionRepo, codec)
	require.NoError(t, err)

	service, err := NewService(noteRepo, indexer, engine, ldgr, codec, WithPoolSize(1))
	require.NoError(t, err)
	t.Cleanup(service.Release)

	return &serviceFixture{service: service, notes: noteRepo, embedder: embedder}
}

func createInput(content string) *CreateNoteInput {
	return &CreateNoteInput{
		TenantId:  testTenant,
		PatientId: 42,
		Content:   content,
		Tooth:     "19",
		Category:  "RESTORATIVE",
		AuthorId:  "dr.adams",
	}
}

func TestNewService(t *testing.T) {
	f := newServiceFixture(t)

	t.Run("requires note repository", func(t *testing.T) {
		_, err := NewService(nil, f.service.indexer, f.service.engine, f.service.ledger, f.service.codec)
		assert.ErrorIs(t, err, ErrNoteRepositoryRequired)
	})

	t.Run("requires indexer", func(t *testing.T) {
		_, err := NewService(f.notes, nil, f.service.engine, f.service.ledger, f.service.codec)
		assert.ErrorIs(t, err, ErrIndexerRequired)
	})

	t.Run("requires engine", func(t *testing.T) {
		_, err := NewService(f.notes, f.service.indexer, nil, f.service.ledger, f.service.codec)
		assert.ErrorIs(t, err, ErrEngineRequired)
	})

	t.Run("requires ledger", func(t *testing.T) {
		_, err := NewService(f.notes, f.service.indexer, f.service.engine, nil, f.service.codec)
		assert.ErrorIs(t, err, ErrLedgerRequired)
	})

	t.Run("requires codec", func(t *testing.T) {
		_, err := NewService(f.notes, f.service.indexer, f.service.engine, f.service.ledger, nil)
		assert.ErrorIs(t, err, ErrCodecRequired)
	})
}

func TestCreateNote(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	t.Run("stores encrypted, returns plaintext", func(t *testing.T) {
		note, err := f.service.CreateNote(ctx, createInput("Crown prep on tooth #19"))
		require.NoError(t, err)
		assert.NotZero(t, note.Id)
		assert.Equal(t, "Crown prep on tooth #19", note.Content)

		// The stored record must not contain the plaintext.
		record, err := f.notes.GetNote(ctx, testTenant, note.Id)
		require.NoError(t, err)
		assert.NotEqual(t, "Crown prep on tooth #19", record.Content)
		assert.NotContains(t, record.Content, "Crown")
	})

	t.Run("rejects empty content", func(t *testing.T) {
		_, err := f.service.CreateNote(ctx, createInput(""))
		assert.ErrorIs(t, err, core.ErrEmptyContent)
	})

	t.Run("rejects missing tenant", func(t *testing.T) {
		input := createInput("content")
		input.TenantId = 0
		_, err := f.service.CreateNote(ctx, input)
		assert.ErrorIs(t, err, core.ErrTenantRequired)
	})
}

func TestGetNote(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateNote(ctx, createInput("Sensitive clinical detail"))
	require.NoError(t, err)

	t.Run("round-trips plaintext", func(t *testing.T) {
		note, err := f.service.GetNote(ctx, testTenant, created.Id)
		require.NoError(t, err)
		assert.Equal(t, "Sensitive clinical detail", note.Content)
		assert.Equal(t, "19", note.Tooth)
		assert.Equal(t, "dr.adams", note.AuthorId)
	})

	t.Run("invisible from another tenant", func(t *testing.T) {
		_, err := f.service.GetNote(ctx, core.TenantID(99), created.Id)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestNotesForPatient(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateNote(ctx, createInput("first visit"))
	require.NoError(t, err)
	_, err = f.service.CreateNote(ctx, createInput("second visit"))
	require.NoError(t, err)

	other := createInput("different patient")
	other.PatientId = 7
	_, err = f.service.CreateNote(ctx, other)
	require.NoError(t, err)

	notes, err := f.service.NotesForPatient(ctx, testTenant, 42)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "first visit", notes[0].Content)
	assert.Equal(t, "second visit", notes[1].Content)
}

func TestEditNote(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateNote(ctx, createInput("Original assessment"))
	require.NoError(t, err)

	t.Run("updates content and records history", func(t *testing.T) {
		edited, err := f.service.EditNote(ctx, &EditNoteInput{
			TenantId: testTenant,
			NoteId:   created.Id,
			Content:  "Revised assessment",
			EditedBy: "dr.brown",
			Reason:   "new radiograph",
		})
		require.NoError(t, err)
		assert.Equal(t, "Revised assessment", edited.Content)
		assert.Equal(t, created.Id, edited.Id)
		assert.Equal(t, created.PatientId, edited.PatientId)

		history, err := f.service.History(ctx, testTenant, created.Id)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "Original assessment", history[0].Content)
		assert.Equal(t, "dr.brown", history[0].EditedBy)
		assert.Equal(t, "new radiograph", history[0].Reason)
	})

	t.Run("empty metadata keeps stored values", func(t *testing.T) {
		edited, err := f.service.EditNote(ctx, &EditNoteInput{
			TenantId: testTenant,
			NoteId:   created.Id,
			Content:  "Third revision",
			EditedBy: "dr.brown",
		})
		require.NoError(t, err)
		assert.Equal(t, "19", edited.Tooth)
		assert.Equal(t, "RESTORATIVE", edited.Category)
	})

	t.Run("explicit metadata overrides", func(t *testing.T) {
		edited, err := f.service.EditNote(ctx, &EditNoteInput{
			TenantId: testTenant,
			NoteId:   created.Id,
			Content:  "Fourth revision",
			Tooth:    "30",
			Category: "EMERGENCY",
			EditedBy: "dr.brown",
		})
		require.NoError(t, err)
		assert.Equal(t, "30", edited.Tooth)
		assert.Equal(t, "EMERGENCY", edited.Category)
	})

	t.Run("history grows with each edit", func(t *testing.T) {
		history, err := f.service.History(ctx, testTenant, created.Id)
		require.NoError(t, err)
		assert.Len(t, history, 3)
	})

	t.Run("missing note returns ErrNotFound", func(t *testing.T) {
		_, err := f.service.EditNote(ctx, &EditNoteInput{
			TenantId: testTenant,
			NoteId:   999999,
			Content:  "whatever",
			EditedBy: "dr.brown",
		})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestEditNoteConcurrent(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateNote(ctx, createInput("concurrent base"))
	require.NoError(t, err)

	// Per-note locking serializes these; every edit must succeed and every
	// prior state must land in the ledger.
	const editors = 8
	var wg sync.WaitGroup
	errs := make([]error, editors)
	for i := 0; i < editors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.EditNote(ctx, &EditNoteInput{
				TenantId: testTenant,
				NoteId:   created.Id,
				Content:  "revision",
				EditedBy: "dr.brown",
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "edit %d", i)
	}

	history, err := f.service.History(ctx, testTenant, created.Id)
	require.NoError(t, err)
	assert.Len(t, history, editors)
}

func TestNoteEditLifecycle(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	// Keyword leg only; see TestSearchNotes.
	f.embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return nil, context.DeadlineExceeded
	}

	created, err := f.service.CreateNote(ctx, createInput("severe toothache, tooth #19"))
	require.NoError(t, err)

	results, err := f.service.SearchNotes(ctx, testTenant, "#19", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, created.Id, results[0].Id)

	otherTenant := core.TenantID(99)
	results, err = f.service.SearchNotes(ctx, otherTenant, "#19", 10)
	require.NoError(t, err)
	assert.Empty(t, results, "another tenant must not see the note")

	_, err = f.service.EditNote(ctx, &EditNoteInput{
		TenantId: testTenant,
		NoteId:   created.Id,
		Content:  "resolved, no pain",
		EditedBy: "dr.brown",
		Reason:   "follow-up",
	})
	require.NoError(t, err)

	// The blind index must reflect only the current content.
	results, err = f.service.SearchNotes(ctx, testTenant, "#19", 10)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = f.service.SearchNotes(ctx, testTenant, "resolved", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)

	history, err := f.service.History(ctx, testTenant, created.Id)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Contains(t, history[0].Content, "toothache")
}

func TestSearchNotes(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	// Pin the provider as unavailable before any notes exist: the semantic
	// ranking of unrelated mock vectors would make result order
	// unpredictable, and the keyword leg is what this test exercises.
	f.embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return nil, context.DeadlineExceeded
	}

	crown, err := f.service.CreateNote(ctx, createInput("Crown prep on tooth #19"))
	require.NoError(t, err)
	_, err = f.service.CreateNote(ctx, createInput("Routine cleaning"))
	require.NoError(t, err)

	t.Run("returns decrypted matches", func(t *testing.T) {
		results, err := f.service.SearchNotes(ctx, testTenant, "crown", 10)
		require.NoError(t, err)

		found := false
		for _, note := range results {
			if note.Id == crown.Id {
				found = true
				assert.Equal(t, "Crown prep on tooth #19", note.Content)
			}
		}
		assert.True(t, found, "keyword match must surface the crown note")
	})

	t.Run("tooth designation is searchable", func(t *testing.T) {
		results, err := f.service.SearchNotes(ctx, testTenant, "#19", 10)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, crown.Id, results[0].Id)
	})

	t.Run("no matches returns empty", func(t *testing.T) {
		results, err := f.service.SearchNotes(ctx, testTenant, "zygoma", 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
