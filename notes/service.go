package notes

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/clearchart/notevault/core"
	"github.com/clearchart/notevault/crypto"
	"github.com/clearchart/notevault/indexing"
	"github.com/clearchart/notevault/ledger"
	"github.com/clearchart/notevault/search"
	"github.com/clearchart/notevault/storage"
)

// Note is the decrypted view of a stored note. Instances exist only in
// memory; content is re-encrypted before anything reaches storage.
type Note struct {
	Id        core.ID
	TenantId  core.TenantID
	PatientId core.ID
	Content   string
	Tooth     string
	Category  string
	AuthorId  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateNoteInput holds the fields for recording a new note.
type CreateNoteInput struct {
	TenantId  core.TenantID
	PatientId core.ID
	Content   string
	Tooth     string
	Category  string
	AuthorId  string
}

// EditNoteInput holds the fields for editing an existing note. EditedBy and
// Reason go into the version ledger, not the note itself. Empty Tooth or
// Category keep the stored values.
type EditNoteInput struct {
	TenantId core.TenantID
	NoteId   core.ID
	Content  string
	Tooth    string
	Category string
	EditedBy string
	Reason   string
}

// Service orchestrates the note lifecycle: encryption, storage, index
// maintenance, history, and search. It is the only layer that sees both
// plaintext and the repositories.
type Service struct {
	noteRepository storage.NoteRepository
	indexer        *indexing.Indexer
	engine         *search.Engine
	ledger         *ledger.Ledger
	codec          *crypto.Codec
	vectorPool     *ants.Pool
	locks          *lockTable
	logger         *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithPoolSize sets the worker pool size for background vector refreshes.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Service) error {
		if size < 1 {
			size = 1
		}
		if s.vectorPool != nil {
			s.vectorPool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.vectorPool = pool
		return nil
	}
}

// NewService creates a new note service.
func NewService(
	noteRepository storage.NoteRepository,
	indexer *indexing.Indexer,
	engine *search.Engine,
	ldgr *ledger.Ledger,
	codec *crypto.Codec,
	opts ...Option,
) (*Service, error) {
	if noteRepository == nil {
		return nil, ErrNoteRepositoryRequired
	}
	if indexer == nil {
		return nil, ErrIndexerRequired
	}
	if engine == nil {
		return nil, ErrEngineRequired
	}
	if ldgr == nil {
		return nil, ErrLedgerRequired
	}
	if codec == nil {
		return nil, ErrCodecRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Service{
		noteRepository: noteRepository,
		indexer:        indexer,
		engine:         engine,
		ledger:         ldgr,
		codec:          codec,
		vectorPool:     pool,
		locks:          newLockTable(),
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			s.Release()
			return nil, optErr
		}
	}

	return s, nil
}

// Release releases the background worker pool.
// The service should not be used after calling Release.
func (s *Service) Release() {
	if s.vectorPool != nil {
		s.vectorPool.Release()
	}
}

// CreateNote encrypts and stores a new note together with its blind-index
// term set. The embedding vector is generated in the background; until it
// lands, the note is findable by keyword only.
func (s *Service) CreateNote(ctx context.Context, input *CreateNoteInput) (*Note, error) {
	ciphertext, err := s.codec.Encrypt(input.Content)
	if err != nil {
		return nil, err
	}

	record := &core.NoteRecord{
		TenantId:  input.TenantId,
		PatientId: input.PatientId,
		Content:   ciphertext,
		Tooth:     input.Tooth,
		Category:  input.Category,
		AuthorId:  input.AuthorId,
	}

	record, err = s.noteRepository.AddNote(ctx, record, s.indexer.TermHashes(input.Content))
	if err != nil {
		return nil, err
	}

	s.submitVectorRefresh(record.TenantId, record.Id, input.Content)

	note := s.toView(record, input.Content)
	return note, nil
}

// EditNote applies an edit to a note: the prior state is snapshotted into
// the version ledger, the new encrypted state persisted, and the blind
// index replaced, all atomically. Edits to the same note serialize on a
// per-note lock; a snapshot invalidated by a concurrent writer is rejected
// by the storage layer with storage.ErrEditConflict.
func (s *Service) EditNote(ctx context.Context, input *EditNoteInput) (*Note, error) {
	if input.TenantId == 0 {
		return nil, core.ErrTenantRequired
	}

	s.locks.acquire(input.TenantId, input.NoteId)
	defer s.locks.release(input.TenantId, input.NoteId)

	stored, err := s.noteRepository.GetNote(ctx, input.TenantId, input.NoteId)
	if err != nil {
		return nil, err
	}

	ciphertext, err := s.codec.Encrypt(input.Content)
	if err != nil {
		return nil, err
	}

	updated := &core.NoteRecord{
		Id:       stored.Id,
		TenantId: stored.TenantId,
		Content:  ciphertext,
		Tooth:    stored.Tooth,
		Category: stored.Category,
		AuthorId: stored.AuthorId,
	}
	if input.Tooth != "" {
		updated.Tooth = input.Tooth
	}
	if input.Category != "" {
		updated.Category = input.Category
	}

	_, err = s.noteRepository.ApplyEdit(ctx, &storage.NoteEdit{
		Note: updated,
		Snapshot: &core.NoteVersion{
			NoteId:       stored.Id,
			TenantId:     stored.TenantId,
			PriorContent: stored.Content,
			Tooth:        stored.Tooth,
			Category:     stored.Category,
			EditedBy:     input.EditedBy,
			Reason:       input.Reason,
		},
		TermHashes: s.indexer.TermHashes(input.Content),
	})
	if err != nil {
		return nil, err
	}

	s.submitVectorRefresh(updated.TenantId, updated.Id, input.Content)

	return s.toView(updated, input.Content), nil
}

// GetNote retrieves and decrypts a single note.
func (s *Service) GetNote(ctx context.Context, tenant core.TenantID, id core.ID) (*Note, error) {
	record, err := s.noteRepository.GetNote(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	return s.decrypt(record)
}

// NotesForPatient retrieves and decrypts a patient's notes in creation order.
func (s *Service) NotesForPatient(ctx context.Context, tenant core.TenantID, patientID core.ID) ([]*Note, error) {
	records, err := s.noteRepository.GetNotesByPatient(ctx, tenant, patientID)
	if err != nil {
		return nil, err
	}

	notes := make([]*Note, 0, len(records))
	for _, record := range records {
		note, err := s.decrypt(record)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// History returns a note's decrypted edit history, oldest first.
func (s *Service) History(ctx context.Context, tenant core.TenantID, noteID core.ID) ([]ledger.Entry, error) {
	return s.ledger.History(ctx, tenant, noteID)
}

// SearchNotes runs a hybrid search and returns the matching notes decrypted,
// preserving the engine's ranking.
func (s *Service) SearchNotes(ctx context.Context, tenant core.TenantID, query string, limit int) ([]*Note, error) {
	ids, err := s.engine.Search(ctx, query, tenant, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*Note{}, nil
	}

	records, err := s.noteRepository.GetNotes(ctx, tenant, ids...)
	if err != nil {
		return nil, err
	}

	byID := make(map[core.ID]*core.NoteRecord, len(records))
	for _, record := range records {
		byID[record.Id] = record
	}

	// Stale index entries can point at notes that no longer resolve;
	// those IDs are dropped rather than failing the search.
	notes := make([]*Note, 0, len(records))
	for _, id := range ids {
		record, ok := byID[id]
		if !ok {
			s.logger.Warn("search matched a missing note", "note", id)
			continue
		}
		note, err := s.decrypt(record)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// submitVectorRefresh schedules a background embedding refresh. Errors are
// logged but never surfaced: vector maintenance must not block or fail the
// write path.
func (s *Service) submitVectorRefresh(tenant core.TenantID, noteID core.ID, plaintext string) {
	err := s.vectorPool.Submit(func() {
		if err := s.indexer.RefreshVector(context.Background(), tenant, noteID, plaintext); err != nil {
			s.logger.Error("background vector refresh failed", "note", noteID, "err", err)
		}
	})
	if err != nil {
		s.logger.Error("failed to schedule vector refresh", "note", noteID, "err", err)
	}
}

func (s *Service) decrypt(record *core.NoteRecord) (*Note, error) {
	plaintext, err := s.codec.Decrypt(record.Content)
	if err != nil {
		return nil, err
	}
	return s.toView(record, plaintext), nil
}

func (s *Service) toView(record *core.NoteRecord, plaintext string) *Note {
	return &Note{
		Id:        record.Id,
		TenantId:  record.TenantId,
		PatientId: record.PatientId,
		Content:   plaintext,
		Tooth:     record.Tooth,
		Category:  record.Category,
		AuthorId:  record.AuthorId,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
