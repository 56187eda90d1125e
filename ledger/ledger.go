package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/clearchart/notevault/core"
	"github.com/clearchart/notevault/crypto"
	"github.com/clearchart/notevault/storage"
)

// Entry is one decrypted page of a note's edit history: the state the note
// held immediately before an edit, plus who changed it and why.
type Entry struct {
	VersionId core.ID
	NoteId    core.ID
	Content   string // plaintext content before the edit
	Tooth     string
	Category  string
	EditedBy  string
	Reason    string
	EditedAt  time.Time
}

// Ledger is the read surface over the append-only version history. Writes
// happen exclusively through the note repository's edit path; the ledger
// itself cannot update or delete anything.
type Ledger struct {
	versionRepository storage.VersionRepository
	codec             *crypto.Codec
	logger            *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLedger creates a new Ledger.
func NewLedger(versionRepository storage.VersionRepository, codec *crypto.Codec, opts ...Option) (*Ledger, error) {
	if versionRepository == nil {
		return nil, ErrVersionRepositoryRequired
	}
	if codec == nil {
		return nil, ErrCodecRequired
	}

	l := &Ledger{
		versionRepository: versionRepository,
		codec:             codec,
		logger:            slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// History returns a note's full edit history in creation order, oldest
// first, with prior content decrypted. A note never edited has an empty
// history; that is not an error.
func (l *Ledger) History(ctx context.Context, tenant core.TenantID, noteID core.ID) ([]Entry, error) {
	versions, err := l.versionRepository.VersionsFor(ctx, tenant, noteID)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(versions))
	for _, version := range versions {
		entry, err := l.decryptEntry(version)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Latest returns the most recent history entry for a note, decrypted.
// Returns storage.ErrNotFound if the note has never been edited.
func (l *Ledger) Latest(ctx context.Context, tenant core.TenantID, noteID core.ID) (*Entry, error) {
	version, err := l.versionRepository.LatestVersion(ctx, tenant, noteID)
	if err != nil {
		return nil, err
	}

	entry, err := l.decryptEntry(version)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (l *Ledger) decryptEntry(version *core.NoteVersion) (Entry, error) {
	content, err := l.codec.Decrypt(version.PriorContent)
	if err != nil {
		// Surface which page of the ledger failed; the content itself is lost.
		l.logger.Error("failed to decrypt version content", "version", version.Id, "note", version.NoteId, "err", err)
		return Entry{}, err
	}

	return Entry{
		VersionId: version.Id,
		NoteId:    version.NoteId,
		Content:   content,
		Tooth:     version.Tooth,
		Category:  version.Category,
		EditedBy:  version.EditedBy,
		Reason:    version.Reason,
		EditedAt:  version.EditedAt,
	}, nil
}
