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


package notevault

import (
	"log/slog"

	"github.com/clearchart/notevault/ai"
	"github.com/clearchart/notevault/ai/openai"
	"github.com/clearchart/notevault/crypto"
	"github.com/clearchart/notevault/indexing"
	"github.com/clearchart/notevault/ledger"
	"github.com/clearchart/notevault/notes"
	"github.com/clearchart/notevault/search"
	"github.com/clearchart/notevault/storage"
	"github.com/clearchart/notevault/storage/badger"
)

// Vault is the assembled encrypted-notes store: storage backend,
// repositories, field encryption, and the embedding provider, wired
// together and ready to hand out services.
type Vault struct {
	backend     *badger.Backend
	noteRepo    storage.NoteRepository
	indexRepo   storage.IndexRepository
	versionRepo storage.VersionRepository
	codec       *crypto.Codec
	provider    ai.Provider
	logger      *slog.Logger
}

// VaultOption configures a Vault.
type VaultOption func(*vaultOptions)

type vaultOptions struct {
	aiConfig *ai.Config
	inMemory bool
}

// WithAIConfig sets the embedding provider configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) VaultOption {
	return func(o *vaultOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithInMemoryStorage keeps all data in memory instead of on disk.
// Intended for tests and experiments; nothing survives Close.
func WithInMemoryStorage() VaultOption {
	return func(o *vaultOptions) {
		o.inMemory = true
	}
}

// NewVault opens the storage backend at filePath and assembles the vault.
// The key must be a 32-byte AES-256 key; losing it makes all stored
// content and history permanently unreadable.
func NewVault(filePath string, key []byte, opts ...VaultOption) (*Vault, error) {
	options := &vaultOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	codec, err := crypto.NewCodec(key)
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	noteRepo, err := badger.NewNoteRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	indexRepo := badger.NewIndexRepository(backend)

	versionRepo, err := badger.NewVersionRepository(backend)
	if err != nil {
		noteRepo.Close()
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		versionRepo.Close()
		noteRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Vault{
		backend:     backend,
		noteRepo:    noteRepo,
		indexRepo:   indexRepo,
		versionRepo: versionRepo,
		codec:       codec,
		provider:    provider,
		logger:      slog.Default(),
	}, nil
}

// Close shuts down the provider, repositories, and backend.
func (v *Vault) Close() error {
	if err := v.provider.Close(); err != nil {
		v.logger.Error("error closing AI provider", "err", err)
	}

	if err := v.versionRepo.Close(); err != nil {
		v.logger.Error("error closing version repository", "err", err)
		return err
	}
	if err := v.indexRepo.Close(); err != nil {
		v.logger.Error("error closing index repository", "err", err)
		return err
	}
	if err := v.noteRepo.Close(); err != nil {
		v.logger.Error("error closing note repository", "err", err)
		return err
	}

	if err := v.backend.Close(); err != nil {
		v.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// NoteRepository exposes the raw note repository.
func (v *Vault) NoteRepository() storage.NoteRepository {
	return v.noteRepo
}

// IndexRepository exposes the raw index repository.
func (v *Vault) IndexRepository() storage.IndexRepository {
	return v.indexRepo
}

// VersionRepository exposes the raw version repository.
func (v *Vault) VersionRepository() storage.VersionRepository {
	return v.versionRepo
}

// Codec exposes the field-encryption codec.
func (v *Vault) Codec() *crypto.Codec {
	return v.codec
}

// NewIndexer builds an indexer over the vault's index repository.
func (v *Vault) NewIndexer(opts ...indexing.Option) (*indexing.Indexer, error) {
	return indexing.NewIndexer(v.indexRepo, v.codec, v.provider, opts...)
}

// NewSearchEngine builds a hybrid search engine over the vault's indexes.
func (v *Vault) NewSearchEngine(opts ...search.Option) (*search.Engine, error) {
	return search.NewEngine(v.indexRepo, v.codec, v.provider, opts...)
}

// NewLedger builds a ledger over the vault's version repository.
func (v *Vault) NewLedger(opts ...ledger.Option) (*ledger.Ledger, error) {
	return ledger.NewLedger(v.versionRepo, v.codec, opts...)
}

// NewNoteService assembles the full note service: indexer, search engine,
// and ledger over this vault's repositories.
func (v *Vault) NewNoteService(opts ...notes.Option) (*notes.Service, error) {
	indexer, err := v.NewIndexer()
	if err != nil {
		return nil, err
	}
	engine, err := v.NewSearchEngine()
	if err != nil {
		return nil, err
	}
	ldgr, err := v.NewLedger()
	if err != nil {
		return nil, err
	}
	return notes.NewService(v.noteRepo, indexer, engine, ldgr, v.codec, opts...)
}
