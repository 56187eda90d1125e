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


package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/clearchart/notevault"
	"github.com/clearchart/notevault/ai"
	"github.com/clearchart/notevault/ai/openai"
	"github.com/clearchart/notevault/core"
	"github.com/clearchart/notevault/crypto"
	"github.com/clearchart/notevault/notes"
	"github.com/clearchart/notevault/reembed"
	"github.com/clearchart/notevault/storage/badger"
)

func main() {
	vaultFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "key",
			Usage:    "AES-256 encryption key as 64 hex characters",
			EnvVars:  []string{"NOTEVAULT_KEY"},
			Required: true,
		},
		&cli.Uint64Flag{
			Name:     "tenant",
			Usage:    "Tenant (office) ID scoping every operation",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "text-embedding-3-small",
		},
		&cli.StringFlag{
			Name:    "api-token",
			Usage:   "Embedding service API token",
			EnvVars: []string{"NOTEVAULT_API_TOKEN"},
			Value:   "none",
		},
	}

	app := &cli.App{
		Name:  "notevault",
		Usage: "Encrypted clinical notes with hybrid search and edit history",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Record a new clinical note",
				Action: addCommand,
				Flags: append([]cli.Flag{
					&cli.Uint64Flag{
						Name:     "patient",
						Usage:    "Patient ID the note belongs to",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "content",
						Usage:    "Note content (stored encrypted)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "tooth",
						Usage: "Tooth designation, e.g. 19 or FM",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Note category, e.g. RESTORATIVE",
					},
					&cli.StringFlag{
						Name:     "author",
						Usage:    "Author identifier",
						Required: true,
					},
				}, vaultFlags...),
			},
			{
				Name:   "edit",
				Usage:  "Edit a note, snapshotting the prior state into the ledger",
				Action: editCommand,
				Flags: append([]cli.Flag{
					&cli.Uint64Flag{
						Name:     "note",
						Usage:    "Note ID to edit",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "content",
						Usage:    "New note content",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "tooth",
						Usage: "New tooth designation (keeps current if omitted)",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "New category (keeps current if omitted)",
					},
					&cli.StringFlag{
						Name:     "editor",
						Usage:    "Editor identifier",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "reason",
						Usage: "Reason for the change",
					},
				}, vaultFlags...),
			},
			{
				Name:   "get",
				Usage:  "Read a note decrypted",
				Action: getCommand,
				Flags: append([]cli.Flag{
					&cli.Uint64Flag{
						Name:     "note",
						Usage:    "Note ID to read",
						Required: true,
					},
				}, vaultFlags...),
			},
			{
				Name:   "patient",
				Usage:  "List a patient's notes in creation order",
				Action: patientCommand,
				Flags: append([]cli.Flag{
					&cli.Uint64Flag{
						Name:     "patient",
						Usage:    "Patient ID",
						Required: true,
					},
				}, vaultFlags...),
			},
			{
				Name:   "history",
				Usage:  "Show a note's edit history, oldest first",
				Action: historyCommand,
				Flags: append([]cli.Flag{
					&cli.Uint64Flag{
						Name:     "note",
						Usage:    "Note ID",
						Required: true,
					},
				}, vaultFlags...),
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate embedding vectors for all of a tenant's notes",
				Action: reembedCommand,
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of notes to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N notes",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				}, vaultFlags...),
			},
			{
				Name:   "search",
				Usage:  "Hybrid keyword and semantic search over notes",
				Action: searchCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Search query",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
				}, vaultFlags...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openService assembles the vault and note service from CLI flags.
// The returned cleanup releases the service and closes the vault.
func openService(c *cli.Context) (*notes.Service, func(), error) {
	key, err := hex.DecodeString(c.String("key"))
	if err != nil {
		return nil, nil, fmt.Errorf("key must be hex encoded: %w", err)
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
		ai.WithToken(c.String("api-token")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	vault, err := notevault.NewVault(c.String("db"), key, notevault.WithAIConfig(aiConfig))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open vault: %w", err)
	}

	service, err := vault.NewNoteService()
	if err != nil {
		vault.Close()
		return nil, nil, fmt.Errorf("failed to create note service: %w", err)
	}

	cleanup := func() {
		service.Release()
		if err := vault.Close(); err != nil {
			slog.Error("error closing vault", "err", err)
		}
	}
	return service, cleanup, nil
}

func tenantFlag(c *cli.Context) core.TenantID {
	return core.TenantID(c.Uint64("tenant"))
}

func addCommand(c *cli.Context) error {
	service, cleanup, err := openService(c)
	if err != nil {
		return err
	}
	defer cleanup()

	note, err := service.CreateNote(c.Context, &notes.CreateNoteInput{
		TenantId:  tenantFlag(c),
		PatientId: core.ID(c.Uint64("patient")),
		Content:   c.String("content"),
		Tooth:     c.String("tooth"),
		Category:  c.String("category"),
		AuthorId:  c.String("author"),
	})
	if err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}

	fmt.Printf("added note %d for patient %d\n", note.Id, note.PatientId)
	return nil
}

func editCommand(c *cli.Context) error {
	service, cleanup, err := openService(c)
	if err != nil {
		return err
	}
	defer cleanup()

	note, err := service.EditNote(c.Context, &notes.EditNoteInput{
		TenantId: tenantFlag(c),
		NoteId:   core.ID(c.Uint64("note")),
		Content:  c.String("content"),
		Tooth:    c.String("tooth"),
		Category: c.String("category"),
		EditedBy: c.String("editor"),
		Reason:   c.String("reason"),
	})
	if err != nil {
		return fmt.Errorf("failed to edit note: %w", err)
	}

	fmt.Printf("edited note %d\n", note.Id)
	return nil
}

func getCommand(c *cli.Context) error {
	service, cleanup, err := openService(c)
	if err != nil {
		return err
	}
	defer cleanup()

	note, err := service.GetNote(c.Context, tenantFlag(c), core.ID(c.Uint64("note")))
	if err != nil {
		return fmt.Errorf("failed to get note: %w", err)
	}

	printNote(note)
	return nil
}

func patientCommand(c *cli.Context) error {
	service, cleanup, err := openService(c)
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := service.NotesForPatient(c.Context, tenantFlag(c), core.ID(c.Uint64("patient")))
	if err != nil {
		return fmt.Errorf("failed to list patient notes: %w", err)
	}

	for _, note := range results {
		printNote(note)
	}
	fmt.Fprintf(os.Stderr, "%d note(s)\n", len(results))
	return nil
}

func historyCommand(c *cli.Context) error {
	service, cleanup, err := openService(c)
	if err != nil {
		return err
	}
	defer cleanup()

	entries, err := service.History(c.Context, tenantFlag(c), core.ID(c.Uint64("note")))
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	for _, entry := range entries {
		fmt.Printf("[%s] version %d by %s", entry.EditedAt.Format("2006-01-02 15:04:05"), entry.VersionId, entry.EditedBy)
		if entry.Reason != "" {
			fmt.Printf(" (%s)", entry.Reason)
		}
		fmt.Printf("\n  %s\n", entry.Content)
	}
	fmt.Fprintf(os.Stderr, "%d version(s)\n", len(entries))
	return nil
}

func reembedCommand(c *cli.Context) error {
	key, err := hex.DecodeString(c.String("key"))
	if err != nil {
		return fmt.Errorf("key must be hex encoded: %w", err)
	}
	codec, err := crypto.NewCodec(key)
	if err != nil {
		return err
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
		ai.WithToken(c.String("api-token")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	noteRepo, err := badger.NewNoteRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create note repository: %w", err)
	}
	defer noteRepo.Close()

	indexRepo := badger.NewIndexRepository(backend)

	config := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	reembedder := reembed.NewReembedder(noteRepo, indexRepo, codec, embedder, config, os.Stderr)
	if err := reembedder.Run(c.Context, tenantFlag(c)); err != nil {
		return fmt.Errorf("re-embedding failed: %w", err)
	}

	return nil
}

func searchCommand(c *cli.Context) error {
	service, cleanup, err := openService(c)
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := service.SearchNotes(c.Context, tenantFlag(c), c.String("query"), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	for _, note := range results {
		printNote(note)
	}
	fmt.Fprintf(os.Stderr, "%d result(s)\n", len(results))
	return nil
}

func printNote(note *notes.Note) {
	fmt.Printf("note %d (patient %d", note.Id, note.PatientId)
	if note.Tooth != "" {
		fmt.Printf(", tooth %s", note.Tooth)
	}
	if note.Category != "" {
		fmt.Printf(", %s", note.Category)
	}
	fmt.Printf(") by %s at %s\n", note.AuthorId, note.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  %s\n", note.Content)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
