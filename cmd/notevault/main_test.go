package main

import (
	"flag"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	// Restore the default logger after each change
	original := slog.Default()
	defer slog.SetDefault(original)

	newContext := func(level string) *cli.Context {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		set.String("log-level", level, "")
		app := &cli.App{Name: "notevault"}
		return cli.NewContext(app, set, nil)
	}

	t.Run("accepts valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			err := setupLogger(newContext(level))
			assert.NoError(t, err, "level %q", level)
		}
	})

	t.Run("is case insensitive", func(t *testing.T) {
		err := setupLogger(newContext("DEBUG"))
		assert.NoError(t, err)
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		err := setupLogger(newContext("verbose"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestOpenServiceKeyValidation(t *testing.T) {
	newContext := func(key string) *cli.Context {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		set.String("key", key, "")
		set.String("db", t.TempDir(), "")
		set.String("embedding-host", "http://localhost:11434/v1", "")
		set.String("embedding-model", "text-embedding-3-small", "")
		set.String("api-token", "none", "")
		set.Uint64("tenant", 1, "")
		app := &cli.App{Name: "notevault"}
		return cli.NewContext(app, set, nil)
	}

	t.Run("rejects non-hex key", func(t *testing.T) {
		_, _, err := openService(newContext("not hex at all"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "hex")
	})

	t.Run("rejects wrong-length key", func(t *testing.T) {
		_, _, err := openService(newContext("abcd"))
		require.Error(t, err)
	})

	t.Run("accepts 64 hex characters", func(t *testing.T) {
		key := "000102030405060708090a0b0c0d0e0f000102030405060708090a0b0c0d0e0f"
		service, cleanup, err := openService(newContext(key))
		require.NoError(t, err)
		require.NotNil(t, service)
		cleanup()
	})
}

func TestMainHelpers(t *testing.T) {
	t.Run("tenant flag converts to TenantID", func(t *testing.T) {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		set.Uint64("tenant", 7, "")
		ctx := cli.NewContext(&cli.App{Name: "notevault"}, set, nil)
		assert.EqualValues(t, 7, tenantFlag(ctx))
	})
}
