package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/leprechaun/internal/chain"
	"github.com/roach88/leprechaun/internal/rainbow"
	"github.com/roach88/leprechaun/internal/sink"
	"github.com/roach88/leprechaun/internal/store"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leprechaun.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func validConfig() Config {
	cfg := Default()
	cfg.Output = "out"
	cfg.Wordlists = []string{"words.txt"}
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "md5", cfg.Algorithm)
	assert.Equal(t, 1, cfg.Iterations)
	assert.Equal(t, "utf-8", cfg.Encoding)
	assert.Equal(t, store.DefaultBatchSize, cfg.BatchSize)
	assert.Zero(t, cfg.Workers)
}

func TestLoad_ValidFile(t *testing.T) {
	path := writeConfig(t, `
algorithm: sha256
iterations: 3
prefix: "pre"
postfix: "post"
salt_first_round_only: true
encoding: latin1
database: tables/rainbow
workers: 4
batch_size: 500
wordlists:
  - lists/rockyou.txt
  - /abs/words.txt
`)
	base := filepath.Dir(path)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Config{
		Algorithm:          "sha256",
		Iterations:         3,
		Prefix:             "pre",
		Postfix:            "post",
		SaltFirstRoundOnly: true,
		Encoding:           "latin1",
		Database:           filepath.Join(base, "tables/rainbow"),
		Workers:            4,
		BatchSize:          500,
		Wordlists:          []string{filepath.Join(base, "lists/rockyou.txt"), "/abs/words.txt"},
	}, cfg)
}

func TestLoad_KeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeConfig(t, "output: out\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "md5", cfg.Algorithm)
	assert.Equal(t, 1, cfg.Iterations)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "out"), cfg.Output)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_UnknownKey(t *testing.T) {
	_, err := Load(writeConfig(t, "iteratoins: 3\n"))

	require.Error(t, err)
	assert.True(t, rainbow.IsConfigError(err), "got %v", err)
	assert.Contains(t, err.Error(), "iteratoins")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.True(t, rainbow.IsConfigError(err), "got %v", err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"alias accepted", func(c *Config) { c.Algorithm = "SHA-256" }, ""},
		{"unknown algorithm", func(c *Config) { c.Algorithm = "rot13" }, "unknown algorithm"},
		{"zero iterations", func(c *Config) { c.Iterations = 0 }, "iterations"},
		{"unknown encoding", func(c *Config) { c.Encoding = "klingon" }, "klingon"},
		{"no output", func(c *Config) { c.Output = "" }, "one of output or database is required"},
		{"both outputs", func(c *Config) { c.Database = "db" }, "mutually exclusive"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"negative batch", func(c *Config) { c.BatchSize = -5 }, "batch_size"},
		{"no wordlists", func(c *Config) { c.Wordlists = nil }, "at least one wordlist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, rainbow.IsConfigError(err), "got %v", err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestTarget(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, sink.Target{Kind: sink.KindFlat, Path: "out"}, cfg.Target())

	cfg.Output = ""
	cfg.Database = "rainbow"
	cfg.BatchSize = 42
	assert.Equal(t, sink.Target{Kind: sink.KindKeyed, Path: "rainbow", BatchSize: 42}, cfg.Target())
}

func TestRequest(t *testing.T) {
	cfg := validConfig()
	cfg.Algorithm = "sha1"
	cfg.Iterations = 2
	cfg.Prefix = "x"
	cfg.Workers = 3

	req := cfg.Request()

	assert.Equal(t, "sha1", req.Algorithm)
	assert.Equal(t, chain.Config{Iterations: 2, Prefix: "x"}, req.Chain)
	assert.Equal(t, []string{"words.txt"}, req.Wordlists)
	assert.Equal(t, 3, req.Workers)
	assert.Equal(t, "utf-8", req.Encoding)

	// The request owns its wordlist slice.
	req.Wordlists[0] = "changed"
	assert.Equal(t, "words.txt", cfg.Wordlists[0])
}
