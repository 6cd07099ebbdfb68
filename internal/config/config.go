package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/leprechaun/internal/chain"
	"github.com/roach88/leprechaun/internal/digest"
	"github.com/roach88/leprechaun/internal/engine"
	"github.com/roach88/leprechaun/internal/rainbow"
	"github.com/roach88/leprechaun/internal/sink"
	"github.com/roach88/leprechaun/internal/store"
	"github.com/roach88/leprechaun/internal/wordlist"
)

// Config holds the settings of one generation run.
type Config struct {
	// Algorithm is a digest registry name or alias (see digest.Names).
	Algorithm string `yaml:"algorithm"`

	// Iterations is the number of hash rounds, at least 1.
	Iterations int `yaml:"iterations"`

	Prefix             string `yaml:"prefix,omitempty"`
	Postfix            string `yaml:"postfix,omitempty"`
	SaltFirstRoundOnly bool   `yaml:"salt_first_round_only,omitempty"`

	// Encoding is the wordlist encoding label.
	Encoding string `yaml:"encoding,omitempty"`

	// Output is the flat file path. Exactly one of Output and Database
	// must be set.
	Output string `yaml:"output,omitempty"`

	// Database is the keyed store path.
	Database string `yaml:"database,omitempty"`

	// Workers overrides the detected CPU count when > 0.
	Workers int `yaml:"workers,omitempty"`

	// BatchSize is the number of rows per keyed-store transaction.
	BatchSize int `yaml:"batch_size,omitempty"`

	// Wordlists are the input files, hashed in this order in single mode.
	Wordlists []string `yaml:"wordlists,omitempty"`
}

// Default returns the settings used when neither a file nor a flag sets a
// value.
func Default() Config {
	return Config{
		Algorithm:  digest.MD5,
		Iterations: 1,
		Encoding:   wordlist.EncodingUTF8,
		BatchSize:  store.DefaultBatchSize,
	}
}

// Load reads a YAML config file on top of Default.
//
// Unknown keys are rejected so typos do not silently fall back to defaults.
// Relative wordlist, output and database paths are resolved against the
// directory of the file. The result is not validated.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, rainbow.NewConfigError("read config", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, rainbow.NewConfigError("parse config", fmt.Errorf("%s: %w", path, err))
	}

	base := filepath.Dir(path)
	for i, w := range cfg.Wordlists {
		cfg.Wordlists[i] = resolve(base, w)
	}
	cfg.Output = resolve(base, cfg.Output)
	cfg.Database = resolve(base, cfg.Database)

	return cfg, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// Chain returns the hash chain settings.
func (c Config) Chain() chain.Config {
	return chain.Config{
		Iterations:         c.Iterations,
		Prefix:             c.Prefix,
		Postfix:            c.Postfix,
		SaltFirstRoundOnly: c.SaltFirstRoundOnly,
	}
}

// Validate checks every setting.
func (c Config) Validate() error {
	if _, err := digest.Lookup(c.Algorithm); err != nil {
		return rainbow.NewConfigError("select algorithm", err)
	}
	if err := c.Chain().Validate(); err != nil {
		return err
	}
	if err := wordlist.ValidateEncoding(c.Encoding); err != nil {
		return err
	}

	switch {
	case c.Output == "" && c.Database == "":
		return rainbow.NewConfigError("select output", errors.New("one of output or database is required"))
	case c.Output != "" && c.Database != "":
		return rainbow.NewConfigError("select output", errors.New("output and database are mutually exclusive"))
	}

	if c.Workers < 0 {
		return rainbow.NewConfigError("validate workers", fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	if c.BatchSize < 0 {
		return rainbow.NewConfigError("validate batch size", fmt.Errorf("batch_size must be >= 0, got %d", c.BatchSize))
	}
	if len(c.Wordlists) == 0 {
		return rainbow.NewConfigError("validate wordlists", errors.New("at least one wordlist is required"))
	}
	return nil
}

// Target returns the output sink the settings select.
func (c Config) Target() sink.Target {
	if c.Database != "" {
		return sink.Target{Kind: sink.KindKeyed, Path: c.Database, BatchSize: c.BatchSize}
	}
	return sink.Target{Kind: sink.KindFlat, Path: c.Output}
}

// Request builds the engine request for the settings.
func (c Config) Request() engine.Request {
	return engine.Request{
		Algorithm: c.Algorithm,
		Chain:     c.Chain(),
		Wordlists: append([]string(nil), c.Wordlists...),
		Target:    c.Target(),
		Encoding:  c.Encoding,
		Workers:   c.Workers,
	}
}
