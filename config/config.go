package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds the tunables for the row-wise iterator. It carries no
// cluster-management or write-path settings: those live in components
// outside the scope of this module.
type Config struct {
	LogLevel string

	// OracleTimeout bounds how long the intent resolver will wait for a
	// single Status() call to the transaction-status oracle before
	// giving up and surfacing a retry.
	OracleTimeout time.Duration

	// SeekThreshold is the number of versions the document walker will
	// skip with repeated Next() calls before switching to a Seek() to
	// jump past a shadowed range. See spec.md §4.5's seek-vs-next
	// discipline; the threshold is implementation-defined and does not
	// affect correctness, only I/O cost.
	SeekThreshold int

	// DefaultIsolation names the isolation level reads run under.
	// ReadContext carries no isolation level of its own, and the
	// iterator does not read this field.
	DefaultIsolation IsolationLevel
}

// IsolationLevel controls which in-flight transactions' intents the
// intent resolver considers visible once committed.
type IsolationLevel int

const (
	// SnapshotIsolation is visible to every committed transaction,
	// regardless of when it started relative to the reader.
	SnapshotIsolation IsolationLevel = iota
	// SerializableIsolation additionally requires provisional writes of
	// transactions that started after the reader to stay invisible even
	// once committed. The iterator core does not decide this ordering
	// itself; it is the oracle's job. This level only documents intent:
	// callers feeding a read context with this level must pair it with
	// an oracle that enforces it.
	SerializableIsolation
)

func (c *Config) Validate() error {
	if c.SeekThreshold < 0 {
		return fmt.Errorf("config: seek threshold must not be negative, found %d", c.SeekThreshold)
	}
	if c.OracleTimeout <= 0 {
		return fmt.Errorf("config: oracle timeout must be positive, found %s", c.OracleTimeout)
	}
	return nil
}

func getLogLevel() (logLevel string) {
	logLevel = "info"
	if l := os.Getenv("LOG_LEVEL"); len(l) != 0 {
		logLevel = l
	}
	return
}

// NewDefaultConfig returns sane defaults for production use.
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:         getLogLevel(),
		OracleTimeout:    500 * time.Millisecond,
		SeekThreshold:    8,
		DefaultIsolation: SnapshotIsolation,
	}
}

// NewTestConfig returns a config tuned for fast, deterministic tests:
// a short oracle timeout and a seek threshold of 0 (always seek), so
// tests exercise the seek path rather than the Next() fallback.
func NewTestConfig() *Config {
	return &Config{
		LogLevel:         getLogLevel(),
		OracleTimeout:    50 * time.Millisecond,
		SeekThreshold:    0,
		DefaultIsolation: SnapshotIsolation,
	}
}
