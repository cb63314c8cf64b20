package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/lcm/pkg/adapters/file"
	"github.com/aretw0/lcm/pkg/adapters/process"
	"github.com/aretw0/lcm/pkg/persistence/middleware"
)

// EnvRedisURL is consulted when --redis-url is not given.
const EnvRedisURL = "LCM_REDIS_URL"

// EnvEncryptionKey holds a base64 AES-256 key. When set, run records are
// stored encrypted.
const EnvEncryptionKey = "LCM_ENCRYPTION_KEY"

// Store kinds accepted by --store.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Options carries the flags shared by the commands that build an engine.
type Options struct {
	Debug      bool
	JSON       bool
	BricksPath string
	Store      string
	StorePath  string
	RedisURL   string
	Lock       bool
	Timeout    time.Duration

	// Serialize makes runs of one mode wait for each other within the process.
	Serialize bool

	// Redact lists patterns of param names masked in stored runs.
	Redact        []string
	EncryptionKey string
}

// DefaultOptions returns the flag defaults.
func DefaultOptions() Options {
	return Options{
		BricksPath: process.DefaultConfigPath,
		Store:      StoreFile,
		StorePath:  file.DefaultPath,
		Redact:     middleware.DefaultRedactPatterns,
	}
}

// Validate checks flag combinations and fills env fallbacks.
func (o *Options) Validate() error {
	switch o.Store {
	case StoreFile, StoreMemory:
	case StoreRedis:
		if o.RedisURL == "" {
			o.RedisURL = os.Getenv(EnvRedisURL)
		}
		if o.RedisURL == "" {
			return fmt.Errorf("--store redis needs --redis-url or %s", EnvRedisURL)
		}
	default:
		return fmt.Errorf("unknown store %q (want file, memory or redis)", o.Store)
	}
	if o.Lock && o.Store != StoreRedis {
		return errors.New("--lock requires --store redis")
	}
	if o.EncryptionKey == "" {
		o.EncryptionKey = os.Getenv(EnvEncryptionKey)
	}
	if o.Timeout < 0 {
		return errors.New("--timeout must not be negative")
	}
	return nil
}
