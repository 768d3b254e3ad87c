package domain

import (
	"hash"
	"time"
)

// Logger defines the logging interface.
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Warning(msg string, args ...interface{})
	Log(msg string)
}

// ConfigLoader defines the interface for loading extension profiles.
type ConfigLoader interface {
	LoadProfile(path string) (*ProfileConfig, error)
	ParseProfile(data []byte) (*ProfileConfig, error)
	ValidateProfile(data []byte) error
}

// Store reads certificate and profile inputs and writes encoded output.
type Store interface {
	Exists(path string) (bool, error)
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
}

// HashProvider hands out hash functions by algorithm name ("SHA-1", "SHA-256", ...).
type HashProvider interface {
	New(name string) (hash.Hash, error)
	Available(name string) bool
}

// Clock defines the interface for time operations.
type Clock interface {
	Now() time.Time
}
