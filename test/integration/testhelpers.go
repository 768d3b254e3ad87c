//go:build integration

package integration

import (
	"os"
	"path/filepath"
	"testing"

	"reactor.de/certext/internal/app"
	"reactor.de/certext/internal/infra/clock"
	"reactor.de/certext/internal/infra/config"
	"reactor.de/certext/internal/infra/crypto/extensions"
	"reactor.de/certext/internal/infra/crypto/hash"
	"reactor.de/certext/internal/infra/logging"
	"reactor.de/certext/internal/infra/store"
	"reactor.de/certext/internal/testutil"
)

// newApplication wires the production stack over a temporary directory.
// The run log is written to certext.log inside it.
func newApplication(t *testing.T) (*app.Application, string) {
	t.Helper()
	dir := t.TempDir()
	logger, err := logging.NewFileLogger(filepath.Join(dir, "certext.log"))
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	registry := extensions.DefaultRegistry()
	application := app.NewApplication(
		logger,
		config.NewYAMLConfigLoader(registry),
		store.NewFileStore(dir),
		hash.NewProvider(),
		registry,
		clock.Fixed(testutil.Epoch),
	)
	return application, dir
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}
