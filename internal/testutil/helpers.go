package testutil

import (
	"os"
	"testing"
)

// WithSilentOutput runs fn with stdout and stderr sent to the null device,
// so command tests do not print tables and status lines.
func WithSilentOutput(t *testing.T, fn func()) {
	t.Helper()

	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("failed to open %s: %v", os.DevNull, err)
	}
	stdout, stderr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = devNull, devNull
	defer func() {
		os.Stdout, os.Stderr = stdout, stderr
		devNull.Close()
	}()

	fn()
}
