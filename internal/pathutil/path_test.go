//go:build !integration && !e2e

package pathutil

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolve(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CERTS", "/srv/certs")

	tests := []struct {
		name string
		path string
		base string
		want string
	}{
		{"relative", "leaf.pem", "/work", "/work/leaf.pem"},
		{"absolute", "/etc/ssl/root.pem", "/work", "/etc/ssl/root.pem"},
		{"home", "~/certs/leaf.pem", "/work", filepath.Join(home, "certs/leaf.pem")},
		{"tilde alone is a name", "~", "/work", "/work/~"},
		{"environment", "$CERTS/leaf.pem", "/work", "/srv/certs/leaf.pem"},
		{"cleaned", "/etc/../etc/ssl/x.pem", "/work", "/etc/ssl/x.pem"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.path, tt.base); got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.path, tt.base, got, tt.want)
			}
		})
	}
}

func TestResolveAll(t *testing.T) {
	got := ResolveAll([]string{"a.pem", "/b.pem"}, "/base")
	if diff := cmp.Diff([]string{"/base/a.pem", "/b.pem"}, got); diff != "" {
		t.Errorf("ResolveAll() mismatch (-want +got):\n%s", diff)
	}
}
