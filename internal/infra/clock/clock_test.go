//go:build !integration && !e2e

package clock

import (
	"testing"
	"time"
)

func TestService_Now(t *testing.T) {
	before := time.Now()
	got := NewService().Now()
	if got.Before(before) || got.After(time.Now()) {
		t.Errorf("Now() = %v, not between call boundaries", got)
	}
}

func TestFixed_Now(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	if got := Fixed(at).Now(); !got.Equal(at) {
		t.Errorf("Now() = %v, want %v", got, at)
	}
}
