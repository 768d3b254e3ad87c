//go:build e2e || integration

package clock

import (
	"os"
	"time"
)

// now honours CERTEXT_FAKE_TIME so that end-to-end runs see a stable date.
func now() time.Time {
	if fakeTime := os.Getenv("CERTEXT_FAKE_TIME"); fakeTime != "" {
		t, err := time.Parse(time.RFC3339, fakeTime)
		if err != nil {
			panic("failed to parse CERTEXT_FAKE_TIME: " + err.Error())
		}
		return t
	}
	return time.Now()
}
