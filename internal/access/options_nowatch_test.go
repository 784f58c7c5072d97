//go:build !darwin || ios

package access

import "testing"

func TestWatchNameUnavailable(t *testing.T) {
	if _, err := ParseOptions("watch"); err == nil {
		t.Error("expected watch to be unknown on this platform")
	}
	for _, o := range KnownOptions() {
		if uint64(o) == 1<<5 {
			t.Error("watch bit should not be a known option")
		}
	}
}
