// internal/app/system/timeouts/timeouts_test.go
package timeouts_test

import (
	"testing"
	"time"

	"github.com/bordhub/bordhub/internal/app/system/timeouts"
)

func TestConfigureFromEnv_CountsEachOverride(t *testing.T) {
	t.Cleanup(timeouts.Reset)

	t.Setenv("TIMEOUT_PING", "7s")
	if n := timeouts.ConfigureFromEnv(); n != 1 {
		t.Errorf("one override applied, reported %d", n)
	}
	if got := timeouts.Ping(); got != 7*time.Second {
		t.Errorf("Ping() = %v, want 7s", got)
	}

	t.Setenv("TIMEOUT_PING", "")
	t.Setenv("TIMEOUT_SHORT", "3s")
	t.Setenv("TIMEOUT_LONG", "not-a-duration")
	if n := timeouts.ConfigureFromEnv(); n != 1 {
		t.Errorf("one valid override applied, reported %d", n)
	}
	if got := timeouts.Long(); got != timeouts.DefaultLong {
		t.Errorf("invalid value must leave the default, got %v", got)
	}
}
