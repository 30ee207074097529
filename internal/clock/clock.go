package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Default is the process clock. Override in tests for determinism.
var Default clockwork.Clock = clockwork.NewRealClock()

// Now returns Default.Now().
func Now() time.Time { return Default.Now() }
