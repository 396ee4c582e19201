package viewsync

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultPingTimeout is how long the control page may stay silent before a
// viewer flips its indicator to disconnected.
const DefaultPingTimeout = 5 * time.Second

// Liveness tracks the control page's periodic pings so viewers can show a
// connected/disconnected status.
type Liveness struct {
	clock   clockwork.Clock
	timeout time.Duration

	mu       sync.Mutex
	lastPing time.Time
}

// NewLiveness builds a monitor; a zero timeout takes the default.
func NewLiveness(clock clockwork.Clock, timeout time.Duration) *Liveness {
	if timeout <= 0 {
		timeout = DefaultPingTimeout
	}
	return &Liveness{clock: clock, timeout: timeout}
}

// Observe records that the control side was heard from just now.
func (l *Liveness) Observe() {
	l.mu.Lock()
	l.lastPing = l.clock.Now()
	l.mu.Unlock()
}

// Connected reports whether the control side has been heard from within the
// timeout window. A monitor that never saw a ping reports disconnected.
func (l *Liveness) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lastPing.IsZero() {
		return false
	}
	return l.clock.Since(l.lastPing) < l.timeout
}
