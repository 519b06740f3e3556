// Package lifecycle holds shared constants for process start/stop handling.
package lifecycle

import "time"

// DefaultTimeout bounds startup probes and graceful-shutdown work.
const DefaultTimeout = 30 * time.Second
