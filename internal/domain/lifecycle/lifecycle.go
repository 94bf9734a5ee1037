// Package lifecycle holds values shared by components started and stopped through fx.
package lifecycle

import "time"

// DefaultTimeout bounds start and stop hooks.
const DefaultTimeout = 15 * time.Second
