package constants

import "time"

const (
	DefaultSessionIdleTimeout = 30 * time.Minute
	IdleSweepInterval         = time.Minute
)
