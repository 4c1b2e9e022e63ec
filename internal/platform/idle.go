package platform

import "pomotodo/internal/core/timekeeper"

// NewIdleChecker returns the idle detector for this platform. Its
// IdleDuration returns timekeeper.ErrIdleUnsupported when the session
// offers no way to measure inactivity.
func NewIdleChecker() timekeeper.IdleChecker {
	return newIdleChecker()
}
