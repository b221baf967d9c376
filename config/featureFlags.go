package config

import (
	"os"
	"strings"
)

// StrictPopulationFreeze hard-rejects every mutation on a submitted/accepted
// population instead of allowing the comment/status carve-outs.
//
// Set via env:
// - STRICT_POPULATION_FREEZE=true
func StrictPopulationFreeze() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("STRICT_POPULATION_FREEZE")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// OutboxDirectDispatch publishes outbox rows inline after commit instead of
// waiting for the polling dispatcher. Useful in dev where the dispatcher
// loop is not running.
//
// Set via env:
// - OUTBOX_DIRECT_DISPATCH=true
func OutboxDirectDispatch() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("OUTBOX_DIRECT_DISPATCH")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
