package handoff

import (
	"fmt"
	"log/slog"

	"github.com/novathor-mainline/bootstage/internal/atag"
	"github.com/novathor-mainline/bootstage/internal/env"
)

const serialKey = "serial#"

// writeSerial renders the serial number record as 16 hex digits, high
// word first, and stores it under "serial#". A value set by an earlier
// stage wins: if the key already exists, nothing is written.
func writeSerial(rec atag.Record, store env.Store, log *slog.Logger) bool {
	if _, ok := store.Get(serialKey); ok {
		log.Debug("serial number already set, keeping it")
		return false
	}
	low, high := rec.SerialNr()
	serial := fmt.Sprintf("%08x%08x", high, low)
	store.Set(serialKey, serial)
	log.Info("serial number extracted", "serial", serial)
	return true
}
