// Package bootstage hands tagged ARM boot parameters from a primary
// bootloader on to the next kernel.
//
// The primary bootloader leaves a list of tagged records describing
// the hardware: RAM banks, serial number, ramdisk location, command
// line. A Stage captures that list, extracts the facts this loader
// needs for itself, drops the records it will regenerate, and emits a
// filtered copy into the parameter area the next kernel reads. Every
// failure along the way degrades to a smaller hand-off; nothing here
// halts a boot.
//
// Example usage:
//
//	store := bootstage.NewEnv()
//	s := bootstage.New(nil, store, nil)
//
//	if err := s.Capture(machine, source); err != nil {
//		log.Printf("capture failed: %v", err)
//	}
//
//	layout, _ := s.MemoryLayout()
//	fmt.Printf("RAM: %d bytes in %d banks\n", layout.TotalBytes, len(layout.Banks))
//
//	res := s.Filter()
//	if res.Outcome == bootstage.Copied {
//		cur := bootstage.NewCursor(paramArea)
//		if _, err := s.Emit(cur); err != nil {
//			log.Printf("emit failed: %v", err)
//		}
//	}
package bootstage

import (
	"log/slog"

	"github.com/novathor-mainline/bootstage/internal/config"
	"github.com/novathor-mainline/bootstage/internal/env"
	"github.com/novathor-mainline/bootstage/internal/handoff"
	"github.com/novathor-mainline/bootstage/internal/memmap"
	"github.com/novathor-mainline/bootstage/internal/stage"
)

// Config is an alias for config.Config, re-exported for user convenience.
type Config = config.Config

// DefaultConfig returns a Config struct populated with default values. Re-exported for user convenience.
var DefaultConfig = config.DefaultConfig

// Store is the key=value view of the boot environment.
type Store = env.Store

// NewEnv returns an empty in-memory environment store.
var NewEnv = env.NewMap

// Layout describes the RAM a parameter list hands over.
type Layout = memmap.Layout

// Bank is one contiguous region of RAM.
type Bank = memmap.Bank

// Result carries the outcome of a filter run.
type Result = handoff.Result

// Outcome reports how a filter run ended.
type Outcome = handoff.Outcome

// Filter outcomes, re-exported for user convenience.
const (
	NothingToCopy = handoff.NothingToCopy
	Copied        = handoff.Copied
	SourceInvalid = handoff.SourceInvalid
	AllocFailed   = handoff.AllocFailed
	Mismatch      = handoff.Mismatch
)

// Cursor tracks the write position in the next stage's parameter area.
type Cursor = handoff.Cursor

// NewCursor returns a cursor writing into buf from its start.
var NewCursor = handoff.NewCursor

// Phase is how far a hand-off has progressed.
type Phase = stage.Phase

// Hand-off phases, re-exported for user convenience.
const (
	Uninitialized = stage.Uninitialized
	Captured      = stage.Captured
	Filtered      = stage.Filtered
	Emitted       = stage.Emitted
)

// ErrPhase reports an operation called out of lifecycle order.
var ErrPhase = stage.ErrPhase

// Stage is one boot's hand-off engine. It moves forward through the
// phases Uninitialized, Captured, Filtered and Emitted; operations
// called out of order either no-op or return ErrPhase, as documented
// on each.
type Stage struct {
	stage *stage.Stage
}

// New returns a Stage ready to capture boot parameters.
//
// A nil cfg selects DefaultConfig, a nil store starts an empty
// environment, and a nil log discards all output.
func New(cfg *Config, store Store, log *slog.Logger) *Stage {
	return &Stage{stage: stage.New(cfg, store, log)}
}

// Capture saves the machine identifier and the source record list
// handed over at entry. It must run before anything else; the list is
// borrowed and never mutated. Returns ErrPhase if parameters were
// already captured.
func (s *Stage) Capture(machine uint32, source []byte) error {
	return s.stage.Capture(machine, source)
}

// Machine returns the captured machine identifier.
func (s *Stage) Machine() uint32 {
	return s.stage.Machine()
}

// Phase returns how far the hand-off has progressed.
func (s *Stage) Phase() Phase {
	return s.stage.Phase()
}

// Env returns the environment store the stage writes into.
func (s *Stage) Env() Store {
	return s.stage.Env()
}

// MemoryLayout scans the captured list for RAM banks. An invalid list
// yields an empty layout, not an error; only calling before Capture is
// an error.
func (s *Stage) MemoryLayout() (Layout, error) {
	return s.stage.MemoryLayout()
}

// Filter runs the filter-copy engine over the captured list, at most
// once; later calls return the first result unchanged. The serial
// number, if present and not already set, lands in the environment as
// a side effect.
func (s *Stage) Filter() Result {
	return s.stage.Filter()
}

// Emit appends the filtered list at the cursor, spending the one
// emission a boot gets. Before Filter it is a no-op; after a
// successful emission it returns ErrPhase.
func (s *Stage) Emit(cur *Cursor) (int, error) {
	return s.stage.Emit(cur)
}
