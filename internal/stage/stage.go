// Package stage drives one boot hand-off from capture to emission.
//
// A Stage owns the process-wide state of the hand-off: the two words
// saved at entry, the filtered record list, and the phase reached.
// There is one boot, one goroutine and one writer, so explicit phase
// transitions replace both locks and call-order discipline.
package stage

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/novathor-mainline/bootstage/internal/bootlog"
	"github.com/novathor-mainline/bootstage/internal/config"
	"github.com/novathor-mainline/bootstage/internal/env"
	"github.com/novathor-mainline/bootstage/internal/handoff"
	"github.com/novathor-mainline/bootstage/internal/memmap"
)

// Phase is how far the hand-off has progressed. Transitions only move
// forward: Uninitialized → Captured → Filtered → Emitted.
type Phase int

const (
	// Uninitialized means no boot parameters have been captured.
	Uninitialized Phase = iota
	// Captured means the machine word and source list are saved.
	Captured
	// Filtered means the filter-copy engine has run, whatever its outcome.
	Filtered
	// Emitted means the hand-off output has been written.
	Emitted
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Captured:
		return "captured"
	case Filtered:
		return "filtered"
	case Emitted:
		return "emitted"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ErrPhase reports an operation called out of lifecycle order.
var ErrPhase = errors.New("stage: operation not valid in this phase")

// Stage is the hand-off engine for one boot.
type Stage struct {
	cfg   *config.Config
	log   *slog.Logger
	store env.Store

	phase   Phase
	machine uint32
	source  []byte
	result  handoff.Result
}

// New returns a Stage in the Uninitialized phase. A nil cfg selects
// defaults, a nil store starts an empty environment, a nil log
// discards. The stage fills defaults into its own copy of cfg; the
// caller's struct is never written.
func New(cfg *config.Config, store env.Store, log *slog.Logger) *Stage {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := *cfg
	c.FillDefaults()
	if store == nil {
		store = env.NewMap()
	}
	if log == nil {
		log = bootlog.Nop()
	}
	return &Stage{cfg: &c, log: log, store: store}
}

// Capture saves the two words handed over at entry: the machine
// identifier and the source record list. The list is borrowed, never
// mutated, and clamped to the configured byte budget; validation is
// left to the consumers so that capture itself cannot fail.
func (s *Stage) Capture(machine uint32, source []byte) error {
	if s.phase != Uninitialized {
		return fmt.Errorf("%w: capture in %v", ErrPhase, s.phase)
	}
	if len(source) > s.cfg.MaxListBytes {
		s.log.Warn("source list clamped",
			"bytes", len(source), "max", s.cfg.MaxListBytes)
		source = source[:s.cfg.MaxListBytes]
	}
	s.machine = machine
	s.source = source
	s.phase = Captured
	s.log.Info("boot parameters captured",
		"machine", fmt.Sprintf("%#x", machine), "bytes", len(source))
	return nil
}

// Machine returns the captured machine identifier.
func (s *Stage) Machine() uint32 { return s.machine }

// Phase returns how far the hand-off has progressed.
func (s *Stage) Phase() Phase { return s.phase }

// Env returns the environment store the stage writes into.
func (s *Stage) Env() env.Store { return s.store }

// MemoryLayout scans the captured list for RAM banks. It reads only,
// so it may run in any phase after capture.
func (s *Stage) MemoryLayout() (memmap.Layout, error) {
	if s.phase == Uninitialized {
		return memmap.Layout{}, fmt.Errorf("%w: memory scan before capture", ErrPhase)
	}
	return memmap.Scan(s.source, s.cfg.MaxMemBanks, s.log), nil
}

// Filter runs the filter-copy engine over the captured list. It runs
// at most once: later calls return the first run's result unchanged.
// Before capture there is nothing to filter and the result says so.
func (s *Stage) Filter() handoff.Result {
	switch s.phase {
	case Uninitialized:
		s.log.Warn("filter requested before capture")
		return handoff.Result{Outcome: handoff.SourceInvalid}
	case Captured:
		s.result = handoff.FilterCopy(s.source, s.store, s.cfg.Alloc, s.log)
		s.phase = Filtered
	}
	return s.result
}

// Emit appends the filtered list at the cursor and advances it by
// exactly the list's length. Before Filter has run this is a no-op; a
// run that produced nothing still counts as the one permitted
// emission; a cursor too small for the list leaves the phase alone so
// the caller may retry with a larger output area.
func (s *Stage) Emit(cur *handoff.Cursor) (int, error) {
	switch s.phase {
	case Uninitialized, Captured:
		s.log.Debug("emit before filter, nothing to append")
		return 0, nil
	case Emitted:
		return 0, fmt.Errorf("%w: filtered list already emitted", ErrPhase)
	}
	if cur == nil {
		return 0, errors.New("stage: emit needs an output cursor")
	}
	if s.result.Outcome != handoff.Copied {
		s.phase = Emitted
		s.log.Info("hand-off carries no extra records", "outcome", s.result.Outcome)
		return 0, nil
	}
	n, err := cur.Append(s.result.Filtered)
	if err != nil {
		s.log.Warn("emit failed, output area too small", "error", err)
		return 0, err
	}
	s.phase = Emitted
	s.log.Info("filtered list emitted", "bytes", n, "offset", cur.Offset())
	return n, nil
}
