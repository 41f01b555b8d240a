// Package handoff implements the filter-copy engine that turns the
// parameter list received from the primary bootloader into the reduced
// list this stage passes on, plus the cursor used to emit that list
// into the next stage's parameter area.
package handoff

// Outcome reports how a filter-copy run ended. Nothing here is fatal
// to the boot: every outcome other than Copied means the next stage
// receives fewer records, not a halted machine.
type Outcome int

const (
	// NothingToCopy means no records survived the filter, so no buffer
	// was allocated.
	NothingToCopy Outcome = iota
	// Copied means a filtered list was produced and is ready to emit.
	Copied
	// SourceInvalid means the source list failed validation and was
	// not walked.
	SourceInvalid
	// AllocFailed means no destination buffer could be obtained for
	// the filtered list.
	AllocFailed
	// Mismatch means the copy pass did not write exactly the bytes the
	// sizing pass computed, and the filtered list was discarded.
	Mismatch
)

func (o Outcome) String() string {
	switch o {
	case NothingToCopy:
		return "nothing to copy"
	case Copied:
		return "copied"
	case SourceInvalid:
		return "source invalid"
	case AllocFailed:
		return "allocation failed"
	case Mismatch:
		return "size mismatch"
	default:
		return "unknown"
	}
}

// Result carries the outcome of a filter-copy run. Filtered is nil
// unless Outcome is Copied.
type Result struct {
	Outcome   Outcome
	Filtered  []byte
	Records   int
	Bytes     int
	SerialSet bool
}
