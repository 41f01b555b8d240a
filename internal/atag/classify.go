package atag

// Disposition says what the hand-off does with records of a given kind.
type Disposition int

const (
	// PassThrough records are copied verbatim into the filtered list.
	PassThrough Disposition = iota
	// Regenerate records are dropped from the copy: the stage emits its
	// own list framing and ramdisk records.
	Regenerate
)

// Classify reports whether records of the given kind are copied or
// dropped. Mem and Serial records classify as PassThrough; the
// extractors inspect them separately.
func Classify(t Tag) Disposition {
	switch t {
	case None, Core, Initrd, Initrd2:
		return Regenerate
	}
	return PassThrough
}
