// Package config provides configuration structures and defaults for the
// boot-stage hand-off engine.
package config

const (
	defaultMaxListBytes = 64 * 1024
	defaultMaxMemBanks  = 4
)

// Config holds all tunable parameters for capturing and re-emitting
// boot parameter lists.
type Config struct {
	// MaxListBytes caps how much of an inbound record list is captured.
	// Lists longer than this are truncated before parsing.
	MaxListBytes int

	// MaxMemBanks caps the RAM bank table built from the captured list.
	// Banks beyond the cap still count toward the memory total.
	MaxMemBanks int

	// Alloc obtains the destination buffer for a filtered copy. Nil
	// selects the built-in allocator; a failing Alloc returns nil.
	Alloc func(n int) []byte
}

// DefaultConfig returns a Config struct populated with default values.
func DefaultConfig() *Config {
	return &Config{
		MaxListBytes: defaultMaxListBytes,
		MaxMemBanks:  defaultMaxMemBanks,
		Alloc:        func(n int) []byte { return make([]byte, n) },
	}
}

// FillDefaults sets any zero-value fields in the Config to their default values.
func (c *Config) FillDefaults() {
	def := DefaultConfig()
	if c.MaxListBytes == 0 {
		c.MaxListBytes = def.MaxListBytes
	}
	if c.MaxMemBanks == 0 {
		c.MaxMemBanks = def.MaxMemBanks
	}
	if c.Alloc == nil {
		c.Alloc = def.Alloc
	}
}
