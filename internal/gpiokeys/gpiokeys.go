// Package gpiokeys implements the boot-decision probe: two board
// buttons, looked up in the platform's key configuration, that select
// recovery or fastboot on the next boot by overriding environment
// keys. Missing configuration makes the probe inert, never an error.
package gpiokeys

import (
	"log/slog"

	"github.com/novathor-mainline/bootstage/internal/bootlog"
	"github.com/novathor-mainline/bootstage/internal/env"
)

const (
	compatKeys = "gpio-keys"
	nameVolUp  = "volume-up"
	nameVolDn  = "volume-down"
)

// Node is one entry of the board's key configuration tree.
type Node struct {
	Name       string  `yaml:"name"`
	Compatible string  `yaml:"compatible,omitempty"`
	Line       uint32  `yaml:"line,omitempty"`
	Children   []*Node `yaml:"children,omitempty"`
}

// LineReader reports the level of a GPIO line.
type LineReader interface {
	Value(line uint32) (int, error)
}

// Keys holds the two button nodes the probe acts on. Either may be
// nil when the configuration does not describe it.
type Keys struct {
	VolUp   *Node
	VolDown *Node
}

// FindKeys searches the configuration tree for gpio-keys nodes and
// their volume-up / volume-down children. The buttons may live under
// different gpio-keys nodes; the search stops as soon as both are
// found.
func FindKeys(nodes []*Node) Keys {
	var keys Keys
	findKeys(nodes, &keys)
	return keys
}

func findKeys(nodes []*Node, keys *Keys) bool {
	for _, n := range nodes {
		if n.Compatible == compatKeys {
			for _, child := range n.Children {
				switch child.Name {
				case nameVolUp:
					if keys.VolUp == nil {
						keys.VolUp = child
					}
				case nameVolDn:
					if keys.VolDown == nil {
						keys.VolDown = child
					}
				}
			}
			if keys.VolUp != nil && keys.VolDown != nil {
				return true
			}
		}
		if findKeys(n.Children, keys) {
			return true
		}
	}
	return false
}

// Apply reads both buttons and overrides the boot environment:
// volume-up held selects the recovery boot command, volume-down held
// chains fastboot entry into the pre-boot hook. Each button acts
// independently; an absent node or unreadable line leaves its key
// untouched.
func Apply(keys Keys, r LineReader, store env.Store, log *slog.Logger) {
	if log == nil {
		log = bootlog.Nop()
	}
	if r == nil || store == nil {
		log.Debug("boot keys not probed, no line reader")
		return
	}

	if pressed(keys.VolUp, r, log) {
		store.Set("bootcmd", "run recoverybootcmd")
		log.Info("volume-up held, booting recovery")
	}
	if pressed(keys.VolDown, r, log) {
		store.Set("preboot", "setenv preboot; run fastbootcmd")
		log.Info("volume-down held, entering fastboot")
	}
}

func pressed(n *Node, r LineReader, log *slog.Logger) bool {
	if n == nil {
		return false
	}
	v, err := r.Value(n.Line)
	if err != nil {
		log.Warn("key not readable", "key", n.Name, "line", n.Line, "error", err)
		return false
	}
	return v == 1
}
