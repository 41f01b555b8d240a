// Package memmap derives the RAM layout described by the memory
// records of a boot parameter list.
package memmap

import (
	"fmt"
	"log/slog"

	"github.com/novathor-mainline/bootstage/internal/atag"
	"github.com/novathor-mainline/bootstage/internal/bootlog"
)

// Bank is one contiguous region of RAM.
type Bank struct {
	Start uint32
	Size  uint32
}

// Layout describes the RAM a parameter list hands over. TotalBytes
// sums every memory record; Banks holds the first records in source
// order up to the caller's cap, so the total can exceed the sum of the
// recorded banks when a list carries more banks than the table holds.
type Layout struct {
	TotalBytes uint64
	Banks      []Bank
}

// Scan extracts the RAM layout from source. Nothing here is fatal: an
// invalid or truncated list yields whatever was extracted before the
// fault, plus a warning on log.
func Scan(source []byte, maxBanks int, log *slog.Logger) Layout {
	if log == nil {
		log = bootlog.Nop()
	}
	var layout Layout

	list, err := atag.Parse(source)
	if err != nil {
		log.Warn("memory scan skipped", "error", err)
		return layout
	}

	w := list.Walk()
	for w.Next() {
		rec := w.Record()
		if rec.Tag != atag.Mem {
			continue
		}
		start, size := rec.MemBank()
		layout.TotalBytes += uint64(size)
		if len(layout.Banks) < maxBanks {
			layout.Banks = append(layout.Banks, Bank{Start: start, Size: size})
			continue
		}
		log.Warn("memory bank table full, bank dropped",
			"start", fmt.Sprintf("%#08x", start),
			"size", fmt.Sprintf("%#x", size))
	}
	if err := w.Err(); err != nil {
		log.Warn("memory scan stopped early", "error", err)
	}
	return layout
}
