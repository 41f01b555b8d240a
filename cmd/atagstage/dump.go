package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/novathor-mainline/bootstage/internal/atag"
	"github.com/novathor-mainline/bootstage/internal/config"
	"github.com/novathor-mainline/bootstage/internal/memmap"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <list.bin>",
	Short: "Print the records of a parameter list",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	buf, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	list, err := atag.Parse(buf)
	if err != nil {
		return err
	}

	off := 0
	w := list.Walk()
	for w.Next() {
		rec := w.Record()
		disp := "copy"
		if atag.Classify(rec.Tag) == atag.Regenerate {
			disp = "skip"
		}
		fmt.Printf("%#08x  %-10v %3d words  %s  %s\n",
			off, rec.Tag, rec.Size, disp, preview(rec.Payload()))
		off += rec.Bytes()
	}
	if err := w.Err(); err != nil {
		logger.Warn("list does not terminate cleanly", "error", err)
	}

	layout := memmap.Scan(buf, config.DefaultConfig().MaxMemBanks, logger)
	fmt.Printf("\nRAM: %d bytes in %d banks\n", layout.TotalBytes, len(layout.Banks))
	for i, bank := range layout.Banks {
		fmt.Printf("  bank %d: start %#08x size %#x\n", i, bank.Start, bank.Size)
	}
	return nil
}

// preview renders the start of a payload as hex, enough to recognize
// the record without flooding the terminal.
func preview(payload []byte) string {
	const max = 16
	if len(payload) == 0 {
		return "-"
	}
	if len(payload) <= max {
		return fmt.Sprintf("% x", payload)
	}
	return fmt.Sprintf("% x ...", payload[:max])
}
