package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/novathor-mainline/bootstage/internal/atag"
)

var (
	makeOut      string
	makeMem      []string
	makeSerial   string
	makeInitrd   string
	makeCmdline  string
	makeRevision uint32
)

var makeCmd = &cobra.Command{
	Use:   "make",
	Short: "Build a parameter list file",
	Long: `make assembles a well-formed parameter list from flags, the way a
primary bootloader would, and writes it to a file. Numbers accept 0x
prefixes.`,
	RunE: runMake,
}

func init() {
	makeCmd.Flags().StringVarP(&makeOut, "out", "o", "atags.bin", "output file")
	makeCmd.Flags().StringArrayVar(&makeMem, "mem", nil, "RAM bank as start:size, repeatable")
	makeCmd.Flags().StringVar(&makeSerial, "serial", "", "serial number as low:high")
	makeCmd.Flags().StringVar(&makeInitrd, "initrd", "", "ramdisk as start:size")
	makeCmd.Flags().StringVar(&makeCmdline, "cmdline", "", "kernel command line")
	makeCmd.Flags().Uint32Var(&makeRevision, "revision", 0, "board revision")
}

func runMake(cmd *cobra.Command, args []string) error {
	b := atag.NewBuilder()
	if err := b.AddCore(); err != nil {
		return err
	}
	for _, m := range makeMem {
		start, size, err := parsePair(m)
		if err != nil {
			return fmt.Errorf("--mem %q: %w", m, err)
		}
		if err := b.AddMem(start, size); err != nil {
			return err
		}
	}
	if makeSerial != "" {
		low, high, err := parsePair(makeSerial)
		if err != nil {
			return fmt.Errorf("--serial %q: %w", makeSerial, err)
		}
		if err := b.AddSerial(low, high); err != nil {
			return err
		}
	}
	if makeRevision != 0 {
		if err := b.AddRevision(makeRevision); err != nil {
			return err
		}
	}
	if makeCmdline != "" {
		if err := b.AddCmdline(makeCmdline); err != nil {
			return err
		}
	}
	if makeInitrd != "" {
		start, size, err := parsePair(makeInitrd)
		if err != nil {
			return fmt.Errorf("--initrd %q: %w", makeInitrd, err)
		}
		if err := b.AddInitrd(start, size); err != nil {
			return err
		}
	}
	if err := b.Terminate(); err != nil {
		return err
	}

	buf, err := b.Finish()
	if err != nil {
		return err
	}
	if err := os.WriteFile(makeOut, buf, 0644); err != nil {
		return err
	}
	logger.Info("list written", "file", makeOut, "bytes", len(buf))
	return nil
}

// parsePair splits "a:b" into two 32-bit numbers.
func parsePair(s string) (uint32, uint32, error) {
	first, second, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("want two numbers separated by a colon")
	}
	a, err := strconv.ParseUint(first, 0, 32)
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.ParseUint(second, 0, 32)
	if err != nil {
		return 0, 0, err
	}
	return uint32(a), uint32(b), nil
}
