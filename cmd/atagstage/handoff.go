package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"

	"github.com/novathor-mainline/bootstage"
	"github.com/novathor-mainline/bootstage/internal/atag"
	"github.com/novathor-mainline/bootstage/internal/bootlog"
	"github.com/novathor-mainline/bootstage/internal/env"
	"github.com/novathor-mainline/bootstage/internal/flash"
	"github.com/novathor-mainline/bootstage/internal/gpiokeys"
)

var (
	hoOut      string
	hoEnvFile  string
	hoKeysFile string
	hoInitrd   string
	hoMachine  uint32
	hoAreaSize int
	hoSaveEnv  bool
	hoReport   bool
)

var handoffCmd = &cobra.Command{
	Use:   "handoff <source.bin>",
	Short: "Replay a full hand-off against a source list",
	Long: `handoff runs the whole stage against a source list file: capture,
memory scan, serial extraction, filter-copy, the boot-key probe, and
re-emission into a fresh parameter area led by this stage's own core
and ramdisk records.`,
	Args: cobra.ExactArgs(1),
	RunE: runHandoff,
}

func init() {
	handoffCmd.Flags().StringVarP(&hoOut, "out", "o", "", "write the assembled parameter area to this file")
	handoffCmd.Flags().StringVar(&hoEnvFile, "env", "", "environment store file")
	handoffCmd.Flags().StringVar(&hoKeysFile, "keys", "", "board key configuration (YAML)")
	handoffCmd.Flags().StringVar(&hoInitrd, "initrd", "", "regenerated ramdisk record as start:size")
	handoffCmd.Flags().Uint32Var(&hoMachine, "machine", 0, "machine identifier word")
	handoffCmd.Flags().IntVar(&hoAreaSize, "area-size", 4096, "size of the output parameter area")
	handoffCmd.Flags().BoolVar(&hoSaveEnv, "save-env", false, "persist the environment store after the run")
	handoffCmd.Flags().BoolVar(&hoReport, "report", false, "print the stage's retained log tail")
}

func runHandoff(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	// The stage logs into the CLI logger and a bounded ring, so the
	// run's story can be printed afterward.
	capture := bootlog.NewCapture(0)
	stageLog := slog.New(slogmulti.Fanout(logger.Handler(), capture))

	store, envFile, err := openEnv(hoEnvFile, stageLog)
	if err != nil {
		return err
	}

	s := bootstage.New(nil, store, stageLog)
	if err := s.Capture(hoMachine, source); err != nil {
		return err
	}

	layout, err := s.MemoryLayout()
	if err != nil {
		return err
	}
	fmt.Printf("RAM: %d bytes in %d banks\n", layout.TotalBytes, len(layout.Banks))
	for i, bank := range layout.Banks {
		fmt.Printf("  bank %d: start %#08x size %#x\n", i, bank.Start, bank.Size)
	}

	res := s.Filter()
	fmt.Printf("filter: %v, %d records, %d bytes\n", res.Outcome, res.Records, res.Bytes)

	if hoKeysFile != "" {
		if err := probeKeys(hoKeysFile, store, stageLog); err != nil {
			return err
		}
	}

	area, err := assembleArea(s)
	if err != nil {
		return err
	}
	fmt.Printf("parameter area: %d bytes\n", len(area))

	if hoOut != "" {
		if err := os.WriteFile(hoOut, area, 0644); err != nil {
			return err
		}
		stageLog.Info("parameter area written", "file", hoOut, "bytes", len(area))
	}

	fmt.Println("environment:")
	for _, key := range store.Keys() {
		v, _ := store.Get(key)
		fmt.Printf("  %s=%s\n", key, v)
	}

	if hoSaveEnv && envFile != nil {
		if err := envFile.Save(store); err != nil {
			return err
		}
		stageLog.Info("environment saved", "file", hoEnvFile)
	}

	if hoReport {
		fmt.Println("report:")
		for _, line := range capture.Lines() {
			fmt.Printf("  %s\n", line)
		}
	}
	return nil
}

// openEnv loads the persistent environment when a file is given. A
// corrupt image degrades to an empty store, matching what the board
// would do.
func openEnv(path string, log *slog.Logger) (*env.Map, *env.File, error) {
	if path == "" {
		return env.NewMap(), nil, nil
	}
	dev, err := flash.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	file := env.NewFile(dev)
	store, err := file.Load()
	if err != nil {
		if !errors.Is(err, env.ErrCorrupt) {
			return nil, nil, err
		}
		log.Warn("environment store corrupt, starting empty", "error", err)
	}
	return store, file, nil
}

func probeKeys(path string, store env.Store, log *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	tree, err := gpiokeys.LoadTree(f)
	if err != nil {
		return err
	}
	gpiokeys.Apply(gpiokeys.FindKeys(tree.Nodes), tree, store, log)
	return nil
}

// assembleArea builds the next stage's parameter area: this stage's
// own lead records, the emitted filtered list, and the terminator.
func assembleArea(s *bootstage.Stage) ([]byte, error) {
	area := make([]byte, hoAreaSize)
	cur := bootstage.NewCursor(area)

	head := atag.NewBuilder()
	if err := head.AddCore(); err != nil {
		return nil, err
	}
	if hoInitrd != "" {
		start, size, err := parsePair(hoInitrd)
		if err != nil {
			return nil, fmt.Errorf("--initrd %q: %w", hoInitrd, err)
		}
		if err := head.AddInitrd(start, size); err != nil {
			return nil, err
		}
	}
	lead, err := head.Finish()
	if err != nil {
		return nil, err
	}
	if _, err := cur.Append(lead); err != nil {
		return nil, err
	}

	if _, err := s.Emit(cur); err != nil {
		return nil, err
	}

	tail := atag.NewBuilder()
	if err := tail.Terminate(); err != nil {
		return nil, err
	}
	term, err := tail.Finish()
	if err != nil {
		return nil, err
	}
	if _, err := cur.Append(term); err != nil {
		return nil, err
	}
	return cur.Bytes(), nil
}
