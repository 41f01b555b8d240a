// Command atagstage inspects, builds and replays the tagged boot
// parameter hand-off on a development machine.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "atagstage",
	Short: "Work with tagged boot parameter lists",
	Long: `atagstage inspects and builds the tagged record lists ARM bootloaders
hand from one stage to the next, and replays the full hand-off
(capture, extraction, filtering, re-emission) against files on disk.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(makeCmd)
	rootCmd.AddCommand(handoffCmd)
	rootCmd.AddCommand(sendCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
