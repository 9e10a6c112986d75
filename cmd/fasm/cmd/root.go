// Package cmd implements the fasm command line tool: parse a FASM file
// and print it back out, optionally canonicalized and/or merged.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fasmtools/fasm-go/pkg/fasm"
)

var (
	canonical bool
	merge     bool
)

var rootCmd = &cobra.Command{
	Use:     "fasm <file>",
	Short:   "Parse and print FPGA Assembly (FASM) files",
	Version: "0.1.0",
	Args:    cobra.ExactArgs(1),
	RunE:    runRoot,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&canonical, "canonical", false, "emit the canonical single-bit form")
	rootCmd.Flags().BoolVar(&merge, "merge", false, "merge address-contiguous features and sort the output before printing")
}

func runRoot(cmd *cobra.Command, args []string) error {
	lines, err := fasm.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to parse file: %w", err)
	}

	if merge {
		lines = fasm.MergeAndSort(lines, fasm.MergeOptions{})
	}

	fmt.Print(fasm.ToString(lines, canonical))
	return nil
}
