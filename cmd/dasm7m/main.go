// Command dasm7m is a demo host for the ARMv7-M encoding engine: it builds
// a small action list the way the offline DSL compiler would, drives the
// three passes, and either dumps the assembled Thumb-2 bytes, maps them
// executable and calls them, or opens an interactive view of the encoder
// state.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"

	"github.com/xyproto/dynasm7m/pkg/config"
	"github.com/xyproto/dynasm7m/pkg/dasm"
)

func main() {
	var cfg *config.Config
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "dasm7m",
		Short: "ARMv7-M dynamic assembler demo host",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := env.Str("DASM7M_CONFIG", config.GetConfigPath())
			loaded, err := config.LoadFrom(path)
			if err != nil {
				return err
			}
			cfg = loaded

			// Env overrides win over the config file, flags win over both.
			cfg.Engine.MaxSections = env.Int("DASM7M_MAX_SECTIONS", cfg.Engine.MaxSections)
			if env.Bool("DASM7M_VERBOSE") {
				cfg.Output.Verbose = true
			}
			if verbose {
				cfg.Output.Verbose = true
			}
			dasm.Verbose = cfg.Output.Verbose
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Trace encoder passes on stderr")

	var value string

	assembleCmd := &cobra.Command{
		Use:   "assemble",
		Short: "Run the built-in template through all three passes and dump the bytes",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseValue(value)
			if err != nil {
				return err
			}
			code, _, err := assembleDemo(cfg, n)
			if err != nil {
				var de *dasm.Error
				if errors.As(err, &de) && de.Status.Family() == dasm.StatusRangeI {
					return fmt.Errorf("%s (operand does not fit its immediate format)", de.Report())
				}
				return err
			}
			fmt.Printf("assembled %d bytes (loads 0x%08X into r0)\n", len(code), n)
			hexdump(code, cfg.Output.BytesPerLine)
			return nil
		},
	}
	assembleCmd.Flags().StringVar(&value, "value", "0xC0DE2042", "32-bit value the demo function returns")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Assemble the built-in template, map it executable and call it",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseValue(value)
			if err != nil {
				return err
			}
			code, _, err := assembleDemo(cfg, n)
			if err != nil {
				return err
			}

			mem, err := execBuffer(code)
			if err != nil {
				fmt.Printf("cannot map executable memory: %v\n", err)
				hexdump(code, cfg.Output.BytesPerLine)
				return nil
			}
			defer freeBuffer(mem)

			ret, err := callThumb(mem)
			if err != nil {
				fmt.Printf("%v\n", err)
				hexdump(code, cfg.Output.BytesPerLine)
				return nil
			}
			fmt.Printf("code() = 0x%08X (want 0x%08X)\n", ret, n)
			return nil
		},
	}
	runCmd.Flags().StringVar(&value, "value", "0xC0DE2042", "32-bit value the demo function returns")

	var breakTemplate bool

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Open an interactive view of the encoder state after Pass 1",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, putErr := putDemo(cfg, 0xC0DE2042, breakTemplate)
			return runInspector(st, putErr)
		},
	}
	inspectCmd.Flags().BoolVar(&breakTemplate, "broken", false, "Inject an undefined-label reference to inspect a failing template")

	rootCmd.AddCommand(assembleCmd, runCmd, inspectCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseValue(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad --value %q: %w", s, err)
	}
	return uint32(n), nil
}

func hexdump(code []byte, perLine int) {
	if perLine <= 0 {
		perLine = 16
	}
	for i := 0; i < len(code); i += perLine {
		end := i + perLine
		if end > len(code) {
			end = len(code)
		}
		fmt.Printf("%08X ", i)
		for _, b := range code[i:end] {
			fmt.Printf(" %02X", b)
		}
		fmt.Println()
	}
}
