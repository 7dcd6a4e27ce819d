package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/cadence/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check every definition for errors",
	Long: `Loads and compiles every definition of the directory against the selected driver, in parallel,
and reports schema, timing, property and transition expression errors.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, args)
		if err != nil {
			return err
		}
		results, verr := s.Validate(cmd.Context())
		if results == nil && verr != nil {
			return verr
		}
		out, err := tui.NewRenderer()(tui.ValidationReport(results))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		if verr != nil {
			// the report already lists every problem
			return errors.New("validation failed")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All definitions are valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
