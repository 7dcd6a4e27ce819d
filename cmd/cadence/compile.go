package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/cadence/internal/presentation/tui"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile <animation>",
	Short: "Print the timeline an animation compiles to",
	Long: `Compiles the animation for the element matched by --selector (the body by default) and prints
its timeline instructions: one per animated element, with duration, delay, easing and keyframes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		instructions, err := compileAnimation(cmd, args[0])
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(instructions)
		}
		out, err := tui.NewRenderer()(tui.TimelineReport(args[0], instructions))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

// compileAnimation loads the session and compiles id with the --selector
// and --param flags.
func compileAnimation(cmd *cobra.Command, id string) ([]*domain.TimelineInstruction, error) {
	s, err := loadedSession(cmd)
	if err != nil {
		return nil, err
	}
	selector, _ := cmd.Flags().GetString("selector")
	el, err := s.Element(selector)
	if err != nil {
		return nil, err
	}
	pairs, _ := cmd.Flags().GetStringArray("param")
	params, err := parseParams(pairs)
	if err != nil {
		return nil, err
	}
	return s.Engine.Compile(cmd.Context(), id, el, &domain.Options{Params: params})
}

func addCompileFlags(cmd *cobra.Command) {
	cmd.Flags().String("selector", "", "CSS selector of the animated element (defaults to the body)")
	cmd.Flags().StringArrayP("param", "p", nil, "Animation param as key=value (repeatable)")
}

func init() {
	rootCmd.AddCommand(compileCmd)
	addCompileFlags(compileCmd)
	compileCmd.Flags().Bool("json", false, "Print the instructions as JSON")
}
