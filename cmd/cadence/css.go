package main

import (
	"fmt"

	"github.com/aretw0/cadence/pkg/adapters/csskeyframes"
	"github.com/aretw0/cadence/pkg/styles"
	"github.com/spf13/cobra"
)

var cssCmd = &cobra.Command{
	Use:   "css <animation>",
	Short: "Export an animation as CSS @keyframes",
	Long: `Compiles the animation like 'compile' does and prints one @keyframes rule per timeline,
followed by the animation shorthand that plays it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		instructions, err := compileAnimation(cmd, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i, inst := range instructions {
			if len(inst.Keyframes) == 0 {
				continue
			}
			name := fmt.Sprintf("%s_%d", styles.CamelCaseToDashCase(args[0]), i+1)
			easing := inst.Easing
			if easing == "" {
				easing = "ease"
			}
			fmt.Fprintln(out, csskeyframes.KeyframesCSS(name, inst.Keyframes))
			fmt.Fprintf(out, "/* animation: %gms %s %gms 1 normal forwards %s; */\n\n", inst.Duration, easing, inst.Delay, name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cssCmd)
	addCompileFlags(cssCmd)
}
