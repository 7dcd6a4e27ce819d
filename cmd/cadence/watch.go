package main

import (
	"context"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/internal/cli"
	"github.com/aretw0/cadence/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Reload definitions as their files change",
	Long:  `Registers every definition of the directory and reloads each one when its file changes, reporting compile errors as they appear.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, args)
		if err != nil {
			return err
		}
		tui.PrintBanner(cmd.OutOrStdout(), cadence.Version)

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()
		return s.Watch(sigCtx, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
