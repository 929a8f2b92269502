package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the helper scripts and optional binaries are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appCtx, err := bootstrap(false)
			if err != nil {
				return err
			}
			defer appCtx.Logger.Close()

			out := cmd.OutOrStdout()
			warnings, err := appCtx.Helpers.ValidateDependencies()
			for _, w := range warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "helpers OK in %s\n", appCtx.Config.Helper.ScriptDir)
			return nil
		},
	}
}
