package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datallboy/toolfetch/internal/domain"
)

func newSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the download sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, s := range domain.Sources() {
				auth := "no"
				if s.RequiresToken {
					auth = "yes"
				}
				fmt.Fprintf(out, "%-6s %-18s token:%-4s %s\n", s.ID, s.Title, auth, s.URL)
			}
			return nil
		},
	}
}
