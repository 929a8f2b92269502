package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/datallboy/toolfetch/internal/cli"
	"github.com/datallboy/toolfetch/internal/domain"
	"github.com/datallboy/toolfetch/internal/engine"
)

func newGetCmd() *cobra.Command {
	var (
		sourceID string
		token    string
	)

	cmd := &cobra.Command{
		Use:   "get <url>",
		Short: "Download a single file and show its progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appCtx, err := bootstrap(false)
			if err != nil {
				return err
			}
			defer appCtx.Logger.Close()

			source, err := domain.SourceByID(sourceID)
			if err != nil {
				return err
			}
			if token != "" {
				appCtx.Tokens.Set(token)
			}

			progress := cli.NewProgressSink(cmd.ErrOrStderr())
			orch := engine.NewOrchestrator(appCtx, engine.Sinks{
				engine.LogSink{Logger: appCtx.Logger.Named("events")},
				progress,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := orch.StartDownload(source, args[0]); err != nil {
				return fmt.Errorf("%s: %w", domain.StatusKey(err), err)
			}

			var interrupted bool
			select {
			case <-progress.Done():
			case <-ctx.Done():
				interrupted = true
			}

			if err := orch.Shutdown(context.Background()); err != nil {
				return err
			}
			if interrupted {
				return errors.New("download interrupted")
			}

			if last := progress.Last(); last != "" {
				fmt.Fprintln(cmd.OutOrStdout(), last)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceID, "source", "s", string(domain.SourceVideo), "download source (tools or video)")
	cmd.Flags().StringVarP(&token, "token", "t", "", "download auth token (overrides auth.token)")
	return cmd
}
