package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/showcase/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "showcase: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:           "showcase",
		Short:         "Review and price a product catalog one slide at a time",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/showcase/config.toml)")
	flags.StringVar(&opts.Source, "source", "", "catalog JSON URL or file, overrides the config")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default ~/.config/showcase/prefs.toml)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(newExportCmd(&opts))
	return root
}

func newExportCmd(opts *app.Options) *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the shareable product list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Export(cmd.Context(), *opts, cmd.OutOrStdout(), copyToClipboard)
		},
	}
	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "also copy the list to the clipboard")
	return cmd
}
