// Package main provides the entry point for the floatui demo.
//
// floatui is a terminal demo of floating overlays: menus and tooltips that
// attach to trigger buttons, flip to whichever side has room and follow
// their trigger as it moves.
//
// Usage:
//
//	floatui [--config path] [--log path]
//	floatui init [path]
//	floatui place --viewport 80x24 --trigger 10,5,6,1 --size 20x5
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/riordanpawley/floatui/internal/cli"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logPath    string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "floatui",
		Short:         "Floating menus and tooltips in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(deps *cli.Dependencies) error {
				return cli.RunCommand(cmd.Context(), deps)
			})
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (.json or .toml); default searches the working directory")
	root.PersistentFlags().StringVar(&logPath, "log", "", "write logs to this file")

	root.AddCommand(newInitCommand(), newPlaceCommand())
	return root
}

func newInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ".floatui.toml"
			if len(args) == 1 {
				path = args[0]
			}
			return cli.InitCommand(cmd.OutOrStdout(), path, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func newPlaceCommand() *cobra.Command {
	var viewport, trigger, size string
	cmd := &cobra.Command{
		Use:   "place",
		Short: "Show where content would float next to a trigger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts cli.PlaceOptions
			var err error
			if opts.Viewport, err = cli.ParseSize(viewport); err != nil {
				return err
			}
			if opts.Trigger, err = cli.ParseRect(trigger); err != nil {
				return err
			}
			if opts.Content, err = cli.ParseSize(size); err != nil {
				return err
			}
			return withDeps(func(deps *cli.Dependencies) error {
				return cli.PlaceCommand(cmd.OutOrStdout(), deps, opts)
			})
		},
	}
	cmd.Flags().StringVar(&viewport, "viewport", "80x24", "viewport size WxH")
	cmd.Flags().StringVar(&trigger, "trigger", "0,0,6,1", "trigger rect X,Y,W,H")
	cmd.Flags().StringVar(&size, "size", "20x5", "content size WxH")
	return cmd
}

func withDeps(fn func(*cli.Dependencies) error) error {
	deps, err := cli.NewDependencies(configPath, logPath)
	if err != nil {
		return err
	}
	defer deps.Close()
	return fn(deps)
}
