package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/nearby/internal/app"
	"github.com/five82/nearby/internal/share"
)

type rootOptions struct {
	configPath string
	prefsPath  string
	verbose    bool
}

func (o *rootOptions) appOptions() app.Options {
	return app.Options{
		ConfigPath: o.configPath,
		PrefsPath:  o.prefsPath,
		Verbose:    o.verbose,
	}
}

// newRootCmd builds the nearby command tree. Without a subcommand it starts
// the terminal UI.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "nearby",
		Short: "NearBy MKT in your terminal: shop search and reels",
		Long: `nearby browses the NearBy MKT catalog and reel feed from the terminal.

Run without arguments to start the interactive UI. The subcommands run a
single action against the same local state and exit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), opts.appOptions())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/nearby/config.toml)")
	flags.StringVar(&opts.prefsPath, "prefs", "", "preferences file (default ~/.config/nearby/prefs.toml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(newSearchCmd(opts))
	root.AddCommand(newRecentCmd(opts))
	root.AddCommand(newReelsCmd(opts))
	root.AddCommand(newLogsCmd(opts))
	return root
}

// withEnv opens the app environment for a one-shot command. Shared links are
// printed instead of copied.
func withEnv(cmd *cobra.Command, opts *rootOptions, fn func(env *app.Env) error) (err error) {
	appOpts := opts.appOptions()
	appOpts.Sharer = share.Func(func(ctx context.Context, p share.Payload) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), p.URL)
		return err
	})
	env, err := app.Open(cmd.Context(), appOpts)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, env.Close())
	}()
	return fn(env)
}
