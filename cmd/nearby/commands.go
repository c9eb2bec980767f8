package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/nearby/internal/app"
	"github.com/five82/nearby/internal/config"
	"github.com/five82/nearby/internal/logging"
	"github.com/five82/nearby/internal/reels"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query...>",
		Short: "Search the catalog and record the query as recent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(env *app.Env) error {
				out := cmd.OutOrStdout()
				nav, ok := env.Search.SubmitTerm(strings.Join(args, " "))
				if !ok {
					return errors.New("query is blank")
				}
				results := env.Catalog.Search(nav.Query, env.Catalog.Len())
				fmt.Fprintf(out, "%s\n", nav.Path)
				if len(results) == 0 {
					fmt.Fprintln(out, "No results.")
					return nil
				}
				for _, e := range results {
					fmt.Fprintf(out, "%-8s %-32s %s\n", e.ID, e.Name, e.Category)
				}
				return nil
			})
		},
	}
}

func newRecentCmd(opts *rootOptions) *cobra.Command {
	var clearAll bool
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(env *app.Env) error {
				if clearAll {
					env.Search.ClearRecent()
					fmt.Fprintln(cmd.OutOrStdout(), "Recent searches cleared.")
					return nil
				}
				for _, q := range env.Search.Recent() {
					fmt.Fprintln(cmd.OutOrStdout(), q)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "forget all recent searches")
	return cmd
}

func newReelsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reels",
		Short: "Inspect and engage with the reel feed",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the feed in playback order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withEnv(cmd, opts, func(env *app.Env) error {
					writeFeed(cmd.OutOrStdout(), env.Feed.Snapshot())
					return nil
				})
			},
		},
		reelActionCmd(opts, "like <id>", "Like or unlike a reel", 1, func(f *reels.Feed, id string, _ []string) bool {
			return f.ToggleLike(id)
		}),
		reelActionCmd(opts, "fav <id>", "Save or unsave a reel", 1, func(f *reels.Feed, id string, _ []string) bool {
			return f.ToggleFavorite(id)
		}),
		reelActionCmd(opts, "comment <id> <text...>", "Comment on a reel", 2, func(f *reels.Feed, id string, rest []string) bool {
			return f.AddComment(id, strings.Join(rest, " "))
		}),
		newReelsUploadCmd(opts),
		&cobra.Command{
			Use:   "share <id>",
			Short: "Print the share link for a reel",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withEnv(cmd, opts, func(env *app.Env) error {
					_, err := env.Feed.ShareItem(cmd.Context(), args[0])
					return err
				})
			},
		},
	)
	return cmd
}

func newReelsUploadCmd(opts *rootOptions) *cobra.Command {
	var (
		duration time.Duration
		caption  string
	)
	cmd := &cobra.Command{
		Use:   "upload <src>",
		Short: "Add a recorded video to the front of the feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(env *app.Env) error {
				it, err := env.Feed.Upload(reels.Upload{
					Src:      args[0],
					Duration: duration,
					Caption:  caption,
				})
				if err != nil {
					return err
				}
				writeItem(cmd.OutOrStdout(), it)
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", 0, "length of the video, e.g. 45s")
	cmd.Flags().StringVar(&caption, "caption", "", "caption shown under the video")
	return cmd
}

// reelActionCmd builds a subcommand that applies action to one reel and
// prints its state afterwards.
func reelActionCmd(opts *rootOptions, use, short string, minArgs int, action func(f *reels.Feed, id string, rest []string) bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(minArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(env *app.Env) error {
				id := args[0]
				if !action(env.Feed, id, args[1:]) {
					return fmt.Errorf("nothing changed for %q (unknown id, ad, or blank input)", id)
				}
				for _, it := range env.Feed.Snapshot().Items {
					if it.ID == id {
						writeItem(cmd.OutOrStdout(), it)
					}
				}
				return nil
			})
		},
	}
}

func writeFeed(w io.Writer, snap reels.Snapshot) {
	for i, it := range snap.Items {
		marker := " "
		if i == snap.Active {
			marker = ">"
		}
		fmt.Fprintf(w, "%s %2d ", marker, i+1)
		writeItem(w, it)
	}
}

func writeItem(w io.Writer, it reels.Item) {
	it.Match(
		func(v reels.Video) {
			liked := " "
			if v.Liked {
				liked = "♥"
			}
			saved := " "
			if v.Faved {
				saved = "★"
			}
			fmt.Fprintf(w, "%-12s %s %4d %s %3d comments  %s  %s\n",
				it.ID, liked, v.Likes, saved, len(v.Comments), v.ProfileName, v.Caption)
		},
		func(a reels.Ad) {
			fmt.Fprintf(w, "%-12s [ad] %s: %s (%s)\n", it.ID, a.Brand, a.Title, a.CTA)
		},
	)
}

func newLogsCmd(opts *rootOptions) *cobra.Command {
	var (
		lines int
		level string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			minLevel, err := logging.ParseLevel(level)
			if err != nil {
				return err
			}
			entries, err := logging.Tail(cfg.LogPath(), lines, minLevel)
			if err != nil {
				return err
			}
			for _, line := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of entries to show (0 for all)")
	cmd.Flags().StringVar(&level, "level", "debug", "minimum level to show")
	return cmd
}
