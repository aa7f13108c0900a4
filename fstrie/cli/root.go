package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	internal "github.com/ZanzyTHEbar/fstrie/fstrie"
	"github.com/ZanzyTHEbar/fstrie/fstrie/config"
	"github.com/ZanzyTHEbar/fstrie/fstrie/filesystem"
	"github.com/ZanzyTHEbar/fstrie/fstrie/filesystem/options"
	"github.com/ZanzyTHEbar/fstrie/fstrie/filesystem/watcher"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	maxDepth   int
	hidden     bool
	ignore     []string
	jsonOutput bool
	jobs       int
	noColor    bool
	watch      bool
	verbose    bool
}

// commandEnv carries what the command reads from outside the process flags.
// Tests swap the filesystem and working directory.
type commandEnv struct {
	fs    afero.Fs
	getwd func() (string, error)
}

// NewRootCmd builds the fstrie command
func NewRootCmd() *cobra.Command {
	return newRootCmd(commandEnv{})
}

func newRootCmd(env commandEnv) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   internal.DefaultAppCMDShortCut + " [paths...]",
		Short: "Print the directory hierarchy below each path as a trie",
		Long: `fstrie resolves each path against the working directory and mirrors the
filesystem hierarchy below it as a trie. Directories are inner nodes, files are
leaves. For every path the containing directory is printed first, followed by
the tree.

Several paths are built concurrently; output follows argument order.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			return run(cmd, env, flags, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "Path to a YAML config file")
	f.IntVar(&flags.maxDepth, "max-depth", 0, "Fail when the hierarchy is deeper than this (0 = unlimited)")
	f.BoolVar(&flags.hidden, "hidden", true, "Include entries whose name starts with a dot")
	f.StringArrayVar(&flags.ignore, "ignore", nil, "Gitignore-style pattern to leave out (repeatable)")
	f.BoolVar(&flags.jsonOutput, "json", false, "Print snapshots as JSON instead of trees")
	f.IntVarP(&flags.jobs, "jobs", "j", 0, "Number of paths built concurrently (0 = one per CPU)")
	f.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	f.BoolVarP(&flags.watch, "watch", "w", false, "Keep running and reprint a tree whenever it changes")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

// Execute runs the root command. An interrupt cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func run(cmd *cobra.Command, env commandEnv, flags *rootFlags, args []string) error {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return err
	}

	traversal := options.FromConfig(cfg.Trie)
	applyFlagOverrides(cmd, flags, &traversal)

	level := cfg.Log.Level
	if flags.verbose {
		level = "debug"
	}
	logger := internal.NewLogger(level, cfg.Log.Pretty)

	opts := []filesystem.Option{
		filesystem.WithTraversalOptions(traversal),
		filesystem.WithLogger(logger),
	}
	if env.fs != nil {
		opts = append(opts, filesystem.WithFs(env.fs))
	}
	if env.getwd != nil {
		opts = append(opts, filesystem.WithWorkingDirectory(env.getwd))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fsys := filesystem.New(opts...)
	traverser := filesystem.NewConcurrentTraverser(fsys, flags.jobs)
	results, buildErr := traverser.BuildAll(ctx, args)

	out := cmd.OutOrStdout()
	p := newPalette(out, flags.noColor)
	if flags.jsonOutput {
		err = writeJSON(out, results)
	} else {
		err = writeTrees(out, results, p)
	}
	if err != nil {
		return err
	}

	for _, res := range results {
		if res.Error != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", internal.DefaultAppName, res.Error)
		}
	}
	if buildErr != nil {
		return fmt.Errorf("failed to build %d of %d paths", countFailed(results), len(results))
	}

	if flags.watch {
		return watch(ctx, cmd, fsys, results, flags, p, logger)
	}
	return nil
}

// watch reprints the tree of a root every time something below it changes.
// A failed rebuild is reported and watching continues.
func watch(ctx context.Context, cmd *cobra.Command, fsys *filesystem.FileSystem, results []filesystem.TraversalResult, flags *rootFlags, p *palette, logger zerolog.Logger) error {
	roots := make([]string, 0, len(results))
	for _, res := range results {
		roots = append(roots, filepath.Join(res.Result.Components.Values()...))
	}

	out := cmd.OutOrStdout()
	return watcher.WatchPaths(ctx, watcher.DefaultConfig(), logger, roots, func(ctx context.Context, change watcher.Change) error {
		result, err := fsys.BuildTrie(ctx, change.Root)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", internal.DefaultAppName, err)
			return nil
		}

		rebuilt := []filesystem.TraversalResult{{Path: change.Root, Result: result}}
		if flags.jsonOutput {
			return writeJSON(out, rebuilt)
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
		return writeTrees(out, rebuilt, p)
	})
}

// applyFlagOverrides lets explicitly set flags win over configuration
func applyFlagOverrides(cmd *cobra.Command, flags *rootFlags, opts *options.TraversalOptions) {
	f := cmd.Flags()
	if f.Changed("max-depth") {
		opts.MaxDepth = flags.maxDepth
	}
	if f.Changed("hidden") {
		opts.IncludeHidden = flags.hidden
	}
	if f.Changed("ignore") {
		opts.IgnorePatterns = append(opts.IgnorePatterns, flags.ignore...)
	}
}

func countFailed(results []filesystem.TraversalResult) int {
	n := 0
	for _, res := range results {
		if res.Error != nil {
			n++
		}
	}
	return n
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// newPalette disables color unless w is a terminal and color was not turned off
func newPalette(w io.Writer, noColor bool) *palette {
	p := &palette{
		dir:    color.New(color.FgBlue, color.Bold),
		prefix: color.New(color.Faint),
	}
	if noColor || color.NoColor || !isTerminal(w) {
		p.dir.DisableColor()
		p.prefix.DisableColor()
	}
	return p
}
