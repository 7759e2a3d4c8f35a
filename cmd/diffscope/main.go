// cmd/diffscope/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"diffscope/internal/cache"
	"diffscope/internal/config"
	"diffscope/internal/diff"
	"diffscope/internal/errors"
	"diffscope/internal/logging"
	"diffscope/internal/source"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every subcommand needs once the root command has
// loaded configuration.
type app struct {
	configPath string
	logLevel   string
	noColor    bool

	cfg *config.Config
	// logger discards until setup replaces it
	logger *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: logging.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "diffscope",
		Short: "Diffscope parses unified diffs into files, hunks and lines",
		Long: `Diffscope reads the unified diff produced by git and shows it as a full
annotated diff, a compact diffstat, or JSON for other tools.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (JSON or TOML)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(a.newDiffCmd())
	rootCmd.AddCommand(a.newShowCmd())
	rootCmd.AddCommand(a.newWatchCmd())
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(config.Resolve(a.configPath, dir))
	if err != nil {
		return errors.ValidationError(fmt.Sprintf("loading config: %v", err), nil)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.noColor || os.Getenv("NO_COLOR") != "" {
		cfg.Color = false
	}
	a.cfg = cfg

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return errors.ValidationError(fmt.Sprintf("initializing logger: %v", err), nil)
	}
	a.logger = logger.WithRunID()
	a.logger.Debug("starting", zap.String("command", cmd.CommandPath()), zap.Strings("args", args))
	return nil
}

func (a *app) newDiffCmd() *cobra.Command {
	var (
		out          outputFlags
		cached       bool
		contextLines int
	)

	cmd := &cobra.Command{
		Use:   "diff [revision...] [-- path...]",
		Short: "Show changes in the working tree, the index, or between revisions",
		Example: `  diffscope diff
  diffscope diff --cached --stat
  diffscope diff main...HEAD --json -- internal/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			git := a.git()
			if cmd.Flags().Changed("unified") {
				git.ContextLines = contextLines
			}

			text, err := git.Diff(cmd.Context(), requestFromArgs(cmd, args, cached))
			if err != nil {
				return fmt.Errorf("getting diff: %w", err)
			}
			return a.emit(cmd.OutOrStdout(), diff.ParseReport(text), &out)
		},
	}

	out.register(cmd)
	cmd.Flags().BoolVar(&cached, "cached", false, "Show staged changes (--cached)")
	cmd.Flags().IntVarP(&contextLines, "unified", "U", 3, "Lines of context around each change")
	return cmd
}

func (a *app) newShowCmd() *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "show [patch-file|-]",
		Short: "Parse a patch file, or stdin when no file is given",
		Long: `Parse a unified diff saved to a file. Patches compressed with zstd or
gzip are decompressed automatically.`,
		Example: `  git diff | diffscope show --stat
  diffscope show change.patch.zst --lines 10,+20`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}

			text, err := source.ReadPatch(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			a.logger.Debug("read patch", zap.String("path", path), zap.Int("bytes", len(text)))
			return a.emit(cmd.OutOrStdout(), diff.ParseReport(text), &out)
		},
	}

	out.register(cmd)
	return cmd
}

func (a *app) newWatchCmd() *cobra.Command {
	var (
		out    outputFlags
		cached bool
	)

	cmd := &cobra.Command{
		Use:   "watch [-- path...]",
		Short: "Re-render the diff whenever the working tree changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("json") && !cmd.Flags().Changed("stat") {
				out.stat = true
			}

			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
			parsed, err := cache.New(a.cfg.Watch.CacheSize)
			if err != nil {
				return errors.Internal("creating parse cache", err)
			}
			watcher, err := source.NewWatcher(dir, a.cfg.Watch.Debounce.Duration, a.logger.Logger)
			if err != nil {
				return errors.SourceError("watching working tree", err, nil)
			}
			defer watcher.Close()

			git := a.git()
			req := requestFromArgs(cmd, args, cached)
			w := cmd.OutOrStdout()
			heading := color.New(color.Faint)
			if !a.cfg.Color {
				heading.DisableColor()
			}

			var lastKey string
			return watcher.Run(cmd.Context(), func(ctx context.Context) error {
				text, err := git.Diff(ctx, req)
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					a.logger.Warn("refresh failed", zap.Error(err))
					return nil
				}
				key := cache.Key(text)
				if key == lastKey {
					return nil
				}
				lastKey = key

				report, hit := parsed.Parse(text)
				a.logger.Debug("refreshed", zap.Bool("cache_hit", hit), zap.Int("files", len(report.Files)))
				heading.Fprintf(w, "── %s ──\n", time.Now().Format("15:04:05"))
				if err := a.emit(w, report, &out); err != nil && errors.ExitCode(err) != errors.ExitValidation {
					return err
				}
				return nil
			})
		},
	}

	out.register(cmd)
	cmd.Flags().BoolVar(&cached, "cached", false, "Watch staged changes (--cached)")
	return cmd
}

func (a *app) git() *source.Git {
	return source.NewGit(a.cfg.Git.Binary, "", a.cfg.Git.ContextLines, a.cfg.Git.Timeout.Duration, a.logger.Logger)
}

// requestFromArgs splits positional args at "--" into revisions and paths.
func requestFromArgs(cmd *cobra.Command, args []string, cached bool) source.DiffRequest {
	req := source.DiffRequest{Cached: cached, Revisions: args}
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		req.Revisions, req.Paths = args[:dash], args[dash:]
	}
	return req
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(errors.ExitCode(err))
	}
}
