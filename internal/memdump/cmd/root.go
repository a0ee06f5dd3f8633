package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"memdump/internal/attach"
	"memdump/internal/dump"
	"memdump/internal/launcher"
	"memdump/internal/logging"
	memlog "memdump/internal/memdump/log"
	"memdump/internal/memdump/styles"
	"memdump/internal/memory"
	"memdump/internal/prompt"
	"memdump/internal/regions"
	"memdump/internal/remote"
	"memdump/internal/scan"
	"memdump/internal/session"
)

func init() {
	registerFlags(rootCmd)
	rootCmd.AddCommand(regionsCmd)
}

func registerFlags(c *cobra.Command) {
	c.PersistentFlags().BoolP("debug", "d", false, "Debug")

	c.Flags().BoolP("help", "h", false, "Help")
	c.Flags().BoolP("launch-target", "l", false, "Launch the reference target and attach to it")
	c.Flags().String("target-bin", "./memdump-target", "Reference target program used with --launch-target")
	c.Flags().StringSlice("target-args", nil, "Arguments for the launched target (e.g. --known)")
	c.Flags().Duration("launch-delay", launcher.DefaultDelay, "Time to let the launched target initialise")
	c.Flags().StringP("pattern", "p", "", "16 space separated hex bytes to search for (skips the prompt)")
	c.Flags().BoolP("auto", "a", false, "Search for the default A-Z pattern without prompting")
	c.Flags().String("reader", string(remote.KindAuto), "Memory reader: auto, peek or bulk")
	c.Flags().Bool("dump", true, "Dump selected regions when the pattern is found")
	c.Flags().Bool("no-dump", false, "Do not dump any region")
	c.Flags().String("dump-policy", defaultDumpPolicy, "Regions to dump: anon (heap, stack, anonymous) or writable")
	c.Flags().Int("max-dumps", defaultMaxDumps, "Dump at most this many regions (0 for no limit)")
	c.Flags().StringP("out", "o", ".", "Directory for dump files")
	c.Flags().BoolP("tui", "t", false, "Browse the matches interactively after the run")
	c.Flags().BoolP("json", "j", false, "Print the run summary as JSON")
}

var rootCmd = &cobra.Command{
	Use:   "memdump [pid]",
	Short: "Search a running process's memory for a byte pattern",
	Long: `Memdump attaches to a running process, walks its memory regions and
searches them for a 16-byte pattern. When the pattern is found, heap, stack
and anonymous regions are dumped to files for offline analysis.`,
	Example: `
# Prompt for a pattern and scan process 1234
memdump 1234

# Scan with a given pattern and no dumps
memdump --pattern "de ad be ef 00 11 22 33 44 55 66 77 88 99 aa bb" --no-dump 1234

# Launch the reference target holding the A-Z pattern and search for it
memdump --launch-target --target-args=--known --auto
  `,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromFlags(cmd, args)
		if err != nil {
			return err
		}

		// Disable coloring when not writing to a terminal
		if !term.IsTerminal(os.Stdout.Fd()) || cfg.JSON {
			os.Setenv("MEMDUMP_NO_COLOR", "1")
		}

		lg := setupLogger(cfg.Debug)
		defer lg.Close()

		return run(cmd.Context(), cfg, lg, os.Stdin, cmd.OutOrStdout())
	},
}

func setupLogger(debug bool) *logging.LoggerCloser {
	lg := logging.NewLogger()
	memlog.Setup(lg.Logger, debug || logging.IsDebug())
	return lg
}

// run performs one attach, scan and dump cycle. Only usage and attach
// failures are returned as errors.
func run(ctx context.Context, cfg Config, lg *logging.LoggerCloser, in io.Reader, out io.Writer) error {
	kind, _ := remote.ParseKind(cfg.Reader)
	policy, _ := dump.ParsePolicy(cfg.DumpPolicy)

	var prompter *prompt.Prompter
	if cfg.interactive() {
		prompter = prompt.New(in, out)
	}

	pid := cfg.Pid
	if cfg.Launch {
		target, err := launcher.Start(ctx, cfg.TargetBin, os.Stderr, cfg.delay(), cfg.TargetArgs...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		defer func() {
			if err := target.Close(); err != nil {
				lg.Warn("Could not stop launched target", "pid", target.Pid(), "error", err)
			}
		}()
		pid = target.Pid()
		lg.Info("Launched target", "pid", pid, "path", cfg.TargetBin)
	}

	pattern, err := cfg.resolvePattern(prompter)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	ctrl := attach.NewController(attach.DefaultTracer(), lg.Logger)
	sess, err := ctrl.Attach(pid)
	if err != nil {
		return err
	}
	defer sess.Close()

	reader, err := remote.New(kind, sess.Handle())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	var reporter scan.Reporter
	if !cfg.JSON && !cfg.TUI {
		reporter = &scan.ConsoleReporter{
			Out:        out,
			PatternLen: memory.PatternSize,
			Highlight:  styles.HighlightMatch(),
		}
	}

	var confirm func() bool
	if prompter != nil && cfg.Dump {
		confirm = func() bool {
			return prompter.Confirm(fmt.Sprintf("Pattern found. Dump %s regions?", cfg.DumpPolicy))
		}
	}

	sum, err := session.Run(ctx, session.Config{
		Pid:         pid,
		Enumerator:  regions.ForHandle(sess.Handle(), lg.Logger),
		Reader:      reader,
		Pattern:     pattern,
		Reporter:    reporter,
		Logger:      lg.Logger,
		Dump:        cfg.Dump,
		DumpDir:     cfg.OutDir,
		Policy:      policy,
		MaxDumps:    cfg.MaxDumps,
		ConfirmDump: confirm,
	})
	if err != nil {
		lg.Warn("Run interrupted", "error", err)
	}

	// The target is resumed before any output that may wait on the operator.
	if err := sess.Close(); err != nil {
		lg.Error("Detach failed", "pid", pid, "error", err)
	}

	switch {
	case cfg.JSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(newJSONSummary(sum))
	case cfg.TUI:
		program := tea.NewProgram(
			newBrowser(sum),
			tea.WithAltScreen(),
			tea.WithContext(ctx),
		)
		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %v", err)
		}
		return nil
	}

	fmt.Fprintf(out, "\nTotal occurrences found: %d\n", sum.Matches)
	for _, d := range sum.Dumps {
		if d.Err == nil && d.Skipped == "" {
			fmt.Fprintf(out, "Dumped region %d to %s\n", d.Index, d.Path)
		}
	}
	if styles.ColorEnabled() {
		fmt.Fprint(out, styles.RenderMarkdown(sum.Markdown(), 80))
	}
	return nil
}

func Execute() {
	// Plain cobra when piping or emitting JSON to bypass fang's styling
	plain := !term.IsTerminal(os.Stdout.Fd())
	for _, arg := range os.Args[1:] {
		if arg == "--json" || arg == "-j" {
			plain = true
			break
		}
	}

	var err error
	if plain {
		err = rootCmd.ExecuteContext(context.Background())
	} else {
		err = fang.Execute(
			context.Background(),
			rootCmd,
			fang.WithNotifySignal(os.Interrupt),
		)
	}
	if err != nil {
		os.Exit(1)
	}
}
