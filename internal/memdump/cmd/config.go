package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"memdump/internal/dump"
	"memdump/internal/launcher"
	"memdump/internal/memory"
	"memdump/internal/prompt"
	"memdump/internal/remote"
)

// ErrUsage marks command line mistakes.
var ErrUsage = errors.New("usage")

// Config is the resolved configuration of one scan run.
type Config struct {
	Pid         int           `json:"pid,omitempty" jsonschema:"title=PID,description=Process to attach to"`
	Launch      bool          `json:"launchTarget,omitempty" jsonschema:"title=Launch Target,description=Start the reference target and attach to it"`
	TargetBin   string        `json:"targetBin,omitempty" jsonschema:"title=Target Binary,description=Reference target to launch,default=./memdump-target"`
	TargetArgs  []string      `json:"targetArgs,omitempty" jsonschema:"title=Target Arguments,description=Arguments passed to the launched target"`
	LaunchDelay time.Duration `json:"launchDelay,omitempty" jsonschema:"title=Launch Delay,description=Wait after launching the target in nanoseconds"`
	Pattern     string        `json:"pattern,omitempty" jsonschema:"title=Pattern,description=16 space separated hex bytes"`
	Auto        bool          `json:"auto,omitempty" jsonschema:"title=Auto,description=Use the default A-Z pattern without prompting"`
	Reader      string        `json:"reader,omitempty" jsonschema:"title=Reader,enum=auto,enum=peek,enum=bulk,default=auto"`
	Dump        bool          `json:"dump" jsonschema:"title=Dump,description=Dump selected regions when the pattern is found,default=true"`
	DumpPolicy  string        `json:"dumpPolicy,omitempty" jsonschema:"title=Dump Policy,enum=anon,enum=writable,default=anon"`
	MaxDumps    int           `json:"maxDumps,omitempty" jsonschema:"title=Max Dumps,description=Upper bound on dumped regions (0 for no limit)"`
	OutDir      string        `json:"outDir,omitempty" jsonschema:"title=Output Directory,description=Where dump files are written,default=."`
	TUI         bool          `json:"tui,omitempty" jsonschema:"title=TUI,description=Browse matches interactively after the run"`
	JSON        bool          `json:"json,omitempty" jsonschema:"title=JSON,description=Print the summary as JSON"`
	Debug       bool          `json:"debug,omitempty" jsonschema:"title=Debug,description=Enable debug logging"`
}

func configFromFlags(cmd *cobra.Command, args []string) (Config, error) {
	flags := cmd.Flags()
	var cfg Config
	cfg.Launch, _ = flags.GetBool("launch-target")
	cfg.TargetBin, _ = flags.GetString("target-bin")
	cfg.TargetArgs, _ = flags.GetStringSlice("target-args")
	cfg.LaunchDelay, _ = flags.GetDuration("launch-delay")
	cfg.Pattern, _ = flags.GetString("pattern")
	cfg.Auto, _ = flags.GetBool("auto")
	cfg.Reader, _ = flags.GetString("reader")
	cfg.Dump, _ = flags.GetBool("dump")
	cfg.DumpPolicy, _ = flags.GetString("dump-policy")
	cfg.MaxDumps, _ = flags.GetInt("max-dumps")
	cfg.OutDir, _ = flags.GetString("out")
	cfg.TUI, _ = flags.GetBool("tui")
	cfg.JSON, _ = flags.GetBool("json")
	cfg.Debug, _ = flags.GetBool("debug")

	if noDump, _ := flags.GetBool("no-dump"); noDump {
		cfg.Dump = false
	}

	if len(args) > 0 {
		pid, err := parsePid(args[0])
		if err != nil {
			return cfg, err
		}
		cfg.Pid = pid
	}
	return cfg, cfg.validate()
}

func parsePid(s string) (int, error) {
	pid, err := strconv.Atoi(s)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("%w: invalid pid %q", ErrUsage, s)
	}
	return pid, nil
}

func (c Config) validate() error {
	switch {
	case c.Launch && c.Pid != 0:
		return fmt.Errorf("%w: give either a pid or --launch-target, not both", ErrUsage)
	case !c.Launch && c.Pid == 0:
		return fmt.Errorf("%w: a pid or --launch-target is required", ErrUsage)
	case c.Pattern != "" && c.Auto:
		return fmt.Errorf("%w: --pattern and --auto are mutually exclusive", ErrUsage)
	case c.TUI && c.JSON:
		return fmt.Errorf("%w: --tui and --json are mutually exclusive", ErrUsage)
	case c.JSON && c.interactive():
		return fmt.Errorf("%w: --json needs --pattern or --auto", ErrUsage)
	case c.MaxDumps < 0:
		return fmt.Errorf("%w: --max-dumps must not be negative", ErrUsage)
	}
	if c.Pattern != "" {
		if _, err := memory.ParsePattern(c.Pattern); err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
	}
	if _, err := remote.ParseKind(c.Reader); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if _, err := dump.ParsePolicy(c.DumpPolicy); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return nil
}

func (c Config) delay() time.Duration {
	if c.LaunchDelay <= 0 {
		return launcher.DefaultDelay
	}
	return c.LaunchDelay
}

// interactive reports whether the run will read answers from the operator.
func (c Config) interactive() bool {
	return c.Pattern == "" && !c.Auto
}

// resolvePattern picks the pattern from --pattern, --auto or the prompter.
func (c Config) resolvePattern(p *prompt.Prompter) (memory.Pattern, error) {
	switch {
	case c.Pattern != "":
		return memory.ParsePattern(c.Pattern)
	case c.Auto || p == nil:
		return memory.DefaultPattern(), nil
	default:
		return p.Pattern(), nil
	}
}
