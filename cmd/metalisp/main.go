package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mattn/metalisp"
)

// errFailed means some forms failed and were already reported.
var errFailed = errors.New("one or more forms failed")

// rootEnv holds the flags of the metalisp command.
type rootEnv struct {
	flagConfig    string
	flagDepth     int
	flagPrompt    string
	flagNoPrelude bool
	flagNoColor   bool
	flagVerbose   bool
}

func newRootCmd() *cobra.Command {
	env := &rootEnv{}

	ret := &cobra.Command{
		Use:   "metalisp [file...]",
		Short: "Evaluate metalisp programs",
		Long: `
Evaluate the given files form by form, printing each result. With no files
an interactive prompt is started when stdin is a terminal, otherwise stdin
is read as a program.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          env.run,
	}
	ret.Flags().StringVarP(&env.flagConfig, "config", "c", "", "YAML config file")
	ret.Flags().IntVar(&env.flagDepth, "depth", metalisp.DefaultMaxDepth, "maximum call depth; 0 means no limit")
	ret.Flags().StringVar(&env.flagPrompt, "prompt", "> ", "interactive prompt")
	ret.Flags().BoolVar(&env.flagNoPrelude, "no-prelude", false, "do not define and, or and null at startup")
	ret.Flags().BoolVar(&env.flagNoColor, "no-color", false, "do not color error reports")
	ret.Flags().BoolVarP(&env.flagVerbose, "verbose", "v", false, "log debug output")
	return ret
}

func (r *rootEnv) config(cmd *cobra.Command) (metalisp.Config, error) {
	cfg := metalisp.DefaultConfig()
	if r.flagConfig != "" {
		var err error
		cfg, err = metalisp.LoadConfig(r.flagConfig)
		if err != nil {
			return cfg, err
		}
	}
	if cmd.Flags().Changed("depth") {
		cfg.MaxDepth = r.flagDepth
	}
	if cmd.Flags().Changed("prompt") {
		cfg.Prompt = r.flagPrompt
	}
	if r.flagNoPrelude {
		cfg.Prelude = false
	}
	if r.flagNoColor {
		cfg.Color = false
	}
	return cfg, nil
}

func (r *rootEnv) logger() (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if r.flagVerbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zcfg.Build()
}

func (r *rootEnv) run(cmd *cobra.Command, args []string) error {
	cfg, err := r.config(cmd)
	if err != nil {
		return err
	}
	log, err := r.logger()
	if err != nil {
		return err
	}
	defer log.Sync()

	env := metalisp.NewEnv(nil)
	env.SetLogger(log)
	env.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err := cfg.Apply(env); err != nil {
		return err
	}

	if len(args) == 0 {
		if isatty.IsTerminal(os.Stdin.Fd()) {
			return repl(env, cfg, cmd.ErrOrStderr())
		}
		_, err := env.LoadReader(os.Stdin)
		return loadResult(err)
	}

	failed := false
	for _, fn := range args {
		_, err := env.LoadFile(fn)
		if err = loadResult(err); err == errFailed {
			failed = true
		} else if err != nil {
			return err
		}
	}
	if failed {
		return errFailed
	}
	return nil
}

// loadResult maps the per-form errors of a load, which have already been
// reported, to errFailed.
func loadResult(err error) error {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return errFailed
	}
	return err
}

func repl(env *metalisp.Env, cfg metalisp.Config, errOut io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if cfg.History != "" {
		if f, err := os.Open(cfg.History); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	red := color.New(color.FgRed)
	if !cfg.Color {
		red.DisableColor()
	}
	for {
		s, err := line.Prompt(cfg.Prompt)
		if err != nil {
			if err == io.EOF || err == liner.ErrPromptAborted {
				break
			}
			return err
		}
		if strings.TrimSpace(s) == "" {
			break
		}
		line.AppendHistory(s)
		if _, err := env.Interact(s); err != nil {
			red.Fprintf(errOut, "error: %v\n", err)
		}
	}

	if cfg.History != "" {
		f, err := os.Create(cfg.History)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := line.WriteHistory(f); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if err != errFailed {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
