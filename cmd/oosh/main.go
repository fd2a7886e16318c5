package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gnostr-org/tcl/oo"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	root := newRootCmd()
	root.SetArgs(args[1:])
	return root.Execute()
}

// shell carries the state shared by every subcommand once the persistent
// pre-run has loaded configuration and built the logger.
type shell struct {
	verbose    bool
	configPath string
	cfg        *shellConfig
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	sh := &shell{}
	root := &cobra.Command{
		Use:   "oosh",
		Short: "oosh - an interactive shell for the oo object system",
		Long: `oosh drives an object system modelled on TclOO: classes, mixins,
filters, slots, class delegates and the clone protocol.

Run without arguments to start the interactive shell.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: sh.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if sh.logger != nil {
				_ = sh.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(sh.cfg, sh.logger)
		},
	}
	root.PersistentFlags().BoolVarP(&sh.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&sh.configPath, "config", "c", "oosh.yaml", "path to a yaml or toml config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "repl",
			Short: "Start the interactive shell",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runREPL(sh.cfg, sh.logger)
			},
		},
		&cobra.Command{
			Use:   "run <script>",
			Short: "Evaluate a script and print its final result",
			Args:  cobra.ExactArgs(1),
			RunE:  sh.runScript,
		},
		newDumpCmd(sh),
	)
	return root
}

func (sh *shell) setup(cmd *cobra.Command, args []string) error {
	cfg, err := loadShellConfig(sh.configPath)
	if err != nil {
		return err
	}
	sh.cfg = cfg

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if sh.verbose {
		level = zapcore.DebugLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	sh.logger = logger.With(zap.String("session", uuid.NewString()))
	return nil
}

func (sh *shell) runScript(cmd *cobra.Command, args []string) error {
	_, result, err := sh.evalFile(args[0])
	if err != nil {
		return err
	}
	if !result.IsNil() && result.String() != "" {
		fmt.Fprintln(cmd.OutOrStdout(), result.String())
	}
	return nil
}

// evalFile evaluates path in a fresh interpreter.
func (sh *shell) evalFile(path string) (*oo.Interp, oo.Value, error) {
	input, err := os.ReadFile(path)
	if err != nil {
		return nil, oo.Value{}, fmt.Errorf("read script: %w", err)
	}
	interp, err := newInterp(sh.cfg, sh.logger)
	if err != nil {
		return nil, oo.Value{}, err
	}
	sh.logger.Debug("evaluating script", zap.String("path", path))
	result, err := interp.EvalScript(string(input))
	if err != nil {
		return nil, oo.Value{}, fmt.Errorf("%s: %w", path, err)
	}
	return interp, result, nil
}

// newInterp builds an interpreter from the shell settings and runs the
// configured startup lines.
func newInterp(cfg *shellConfig, logger *zap.Logger) (*oo.Interp, error) {
	icfg := cfg.interpConfig()
	icfg.Logger = logger
	interp, err := oo.NewInterp(icfg)
	if err != nil {
		return nil, err
	}
	if len(cfg.Startup) > 0 {
		if _, err := interp.EvalScript(strings.Join(cfg.Startup, "\n")); err != nil {
			return nil, fmt.Errorf("startup: %w", err)
		}
	}
	return interp, nil
}
