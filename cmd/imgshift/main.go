package main

import (
	"fmt"
	"os"

	"github.com/nvr-ai/go-imgshift/config"
	"github.com/nvr-ai/go-imgshift/logging"
	"github.com/nvr-ai/go-imgshift/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// readOnlyAnnotation marks commands that never encode, so conversion
// settings are not validated for them.
const readOnlyAnnotation = "imgshift/read-only"

// app carries the state shared by every subcommand after flag parsing.
type app struct {
	configPath string
	envFile    string
	logLevel   string
	logFile    string
	dev        bool

	cfg    *config.Config
	logger *zap.Logger
	pipe   *pipeline.Pipeline
}

func main() {
	a := &app{}
	if err := newRootCommand(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "imgshift",
		Short:         "Format-aware image conversion and hash-evasion transforms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file with IMGSHIFT_* overrides")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.logFile, "log-file", "", "also write JSON logs to this rotated file")
	pf.BoolVar(&a.dev, "dev", false, "human-readable coloured console logs")

	root.AddCommand(
		newSniffCommand(a),
		newDimsCommand(a),
		newConvertCommand(a),
		newEvadeCommand(a),
		newProcessCommand(a),
		newCompressCommand(a),
		newBatchCommand(a),
	)
	return root
}

// setup resolves configuration (defaults, file, env, flags) and builds the
// logger and pipeline.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(a.envFile); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.FilePath = a.logFile
	}
	if flags.Changed("dev") {
		cfg.Log.Development = a.dev
	}
	if cmd.Annotations[readOnlyAnnotation] == "" {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	a.cfg = cfg
	a.logger = logging.New(cfg.Log)
	a.pipe = pipeline.New(pipeline.WithLogger(a.logger))
	return nil
}
