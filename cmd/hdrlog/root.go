package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the state shared by the subcommands.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    Config
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "hdrlog",
		Short:         "Inspect and produce HdrHistogram interval logs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "console", "log format: console or json")

	root.AddCommand(
		newDecodeCommand(a),
		newHeaderCommand(a),
		newEncodeCommand(a),
		newRecompressCommand(a),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") || a.configPath == "" {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") || a.configPath == "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger

	return nil
}

// openInput opens the file named by args, or stdin when there is none or it is "-".
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), "stdin", nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, args[0], err
	}

	return f, args[0], nil
}
