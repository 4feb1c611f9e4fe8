package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/hdrlog"
	"github.com/arloliu/hdrlog/format"
	"github.com/arloliu/hdrlog/logio"
	"github.com/arloliu/hdrlog/report"
)

type decodeFlags struct {
	format string
	policy string
	strict bool
	tags   []string
	scale  float64
	ticks  int32
}

func newDecodeCommand(a *app) *cobra.Command {
	f := &decodeFlags{}

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode every interval of a log and report its percentiles",
		Long: `Decode reads an interval log, plain or compressed with gzip, zstd, s2 or lz4,
and writes one report per decoded interval to stdout.`,
		Example: `  hdrlog decode --format summary --tag api latency.hlog
  zcat latency.hlog.gz | hdrlog decode --policy abort`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.merge(cmd, a.cfg.Decode)
			return a.runDecode(cmd, args, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.format, "format", "csv", "report format: csv, classic or summary")
	flags.StringVar(&f.policy, "policy", "skip", "undecodable interval handling: skip or abort")
	flags.BoolVar(&f.strict, "strict", false, "reject misplaced base64 padding")
	flags.StringSliceVar(&f.tags, "tag", nil, "only report intervals with these tags")
	flags.Float64Var(&f.scale, "scale", 1, "divide reported values by this ratio")
	flags.Int32Var(&f.ticks, "ticks", 5, "percentile ticks per half distance for the classic format")

	return cmd
}

// merge fills the flags the user did not set from the configuration file.
func (f *decodeFlags) merge(cmd *cobra.Command, cfg DecodeConfig) {
	flags := cmd.Flags()
	if !flags.Changed("format") && cfg.Format != "" {
		f.format = cfg.Format
	}
	if !flags.Changed("policy") && cfg.Policy != "" {
		f.policy = cfg.Policy
	}
	if !flags.Changed("strict") {
		f.strict = f.strict || cfg.StrictBase64
	}
	if !flags.Changed("tag") && len(cfg.Tags) > 0 {
		f.tags = cfg.Tags
	}
	if !flags.Changed("scale") && cfg.ValueScale > 0 {
		f.scale = cfg.ValueScale
	}
}

func (f *decodeFlags) sink(cmd *cobra.Command) (report.Sink, error) {
	out := cmd.OutOrStdout()

	switch f.format {
	case "csv":
		return report.NewCSVPercentiles(out, f.scale), nil
	case "classic":
		return report.NewClassic(out, f.ticks, f.scale), nil
	case "summary":
		return report.NewSummary(out, f.scale), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", f.format)
	}
}

func (a *app) runDecode(cmd *cobra.Command, args []string, f *decodeFlags) error {
	policy, ok := format.ParseFailurePolicy(f.policy)
	if !ok {
		return fmt.Errorf("unknown failure policy %q", f.policy)
	}

	sink, err := f.sink(cmd)
	if err != nil {
		return err
	}

	in, name, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer in.Close()

	opts := []logio.ReaderOption{
		logio.WithFailurePolicy(policy),
		logio.WithStrictBase64(f.strict),
		logio.WithLogger(a.logger.With(zap.String("input", name))),
	}
	if len(f.tags) > 0 {
		opts = append(opts, logio.WithTags(f.tags...))
	}

	lr, closer, err := hdrlog.OpenLog(in, opts...)
	if err != nil {
		return err
	}
	defer closer.Close()

	stats, err := lr.Scan(cmd.Context(), sink)
	a.logger.Info("decoded log",
		zap.String("input", name),
		zap.Int("lines", stats.Lines),
		zap.Int("records", stats.Records),
		zap.Int("skipped", stats.Skipped),
		zap.Int("filtered", stats.Filtered),
	)

	return err
}
