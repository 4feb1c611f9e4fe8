package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/hdrlog"
	"github.com/arloliu/hdrlog/blob"
	"github.com/arloliu/hdrlog/encoding"
	"github.com/arloliu/hdrlog/histogram"
	"github.com/arloliu/hdrlog/logio"
)

type encodeFlags struct {
	lowest  int64
	highest int64
	sigFigs int32
	level   int
	asLog   bool
	tag     string
}

func newEncodeCommand(a *app) *cobra.Command {
	f := &encodeFlags{}

	cmd := &cobra.Command{
		Use:   "encode [value...]",
		Short: "Record values into a histogram and print its encoded form",
		Long: `Encode records the integer values given as arguments, or one per line on stdin,
into a histogram and prints its base64 envelope. With --log a complete single
interval log is written instead.`,
		Example: `  hdrlog encode 12 15 1000
  seq 1 1000 | hdrlog encode --log --tag api`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.merge(cmd, a.cfg.Encode)
			return a.runEncode(cmd, args, f)
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&f.lowest, "lowest", 1, "lowest discernible value")
	flags.Int64Var(&f.highest, "highest", 3600000000, "highest trackable value")
	flags.Int32Var(&f.sigFigs, "sigfigs", 3, "significant value digits, 1 to 5")
	flags.IntVar(&f.level, "level", blob.DefaultCompressionLevel, "zlib compression level")
	flags.BoolVar(&f.asLog, "log", false, "write a single interval log instead of the bare envelope")
	flags.StringVar(&f.tag, "tag", "", "tag of the interval written with --log")

	return cmd
}

func (f *encodeFlags) merge(cmd *cobra.Command, cfg EncodeConfig) {
	flags := cmd.Flags()
	if !flags.Changed("lowest") && cfg.Lowest > 0 {
		f.lowest = cfg.Lowest
	}
	if !flags.Changed("highest") && cfg.Highest > 0 {
		f.highest = cfg.Highest
	}
	if !flags.Changed("sigfigs") && cfg.SignificantFigs > 0 {
		f.sigFigs = cfg.SignificantFigs
	}
	if !flags.Changed("level") && cfg.CompressionLevel != 0 {
		f.level = cfg.CompressionLevel
	}
}

func (a *app) runEncode(cmd *cobra.Command, args []string, f *encodeFlags) error {
	h, err := histogram.NewHDR(f.lowest, f.highest, f.sigFigs)
	if err != nil {
		return err
	}

	values, err := readValues(cmd, args)
	if err != nil {
		return err
	}
	if err := h.RecordValues(values...); err != nil {
		return err
	}

	opts := []blob.EncoderOption{blob.WithCompressionLevel(f.level)}
	if a.cfg.Encode.MaxBufferSize > 0 {
		opts = append(opts, blob.WithMaxBufferSize(a.cfg.Encode.MaxBufferSize))
	}
	enc, err := hdrlog.NewEncoder(opts...)
	if err != nil {
		return err
	}

	a.logger.Debug("encoding histogram",
		zap.Int("values", len(values)),
		zap.Int("counts", len(h.Counts())),
	)

	if f.asLog {
		return writeSingleIntervalLog(cmd, enc, h, f.tag)
	}

	data, err := enc.Encode(h)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", encoding.Base64Encode(data))

	return err
}

func writeSingleIntervalLog(cmd *cobra.Command, enc *blob.Encoder, h *histogram.HDR, tag string) error {
	w, err := hdrlog.NewLogWriter(cmd.OutOrStdout(), logio.WithEncoder(enc))
	if err != nil {
		return err
	}

	now := time.Now().UnixMilli()
	if err := w.WriteHeader(logio.Header{StartTimeMs: now, BaseTimeMs: now}); err != nil {
		return err
	}

	rec := logio.Record{
		Tag:         tag,
		IntervalMax: logio.StampFromDuration(time.Duration(h.Max()) * time.Millisecond),
	}
	if err := w.WriteRecord(rec, h); err != nil {
		return err
	}

	return w.Flush()
}

// readValues parses args, or the whitespace separated words of stdin when args is empty.
func readValues(cmd *cobra.Command, args []string) ([]int64, error) {
	words := args
	if len(words) == 0 {
		sc := bufio.NewScanner(cmd.InOrStdin())
		sc.Split(bufio.ScanWords)
		for sc.Scan() {
			words = append(words, sc.Text())
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
	}

	values := make([]int64, 0, len(words))
	for _, w := range words {
		v, err := strconv.ParseInt(strings.TrimSpace(w), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", w, err)
		}
		values = append(values, v)
	}

	return values, nil
}
