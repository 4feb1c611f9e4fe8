package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/hdrlog/format"
	"github.com/arloliu/hdrlog/logio"
)

func newRecompressCommand(a *app) *cobra.Command {
	var (
		to     string
		output string
	)

	cmd := &cobra.Command{
		Use:   "recompress [file]",
		Short: "Rewrite a log with another archive compression",
		Example: `  hdrlog recompress --to zstd -o latency.hlog.zst latency.hlog.gz
  hdrlog recompress --to none < latency.hlog.s2 > latency.hlog`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("to") && a.cfg.Archive.Compression != "" {
				to = a.cfg.Archive.Compression
			}
			return a.runRecompress(cmd, args, to, output)
		},
	}

	cmd.Flags().StringVar(&to, "to", "zstd", "target compression: none, gzip, zstd, s2 or lz4")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, stdout when empty")

	return cmd
}

func (a *app) runRecompress(cmd *cobra.Command, args []string, to, output string) error {
	ctype, ok := format.ParseCompressionType(to)
	if !ok {
		return fmt.Errorf("unknown compression %q", to)
	}

	in, name, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer in.Close()

	src, from, err := logio.OpenArchive(in)
	if err != nil {
		return err
	}
	defer src.Close()

	out := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	dst, err := logio.CreateArchive(out, ctype)
	if err != nil {
		return err
	}

	n, err := io.Copy(dst, src)
	if err != nil {
		_ = dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}

	a.logger.Info("recompressed log",
		zap.String("input", name),
		zap.Stringer("from", from),
		zap.Stringer("to", ctype),
		zap.Int64("bytes", n),
	)

	return nil
}
