package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arloliu/hdrlog"
)

func newHeaderCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "header [file]",
		Short: "Print the header of a log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHeader(cmd, args)
		},
	}
}

func (a *app) runHeader(cmd *cobra.Command, args []string) error {
	in, _, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer in.Close()

	lr, closer, err := hdrlog.OpenLog(in)
	if err != nil {
		return err
	}
	defer closer.Close()

	h, err := lr.ReadHeader()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "version:    %s\n", h.Version())
	fmt.Fprintf(out, "start time: %s\n", formatMillis(h.StartTimeMs))
	fmt.Fprintf(out, "base time:  %s\n", formatMillis(h.BaseTimeMs))
	fmt.Fprintf(out, "legend:     %t\n", h.HasLegend)

	return nil
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}

	return fmt.Sprintf("%d (%s)", ms, time.UnixMilli(ms).UTC().Format(time.RFC3339Nano))
}
