// Command hdrlog inspects, decodes and produces histogram interval logs.
//
//	hdrlog decode --format csv latency.hlog
//	hdrlog header latency.hlog.zst
//	seq 1 1000 | hdrlog encode --log > latency.hlog
//	hdrlog recompress --to zstd -o latency.hlog.zst latency.hlog
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
