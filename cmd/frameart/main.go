// Command frameart refreshes the artwork shown by a Samsung Frame TV. It is meant
// to be started periodically by cron or a systemd timer.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cgddrd/samsung-frame-art/util/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Printf("Error: %v", err)
		stop()
		os.Exit(1)
	}
}
