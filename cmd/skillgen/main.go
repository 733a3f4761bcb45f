package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/skill-compiler/skillgen/internal/errors"
	"github.com/skill-compiler/skillgen/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		if logging.Verbose {
			logging.Error("command failed", zap.Error(err), zap.Int("exit", errors.GetExitCode(err)))
		}
		logging.UserError("%v", err)
		os.Exit(errors.GetExitCode(err))
	}
}
