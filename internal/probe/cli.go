package probe

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/DoyleJ11/arena-probe/internal/config"
	"github.com/DoyleJ11/arena-probe/internal/logging"
	"github.com/DoyleJ11/arena-probe/internal/transcript"
	"github.com/DoyleJ11/arena-probe/pkg/types"
	"go.uber.org/zap"
)

// Main is the whole body of a probe binary. It never exits non-zero:
// configuration problems are printed like any other failure.
func Main(v config.Variant, roster types.Roster, title string) {
	cfg, err := config.Load(v)
	if err != nil {
		fmt.Printf("❌ Error: %v\n", err)
		return
	}

	log := logging.Must(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := New(cfg, roster, os.Stdout, log)
	p.Sink = openSink(ctx, cfg, log)

	p.Printer.Banner(title)
	p.Run(ctx)
	p.Printer.Done()
}

func openSink(ctx context.Context, cfg config.Probe, log *zap.Logger) transcript.Sink {
	if cfg.DatabaseURL == "" {
		return transcript.Nop{}
	}
	store, err := transcript.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Warn("transcript disabled", zap.Error(err))
		return transcript.Nop{}
	}
	return transcript.NewRecorder(store)
}
