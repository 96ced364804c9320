// Command kvs-server binds the stream-socket request/response front end of
// spec §6 to an engineselect.Engine, refusing to start if the data
// directory's engine marker file names a different variant than requested.
// It runs the accept loop, the debug HTTP mux, and a background compaction
// ticker together under one errgroup. On SIGINT/SIGTERM it cancels the
// group and closes the listener, then closes the engine (flushing the
// active generation) once the group has finished. It also registers a
// best-effort engine-close hook via dc0d/onexit.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dc0d/onexit"
	"github.com/iamNilotpal/ignite/internal/engineselect"
	"github.com/iamNilotpal/ignite/internal/server"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/iamNilotpal/ignite/pkg/options"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "kvs-server:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("kvs-server", flag.ExitOnError)
	addr := fs.String("addr", "localhost:8900", "address for the request/response listener")
	debugAddr := fs.String("debug-addr", "", "address for the /healthz and /stats HTTP mux (disabled if empty)")
	engineName := fs.String("engine", string(engineselect.NameKvs), "engine variant owning the data directory (kvs, sled)")
	dataDir := fs.String("data-dir", options.DefaultDataDir, "directory the generation log lives in")
	configPath := fs.String("config", "", "path to a JWCC options file (overrides --data-dir if set)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log := logger.New("kvs-server")
	defer log.Sync()

	opts, err := resolveOptions(*configPath, *dataDir)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng, err := engineselect.Open(
		ctx, engineselect.Name(*engineName), opts.DataDir, "kvs-server",
		options.WithCompactionThreshold(opts.CompactionThreshold),
		options.WithCompactInterval(opts.CompactInterval),
	)
	if err != nil {
		return fmt.Errorf("kvs-server: open engine: %w", err)
	}

	onexit.Register(func() {
		if err := eng.Close(context.Background()); err != nil {
			log.Warnw("error while closing engine on exit", "error", err)
		}
	})

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		return fmt.Errorf("kvs-server: listen on %s: %w", *addr, err)
	}
	log.Infow("listening for requests", "addr", *addr, "engine", *engineName, "dataDir", opts.DataDir)

	srv := server.New(eng, log)

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return srv.Serve(gctx, listener)
	})

	if *debugAddr != "" {
		debugServer := &http.Server{Addr: *debugAddr, Handler: server.NewDebugMux(eng)}
		group.Go(func() error {
			log.Infow("serving debug endpoints", "addr", *debugAddr)
			if err := debugServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		group.Go(func() error {
			<-gctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			return debugServer.Shutdown(shutdownCtx)
		})
	}

	group.Go(func() error {
		return runCompactionTicker(gctx, eng, opts.CompactInterval, clock.New(), log)
	})

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	group.Go(func() error {
		select {
		case sig := <-signals:
			log.Infow("received signal, shutting down", "signal", sig)
			cancel()
			listener.Close()
		case <-gctx.Done():
		}
		return nil
	})

	err = group.Wait()
	if closeErr := eng.Close(context.Background()); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// runCompactionTicker forces a compaction pass every interval, bounding how
// long a quiet store (no write ever crossing the reclaimable-bytes
// threshold) can go without reclaiming space. clk is injected so tests can
// drive it deterministically without sleeping.
func runCompactionTicker(ctx context.Context, eng engineselect.Engine, interval time.Duration, clk clock.Clock, log *zap.SugaredLogger) error {
	if interval <= 0 {
		return nil
	}

	ticker := clk.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := eng.Compact(ctx); err != nil {
				log.Warnw("scheduled compaction failed", "error", err)
			}
		}
	}
}

func resolveOptions(configPath, dataDir string) (options.Options, error) {
	if configPath != "" {
		return options.LoadFile(configPath)
	}
	opts := options.NewDefaultOptions()
	opts.DataDir = dataDir
	return opts, nil
}
