// Command judged runs the judge pipeline's websocket message endpoint.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"judgecore/internal/compiledrv"
	"judgecore/internal/dispatcher"
	"judgecore/internal/judgeconfig"
	"judgecore/internal/judgedriver"
	"judgecore/internal/judgelog"
	"judgecore/internal/sandboxclient"
	"judgecore/internal/wsendpoint"
)

const defaultConfigPath = "configs/judged.yaml"
const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to config file")
	flag.Parse()

	cfg, err := judgeconfig.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}

	if err := judgelog.Init(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = judgelog.Sync() }()

	ctx := context.Background()

	sandbox := sandboxclient.New(cfg.Sandbox.BaseURL)
	if err := sandbox.Init(ctx, sandboxclient.InitConfig{
		CinitPath:   cfg.Sandbox.CinitPath,
		Parallelism: cfg.Sandbox.Parallelism,
	}); err != nil {
		judgelog.Error(ctx, "init sandbox failed", zap.Error(err))
		os.Exit(1)
	}

	driver := judgedriver.Driver{
		Sandbox:  sandbox,
		Registry: compiledrv.DefaultRegistry(),
	}
	disp := dispatcher.New(driver, cfg.Judge.MaxConcurrent)

	dispatchCtx, cancelDispatch := context.WithCancel(ctx)
	defer cancelDispatch()
	go disp.Run(dispatchCtx)

	mux := http.NewServeMux()
	mux.Handle(cfg.Server.Path, wsendpoint.Handler{Dispatcher: disp, PingInterval: cfg.Server.PingInterval})

	listener, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		judgelog.Error(ctx, "init listener failed", zap.Error(err))
		os.Exit(1)
	}

	httpServer := &http.Server{Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		judgelog.Info(ctx, "judge websocket endpoint started", zap.String("addr", cfg.Server.Addr), zap.String("path", cfg.Server.Path))
		errCh <- httpServer.Serve(listener)
	}()

	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			judgelog.Error(ctx, "http server stopped", zap.Error(err))
		}
	case <-shutdownCtx.Done():
		judgelog.Info(ctx, "shutdown signal received")
	}

	cancelDispatch()

	shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shCtx); err != nil {
		judgelog.Error(ctx, "http server shutdown failed", zap.Error(err))
	}
}
