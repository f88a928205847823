package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/AlexZinkM/mantra-vault/docs"
	"github.com/AlexZinkM/mantra-vault/internal/api"
	"github.com/AlexZinkM/mantra-vault/internal/handler"

	"github.com/urfave/cli/v2"
)

// serve runs the local HTTP API until interrupted
// @title        Mantra Wallet Vault API
// @version      1.0
// @description  Local API over the encrypted wallet vault. Bind it to localhost only.
// @BasePath     /
func serve(ctx *cli.Context) error {
	addr := ctx.String(listenFlag.Name)
	if addr == "" {
		addr = cfg.ListenAddr
	}

	h, err := handler.NewVaultHandler(manager, logger)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.SetupRouter(h, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx.Context, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Str("vault", manager.Dir()).Msg("serving wallet API")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sigCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx.Context), 10*time.Second)
	defer cancel()
	logger.Info().Msg("shutting down wallet API")
	return srv.Shutdown(shutdownCtx)
}
