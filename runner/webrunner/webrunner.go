// Package webrunner serves the usuarios HTTP API.
package webrunner

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Vector/usuarios-api/models"
	"github.com/Vector/usuarios-api/runner"
	"github.com/Vector/usuarios-api/tlmt"
	"github.com/Vector/usuarios-api/web"
)

const healthInterval = 30 * time.Second

type webrunner struct {
	srv    *web.Server
	svc    *web.Service
	repo   models.UsuarioRepository
	cfg    *runner.Config
	logger *zap.Logger
}

func New(ctx context.Context, cfg *runner.Config, logger *zap.Logger) (runner.Runner, error) {
	repo, err := runner.OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	svc := web.NewService(repo, logger, runner.Telemetry())

	srv, err := web.New(web.Config{
		Addr:            cfg.Addr,
		Version:         runner.Version,
		CORSOrigins:     cfg.CORSOrigins,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
		Service:         svc,
	})
	if err != nil {
		_ = repo.Close()

		return nil, err
	}

	ans := webrunner{
		srv:    srv,
		svc:    svc,
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}

	return &ans, nil
}

func (w *webrunner) Run(ctx context.Context) error {
	egroup, ctx := errgroup.WithContext(ctx)

	egroup.Go(func() error {
		return w.watch(ctx)
	})

	egroup.Go(func() error {
		return w.srv.Start(ctx)
	})

	_ = runner.Telemetry().Send(ctx, tlmt.NewEvent(tlmt.EventServerStarted, map[string]any{
		"storage": w.cfg.Storage,
		"version": runner.Version,
	}))

	return egroup.Wait()
}

func (w *webrunner) Close(context.Context) error {
	return w.repo.Close()
}

// watch pings the store periodically and logs state transitions.
func (w *webrunner) watch(ctx context.Context) error {
	ticker := time.NewTicker(healthInterval)
	defer ticker.Stop()

	healthy := true

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			err := w.svc.Ping(pingCtx)
			cancel()

			switch {
			case err != nil && healthy:
				w.logger.Warn("database unreachable", zap.Error(err))
			case err == nil && !healthy:
				w.logger.Info("database reachable again")
			}

			healthy = err == nil
		}
	}
}
