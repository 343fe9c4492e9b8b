// Package schemarunner creates the usuarios table and exits.
package schemarunner

import (
	"context"

	"go.uber.org/zap"

	"github.com/Vector/usuarios-api/models"
	"github.com/Vector/usuarios-api/runner"
)

type schemarunner struct {
	cfg    *runner.Config
	logger *zap.Logger
	repo   models.UsuarioRepository
}

func New(cfg *runner.Config, logger *zap.Logger) (runner.Runner, error) {
	return &schemarunner{cfg: cfg, logger: logger}, nil
}

func (s *schemarunner) Run(ctx context.Context) error {
	repo, err := runner.OpenStore(ctx, s.cfg, s.logger)
	if err != nil {
		return err
	}

	s.repo = repo

	s.logger.Info("schema created", zap.String("storage", s.cfg.Storage))

	return nil
}

func (s *schemarunner) Close(context.Context) error {
	if s.repo == nil {
		return nil
	}

	return s.repo.Close()
}
