package web

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Vector/usuarios-api/models"
	"github.com/Vector/usuarios-api/tlmt"
	"github.com/Vector/usuarios-api/tlmt/gonoop"
)

// Service is constructed once at start-up and shared by all handlers.
type Service struct {
	repo      models.UsuarioRepository
	logger    *zap.Logger
	telemetry tlmt.Telemetry
}

func NewService(repo models.UsuarioRepository, logger *zap.Logger, telemetry tlmt.Telemetry) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	if telemetry == nil {
		telemetry = gonoop.New()
	}

	return &Service{
		repo:      repo,
		logger:    logger,
		telemetry: telemetry,
	}
}

func (s *Service) List(ctx context.Context, params models.SelectParams) ([]models.Usuario, error) {
	items, err := s.repo.Select(ctx, params)
	if err != nil {
		s.logger.Error("failed to list usuarios", zap.Error(err))
		return nil, err
	}

	if items == nil {
		items = []models.Usuario{}
	}

	return items, nil
}

// Verify reports whether any usuario matches params. It uses the same
// substring filters as List.
func (s *Service) Verify(ctx context.Context, params models.SelectParams) (bool, error) {
	items, err := s.List(ctx, params)
	if err != nil {
		return false, err
	}

	return len(items) > 0, nil
}

// Create stores a new usuario. The input is expected to be validated.
func (s *Service) Create(ctx context.Context, in models.UsuarioInput) (models.Usuario, error) {
	exists, err := s.repo.Exists(ctx, in)
	if err != nil {
		s.logger.Error("failed to check usuario", zap.Error(err))
		return models.Usuario{}, err
	}

	if exists {
		return models.Usuario{}, models.ErrAlreadyExists
	}

	u, err := s.repo.Create(ctx, in)
	if err != nil {
		if !errors.Is(err, models.ErrAlreadyExists) {
			s.logger.Error("failed to create usuario", zap.Error(err))
		}

		return models.Usuario{}, err
	}

	s.logger.Info("usuario created", zap.Int64("id", u.ID))
	s.send(ctx, tlmt.EventUsuarioCreated)

	return u, nil
}

func (s *Service) Get(ctx context.Context, id int64) (models.Usuario, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to get usuario", zap.Int64("id", id), zap.Error(err))
	}

	return u, err
}

func (s *Service) Update(ctx context.Context, id int64, in models.UsuarioInput) (models.Usuario, error) {
	u, err := s.repo.Update(ctx, id, in)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) && !errors.Is(err, models.ErrAlreadyExists) {
			s.logger.Error("failed to update usuario", zap.Int64("id", id), zap.Error(err))
		}

		return models.Usuario{}, err
	}

	s.logger.Info("usuario updated", zap.Int64("id", id))

	return u, nil
}

// Delete removes the usuario and returns models.ErrNotFound when nothing was
// removed.
func (s *Service) Delete(ctx context.Context, id int64) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete usuario", zap.Int64("id", id), zap.Error(err))
		return err
	}

	if !removed {
		return models.ErrNotFound
	}

	s.logger.Info("usuario deleted", zap.Int64("id", id))
	s.send(ctx, tlmt.EventUsuarioDeleted)

	return nil
}

// Ping checks the underlying store.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *Service) send(ctx context.Context, name string) {
	if err := s.telemetry.Send(ctx, tlmt.NewEvent(name, nil)); err != nil {
		s.logger.Debug("telemetry send failed", zap.String("event", name), zap.Error(err))
	}
}
