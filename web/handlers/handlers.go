package handlers

import (
	"context"
	"html/template"

	"go.uber.org/zap"

	"github.com/Vector/usuarios-api/models"
)

// Dependencies aggregates shared services used by handlers.
type Dependencies struct {
	Logger    *zap.Logger
	App       UsuarioService
	Templates map[string]*template.Template
	// OpenAPI is the JSON API description served at /apispec_1.json
	OpenAPI []byte
	Version string
}

// HandlerGroup groups all handler categories for routing setup.
type HandlerGroup struct {
	Web *WebHandlers
	API *APIHandlers
}

// NewHandlerGroup constructs a HandlerGroup with initialized handlers.
func NewHandlerGroup(deps Dependencies) *HandlerGroup {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &HandlerGroup{
		Web: &WebHandlers{Deps: deps},
		API: &APIHandlers{Deps: deps},
	}
}

// WebHandlers contains the documentation and health routes.
type WebHandlers struct{ Deps Dependencies }

// APIHandlers contains the usuarios JSON API.
type APIHandlers struct{ Deps Dependencies }

// UsuarioService is the minimal interface needed by handlers to work with usuarios.
type UsuarioService interface {
	List(ctx context.Context, params models.SelectParams) ([]models.Usuario, error)
	Verify(ctx context.Context, params models.SelectParams) (bool, error)
	Create(ctx context.Context, in models.UsuarioInput) (models.Usuario, error)
	Get(ctx context.Context, id int64) (models.Usuario, error)
	Update(ctx context.Context, id int64, in models.UsuarioInput) (models.Usuario, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
