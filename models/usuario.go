package models

import (
	"context"
	"strings"
)

// Usuario is a stored user record.
type Usuario struct {
	ID       int64  `json:"id"`
	Nome     string `json:"nome"`
	Endereco string `json:"endereco"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
}

// UsuarioInput carries the business fields of a record, as submitted on create or update.
// On update an empty Nome keeps the stored name.
type UsuarioInput struct {
	Nome     string `json:"nome"`
	Endereco string `json:"endereco"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
}

// Normalize trims surrounding whitespace from every field.
func (in *UsuarioInput) Normalize() {
	in.Nome = strings.TrimSpace(in.Nome)
	in.Endereco = strings.TrimSpace(in.Endereco)
	in.Email = strings.TrimSpace(in.Email)
	in.Telefone = strings.TrimSpace(in.Telefone)
}

// SelectParams holds the optional substring filters used when listing records.
// Empty fields do not filter.
type SelectParams struct {
	Nome     string
	Endereco string
	Email    string
	Telefone string
}

// IsEmpty reports whether no filter is set.
func (p SelectParams) IsEmpty() bool {
	return p.Nome == "" && p.Endereco == "" && p.Email == "" && p.Telefone == ""
}

// UsuarioRepository is the record store. Uniqueness is enforced on the
// (nome, endereco, email, telefone) tuple.
type UsuarioRepository interface {
	// EnsureSchema creates the backing table if it does not exist yet.
	EnsureSchema(ctx context.Context) error
	// Exists reports whether a record with exactly the same four fields is stored.
	Exists(ctx context.Context, in UsuarioInput) (bool, error)
	// Create stores a new record. It returns ErrAlreadyExists on a uniqueness conflict.
	Create(ctx context.Context, in UsuarioInput) (Usuario, error)
	// Get returns ErrNotFound when no record has the given id.
	Get(ctx context.Context, id int64) (Usuario, error)
	// Update overwrites the mutable fields and returns the stored result.
	Update(ctx context.Context, id int64, in UsuarioInput) (Usuario, error)
	// Delete reports whether a record was removed.
	Delete(ctx context.Context, id int64) (bool, error)
	Select(ctx context.Context, params SelectParams) ([]Usuario, error)
	Ping(ctx context.Context) error
	Close() error
}
