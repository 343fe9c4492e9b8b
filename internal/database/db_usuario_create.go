package database

import (
	"context"
	"fmt"

	"github.com/Vector/usuarios-api/models"
)

// Exists reports whether a record with exactly the same four fields is stored.
func (db *Db) Exists(ctx context.Context, in models.UsuarioInput) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, db.GetQueryTimeout())
	defer cancel()

	var n int64

	err := db.Engine.WithContext(ctx).
		Model(&usuarioORM{}).
		Where("nome = ? AND endereco = ? AND email = ? AND telefone = ?", in.Nome, in.Endereco, in.Email, in.Telefone).
		Limit(1).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check usuario: %w", err)
	}

	return n > 0, nil
}

// Create inserts a new usuario and returns it with the assigned id.
//
// Returns models.ErrAlreadyExists when the tuple is already stored, either
// from the upfront check or from the unique index.
func (db *Db) Create(ctx context.Context, in models.UsuarioInput) (models.Usuario, error) {
	exists, err := db.Exists(ctx, in)
	if err != nil {
		return models.Usuario{}, err
	}

	if exists {
		return models.Usuario{}, models.ErrAlreadyExists
	}

	ctx, cancel := context.WithTimeout(ctx, db.GetQueryTimeout())
	defer cancel()

	row := fromInput(in)

	if err := db.Engine.WithContext(ctx).Create(&row).Error; err != nil {
		if isDuplicate(err) {
			return models.Usuario{}, models.ErrAlreadyExists
		}

		return models.Usuario{}, fmt.Errorf("failed to create usuario: %w", err)
	}

	return row.toModel(), nil
}
