package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Vector/usuarios-api/models"
)

// Get retrieves a usuario by id
func (db *Db) Get(ctx context.Context, id int64) (models.Usuario, error) {
	ctx, cancel := context.WithTimeout(ctx, db.GetQueryTimeout())
	defer cancel()

	var row usuarioORM

	if err := db.Engine.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Usuario{}, models.ErrNotFound
		}

		return models.Usuario{}, fmt.Errorf("failed to get usuario: %w", err)
	}

	return row.toModel(), nil
}
