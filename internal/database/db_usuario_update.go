package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Vector/usuarios-api/models"
)

// Update overwrites endereco, email and telefone of the usuario with the given
// id. Nome is replaced only when the input carries a non empty one. The read
// and the write share one transaction.
func (db *Db) Update(ctx context.Context, id int64, in models.UsuarioInput) (models.Usuario, error) {
	ctx, cancel := context.WithTimeout(ctx, db.GetQueryTimeout())
	defer cancel()

	var ans models.Usuario

	err := db.Engine.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row usuarioORM

		if err := tx.First(&row, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}

			return err
		}

		if in.Nome != "" {
			row.Nome = in.Nome
		}

		row.Endereco = in.Endereco
		row.Email = in.Email
		row.Telefone = in.Telefone

		if err := tx.Save(&row).Error; err != nil {
			if isDuplicate(err) {
				return models.ErrAlreadyExists
			}

			return err
		}

		ans = row.toModel()

		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrAlreadyExists) {
			return models.Usuario{}, err
		}

		return models.Usuario{}, fmt.Errorf("failed to update usuario: %w", err)
	}

	return ans, nil
}
