package database

import (
	"context"
	"fmt"

	"github.com/Vector/usuarios-api/models"
)

// Select lists usuarios ordered by id. Every non empty field of params adds a
// case sensitive LIKE '%value%' condition; conditions are AND-ed.
func (db *Db) Select(ctx context.Context, params models.SelectParams) ([]models.Usuario, error) {
	ctx, cancel := context.WithTimeout(ctx, db.GetQueryTimeout())
	defer cancel()

	q := db.Engine.WithContext(ctx).Model(&usuarioORM{})

	for _, f := range [...]struct {
		col string
		val string
	}{
		{"nome", params.Nome},
		{"endereco", params.Endereco},
		{"email", params.Email},
		{"telefone", params.Telefone},
	} {
		if f.val == "" {
			continue
		}

		q = q.Where(f.col+" LIKE ?", "%"+f.val+"%")
	}

	var rows []usuarioORM

	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list usuarios: %w", err)
	}

	ans := make([]models.Usuario, 0, len(rows))
	for _, row := range rows {
		ans = append(ans, row.toModel())
	}

	return ans, nil
}
