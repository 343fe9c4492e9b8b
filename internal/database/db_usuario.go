package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Vector/usuarios-api/models"
)

const uniqueViolation = "23505"

// usuarioORM is the gorm mapping of the usuarios table. The four business
// fields share one unique index, so the tuple is unique at the storage level.
type usuarioORM struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Nome     string `gorm:"not null;uniqueIndex:idx_usuarios_tupla,priority:1"`
	Endereco string `gorm:"not null;uniqueIndex:idx_usuarios_tupla,priority:2"`
	Email    string `gorm:"not null;uniqueIndex:idx_usuarios_tupla,priority:3"`
	Telefone string `gorm:"not null;uniqueIndex:idx_usuarios_tupla,priority:4"`
}

func (usuarioORM) TableName() string {
	return "usuarios"
}

func (u usuarioORM) toModel() models.Usuario {
	return models.Usuario{
		ID:       u.ID,
		Nome:     u.Nome,
		Endereco: u.Endereco,
		Email:    u.Email,
		Telefone: u.Telefone,
	}
}

func fromInput(in models.UsuarioInput) usuarioORM {
	return usuarioORM{
		Nome:     in.Nome,
		Endereco: in.Endereco,
		Email:    in.Email,
		Telefone: in.Telefone,
	}
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}

	return false
}
