package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	msqlite "modernc.org/sqlite" // sqlite driver
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Vector/usuarios-api/models"
)

type repo struct {
	db *sql.DB
}

var _ models.UsuarioRepository = (*repo)(nil)

// New opens (creating if needed) the database file at path and makes sure the
// usuarios table exists.
func New(path string) (models.UsuarioRepository, error) {
	db, err := initDatabase(path)
	if err != nil {
		return nil, err
	}

	ans := &repo{db: db}

	if err := ans.EnsureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return ans, nil
}

func (repo *repo) EnsureSchema(ctx context.Context) error {
	_, err := repo.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS usuarios (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			nome TEXT NOT NULL,
			endereco TEXT NOT NULL,
			email TEXT NOT NULL,
			telefone TEXT NOT NULL,
			UNIQUE (nome, endereco, email, telefone)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create usuarios table: %w", err)
	}

	return nil
}

func (repo *repo) Exists(ctx context.Context, in models.UsuarioInput) (bool, error) {
	const q = `SELECT id FROM usuarios WHERE nome = ? AND endereco = ? AND email = ? AND telefone = ? LIMIT 1`

	var id int64

	err := repo.db.QueryRowContext(ctx, q, in.Nome, in.Endereco, in.Email, in.Telefone).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (repo *repo) Create(ctx context.Context, in models.UsuarioInput) (models.Usuario, error) {
	exists, err := repo.Exists(ctx, in)
	if err != nil {
		return models.Usuario{}, err
	}

	if exists {
		return models.Usuario{}, models.ErrAlreadyExists
	}

	const q = `INSERT INTO usuarios (nome, endereco, email, telefone) VALUES (?, ?, ?, ?)`

	res, err := repo.db.ExecContext(ctx, q, in.Nome, in.Endereco, in.Email, in.Telefone)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Usuario{}, models.ErrAlreadyExists
		}

		return models.Usuario{}, fmt.Errorf("failed to create usuario: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Usuario{}, err
	}

	return repo.Get(ctx, id)
}

func (repo *repo) Get(ctx context.Context, id int64) (models.Usuario, error) {
	const q = `SELECT id, nome, endereco, email, telefone FROM usuarios WHERE id = ?`

	row := repo.db.QueryRowContext(ctx, q, id)

	return rowToUsuario(row)
}

func (repo *repo) Update(ctx context.Context, id int64, in models.UsuarioInput) (models.Usuario, error) {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Usuario{}, err
	}

	defer func() {
		_ = tx.Rollback()
	}()

	// an empty nome keeps the stored one
	const q = `UPDATE usuarios SET nome = COALESCE(NULLIF(?, ''), nome), endereco = ?, email = ?, telefone = ? WHERE id = ?`

	res, err := tx.ExecContext(ctx, q, in.Nome, in.Endereco, in.Email, in.Telefone, id)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Usuario{}, models.ErrAlreadyExists
		}

		return models.Usuario{}, fmt.Errorf("failed to update usuario: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return models.Usuario{}, err
	}

	if n == 0 {
		return models.Usuario{}, models.ErrNotFound
	}

	const sel = `SELECT id, nome, endereco, email, telefone FROM usuarios WHERE id = ?`

	ans, err := rowToUsuario(tx.QueryRowContext(ctx, sel, id))
	if err != nil {
		return models.Usuario{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Usuario{}, err
	}

	return ans, nil
}

func (repo *repo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM usuarios WHERE id = ?`

	res, err := repo.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete usuario: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (repo *repo) Select(ctx context.Context, params models.SelectParams) ([]models.Usuario, error) {
	q := `SELECT id, nome, endereco, email, telefone FROM usuarios WHERE 1=1`

	var args []any

	for _, f := range []struct {
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

		q += " AND " + f.col + " LIKE ?"

		args = append(args, "%"+f.val+"%")
	}

	q += " ORDER BY id"

	rows, err := repo.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select usuarios: %w", err)
	}

	defer rows.Close()

	ans := []models.Usuario{}

	for rows.Next() {
		u, err := rowToUsuario(rows)
		if err != nil {
			return nil, err
		}

		ans = append(ans, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ans, nil
}

func (repo *repo) Ping(ctx context.Context) error {
	return repo.db.PingContext(ctx)
}

func (repo *repo) Close() error {
	return repo.db.Close()
}

type scannable interface {
	Scan(dest ...any) error
}

func rowToUsuario(row scannable) (models.Usuario, error) {
	var u models.Usuario

	err := row.Scan(&u.ID, &u.Nome, &u.Endereco, &u.Email, &u.Telefone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Usuario{}, models.ErrNotFound
		}

		return models.Usuario{}, err
	}

	return u, nil
}

func isUniqueViolation(err error) bool {
	var serr *msqlite.Error
	if errors.As(err, &serr) {
		code := serr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return true
		}

		if code&0xff == sqlite3.SQLITE_CONSTRAINT {
			return strings.Contains(serr.Error(), "UNIQUE")
		}
	}

	return false
}

// dsn builds a modernc connection string. Pragmas go through _pragma so that
// every pooled connection gets them, not only the first one.
func dsn(path string) string {
	pragmas := []string{
		"busy_timeout(5000)",
		"journal_mode(WAL)",
		"synchronous(NORMAL)",
		"cache_size(1000)",
		"case_sensitive_like(1)",
	}

	v := url.Values{}
	for _, p := range pragmas {
		v.Add("_pragma", p)
	}

	return path + "?" + v.Encode()
}

func initDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
