package memory

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/Vector/usuarios-api/models"
)

type repo struct {
	mu     *sync.RWMutex
	items  map[int64]models.Usuario
	nextID int64
}

var _ models.UsuarioRepository = (*repo)(nil)

func New() (models.UsuarioRepository, error) {
	ans := repo{
		mu:    &sync.RWMutex{},
		items: make(map[int64]models.Usuario),
	}

	return &ans, nil
}

func (r *repo) EnsureSchema(context.Context) error {
	return nil
}

func (r *repo) Exists(_ context.Context, in models.UsuarioInput) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.findTuple(in, 0)

	return ok, nil
}

func (r *repo) Create(_ context.Context, in models.UsuarioInput) (models.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.findTuple(in, 0); ok {
		return models.Usuario{}, models.ErrAlreadyExists
	}

	r.nextID++

	u := models.Usuario{
		ID:       r.nextID,
		Nome:     in.Nome,
		Endereco: in.Endereco,
		Email:    in.Email,
		Telefone: in.Telefone,
	}

	r.items[u.ID] = u

	return u, nil
}

func (r *repo) Get(_ context.Context, id int64) (models.Usuario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]
	if !ok {
		return models.Usuario{}, models.ErrNotFound
	}

	return u, nil
}

func (r *repo) Update(_ context.Context, id int64, in models.UsuarioInput) (models.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]
	if !ok {
		return models.Usuario{}, models.ErrNotFound
	}

	if in.Nome != "" {
		u.Nome = in.Nome
	}

	u.Endereco = in.Endereco
	u.Email = in.Email
	u.Telefone = in.Telefone

	tuple := models.UsuarioInput{Nome: u.Nome, Endereco: u.Endereco, Email: u.Email, Telefone: u.Telefone}
	if _, clash := r.findTuple(tuple, id); clash {
		return models.Usuario{}, models.ErrAlreadyExists
	}

	r.items[id] = u

	return u, nil
}

func (r *repo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}

	delete(r.items, id)

	return true, nil
}

func (r *repo) Select(_ context.Context, params models.SelectParams) ([]models.Usuario, error) {
	matchers := []struct {
		re    *regexp.Regexp
		field func(models.Usuario) string
	}{
		{likeContains(params.Nome), func(u models.Usuario) string { return u.Nome }},
		{likeContains(params.Endereco), func(u models.Usuario) string { return u.Endereco }},
		{likeContains(params.Email), func(u models.Usuario) string { return u.Email }},
		{likeContains(params.Telefone), func(u models.Usuario) string { return u.Telefone }},
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := make([]models.Usuario, 0, len(r.items))

	for _, item := range r.items {
		keep := true

		for _, m := range matchers {
			if m.re != nil && !m.re.MatchString(m.field(item)) {
				keep = false
				break
			}
		}

		if keep {
			filtered = append(filtered, item)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].ID < filtered[j].ID
	})

	return filtered, nil
}

func (r *repo) Ping(context.Context) error {
	return nil
}

func (r *repo) Close() error {
	return nil
}

// findTuple must be called with the lock held. skip excludes one id from the
// search, which lets Update ignore the record being changed.
func (r *repo) findTuple(in models.UsuarioInput, skip int64) (int64, bool) {
	for id, u := range r.items {
		if id == skip {
			continue
		}

		if u.Nome == in.Nome && u.Endereco == in.Endereco && u.Email == in.Email && u.Telefone == in.Telefone {
			return id, true
		}
	}

	return 0, false
}

// likeContains compiles the case sensitive equivalent of LIKE '%v%'. The
// wildcards % and _ inside v keep their LIKE meaning. An empty v means no filter.
func likeContains(v string) *regexp.Regexp {
	if v == "" {
		return nil
	}

	var b strings.Builder

	b.WriteString("(?s)")

	for _, c := range v {
		switch c {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	return regexp.MustCompile(b.String())
}
