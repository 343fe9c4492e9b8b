package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vector/usuarios-api/models"
)

func ana() models.UsuarioInput {
	return models.UsuarioInput{
		Nome:     "Ana",
		Endereco: "Rua A, 1",
		Email:    "ana@x.com",
		Telefone: "(11) 91234-5678",
	}
}

func TestRepo_Lifecycle(t *testing.T) {
	ctx := context.Background()

	r, err := New()
	require.NoError(t, err)

	u, err := r.Create(ctx, ana())
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = r.Create(ctx, ana())
	require.ErrorIs(t, err, models.ErrAlreadyExists)

	ok, err := r.Exists(ctx, ana())
	require.NoError(t, err)
	assert.True(t, ok)

	updated, err := r.Update(ctx, u.ID, models.UsuarioInput{
		Endereco: "Rua B, 2",
		Email:    "ana@x.com",
		Telefone: "(11) 91234-5678",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", updated.Nome)
	assert.Equal(t, "Rua B, 2", updated.Endereco)

	got, err := r.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	removed, err := r.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = r.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = r.Get(ctx, u.ID)
	require.ErrorIs(t, err, models.ErrNotFound)

	_, err = r.Update(ctx, u.ID, ana())
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestRepo_UpdateCollision(t *testing.T) {
	ctx := context.Background()

	r, err := New()
	require.NoError(t, err)

	_, err = r.Create(ctx, ana())
	require.NoError(t, err)

	other := ana()
	other.Endereco = "Rua B, 2"

	second, err := r.Create(ctx, other)
	require.NoError(t, err)

	_, err = r.Update(ctx, second.ID, ana())
	require.ErrorIs(t, err, models.ErrAlreadyExists)

	got, err := r.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rua B, 2", got.Endereco)

	// updating a record to its own values is not a collision
	_, err = r.Update(ctx, second.ID, other)
	require.NoError(t, err)
}

func TestRepo_Select(t *testing.T) {
	ctx := context.Background()

	r, err := New()
	require.NoError(t, err)

	for _, in := range []models.UsuarioInput{
		{Nome: "Ana", Endereco: "Rua A, 1", Email: "ana@x.com", Telefone: "(11) 91234-5678"},
		{Nome: "Mariana", Endereco: "Rua B, 2", Email: "mariana@y.com", Telefone: "(21) 3456-7890"},
		{Nome: "ana lucia", Endereco: "Rua A, 9", Email: "lucia@x.com", Telefone: "(11) 3456-0000"},
	} {
		_, err := r.Create(ctx, in)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		params models.SelectParams
		want   []string
	}{
		{"all", models.SelectParams{}, []string{"Ana", "Mariana", "ana lucia"}},
		{"case sensitive", models.SelectParams{Nome: "Ana"}, []string{"Ana"}},
		{"any position", models.SelectParams{Nome: "ana"}, []string{"Mariana", "ana lucia"}},
		{"and", models.SelectParams{Nome: "a", Email: "@x.com"}, []string{"Ana", "ana lucia"}},
		{"percent wildcard", models.SelectParams{Endereco: "Rua%2"}, []string{"Mariana"}},
		{"underscore wildcard", models.SelectParams{Endereco: "Rua _, 9"}, []string{"ana lucia"}},
		{"regex metacharacters are literal", models.SelectParams{Telefone: "(11)"}, []string{"Ana", "ana lucia"}},
		{"no match", models.SelectParams{Nome: "Zeca"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Select(ctx, tt.params)
			require.NoError(t, err)

			names := make([]string, 0, len(got))
			for _, u := range got {
				names = append(names, u.Nome)
			}

			assert.Equal(t, tt.want, names)
		})
	}
}

func TestRepo_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()

	r, err := New()
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		conflicts int
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := r.Create(ctx, ana())
			if err != nil {
				mu.Lock()
				conflicts++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 19, conflicts)

	all, err := r.Select(ctx, models.SelectParams{})
	require.NoError(t, err)
	assert.Len(t, all, 1, fmt.Sprintf("got %v", all))
}
