package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vector/usuarios-api/models"
)

func validInput() models.UsuarioInput {
	return models.UsuarioInput{
		Nome:     "Ana",
		Endereco: "Rua A, 1",
		Email:    "ana@x.com",
		Telefone: "(11) 91234-5678",
	}
}

func TestValidateUsuario(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(in *models.UsuarioInput)
		requireNome bool
		wantErr     bool
		wantMissing bool
		wantMsg     string
	}{
		{
			name:        "valid create",
			mutate:      func(*models.UsuarioInput) {},
			requireNome: true,
		},
		{
			name:        "valid landline phone",
			mutate:      func(in *models.UsuarioInput) { in.Telefone = "(11) 3456-7890" },
			requireNome: true,
		},
		{
			name:        "missing nome on create",
			mutate:      func(in *models.UsuarioInput) { in.Nome = "" },
			requireNome: true,
			wantErr:     true,
			wantMissing: true,
			wantMsg:     MsgCamposObrigatorios,
		},
		{
			name:        "missing nome on update is allowed",
			mutate:      func(in *models.UsuarioInput) { in.Nome = "" },
			requireNome: false,
		},
		{
			name:        "missing endereco on update",
			mutate:      func(in *models.UsuarioInput) { in.Endereco = "" },
			wantErr:     true,
			wantMissing: true,
			wantMsg:     MsgCamposObrigatorios,
		},
		{
			name: "missing field wins over bad format",
			mutate: func(in *models.UsuarioInput) {
				in.Endereco = ""
				in.Email = "not-an-email"
			},
			requireNome: true,
			wantErr:     true,
			wantMissing: true,
			wantMsg:     MsgCamposObrigatorios,
		},
		{
			name:        "invalid email",
			mutate:      func(in *models.UsuarioInput) { in.Email = "not-an-email" },
			requireNome: true,
			wantErr:     true,
			wantMsg:     MsgEmailInvalido,
		},
		{
			name:        "invalid phone without parentheses",
			mutate:      func(in *models.UsuarioInput) { in.Telefone = "11 91234-5678" },
			requireNome: true,
			wantErr:     true,
			wantMsg:     MsgTelefoneInvalido,
		},
		{
			name:        "invalid phone too many digits",
			mutate:      func(in *models.UsuarioInput) { in.Telefone = "(11) 912345-5678" },
			requireNome: true,
			wantErr:     true,
			wantMsg:     MsgTelefoneInvalido,
		},
		{
			name: "invalid email and phone",
			mutate: func(in *models.UsuarioInput) {
				in.Email = "ana"
				in.Telefone = "123"
			},
			requireNome: true,
			wantErr:     true,
			wantMsg:     MsgEmailInvalido + "; " + MsgTelefoneInvalido,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := ValidateUsuario(&in, tt.requireNome)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrInvalidInput))
			assert.Equal(t, tt.wantMissing, errors.Is(err, ErrMissingFields))
			assert.Equal(t, tt.wantMsg, Message(err))
		})
	}
}

func TestValidateUsuario_Nil(t *testing.T) {
	err := ValidateUsuario(nil, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestMessage_Nil(t *testing.T) {
	assert.Equal(t, "", Message(nil))
}
