package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/mcnijman/go-emailaddress"
	"go.uber.org/multierr"

	"github.com/Vector/usuarios-api/models"
)

const (
	MsgCamposObrigatorios = "Todos os campos são obrigatórios!"
	MsgEmailInvalido      = "E-mail inválido"
	MsgTelefoneInvalido   = "Telefone inválido. Formato esperado: (XX) XXXX-XXXX ou (XX) XXXXX-XXXX"
)

var (
	// ErrMissingFields is returned when a required field is absent or empty.
	ErrMissingFields = errors.New(MsgCamposObrigatorios)

	telefoneRe = regexp.MustCompile(`^\(\d{2}\) \d{4,5}-\d{4}$`)

	validateOnce sync.Once
	validate     *validator.Validate
)

// FieldError is a format failure on a single field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

type createPayload struct {
	Nome     string `json:"nome" validate:"required"`
	Endereco string `json:"endereco" validate:"required"`
	Email    string `json:"email" validate:"required,emailaddr"`
	Telefone string `json:"telefone" validate:"required,telefone"`
}

type updatePayload struct {
	Nome     string `json:"nome"`
	Endereco string `json:"endereco" validate:"required"`
	Email    string `json:"email" validate:"required,emailaddr"`
	Telefone string `json:"telefone" validate:"required,telefone"`
}

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}

			return name
		})

		_ = v.RegisterValidation("emailaddr", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if !strings.Contains(s, "@") {
				return false
			}

			_, err := emailaddress.Parse(s)

			return err == nil
		})

		_ = v.RegisterValidation("telefone", func(fl validator.FieldLevel) bool {
			return telefoneRe.MatchString(fl.Field().String())
		})

		validate = v
	})

	return validate
}

// ValidateUsuario checks a create (requireNome=true) or update payload.
// Missing fields take precedence over format errors: if any required field is
// empty the result wraps only ErrMissingFields. Every returned error wraps
// models.ErrInvalidInput.
func ValidateUsuario(in *models.UsuarioInput, requireNome bool) error {
	if in == nil {
		return multierr.Append(models.ErrInvalidInput, ErrMissingFields)
	}

	var err error
	if requireNome {
		err = getValidator().Struct(createPayload(*in))
	} else {
		err = getValidator().Struct(updatePayload(*in))
	}

	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return multierr.Append(models.ErrInvalidInput, err)
	}

	var formatErrs error

	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			return multierr.Append(models.ErrInvalidInput, ErrMissingFields)
		case "emailaddr":
			formatErrs = multierr.Append(formatErrs, &FieldError{Field: fe.Field(), Message: MsgEmailInvalido})
		case "telefone":
			formatErrs = multierr.Append(formatErrs, &FieldError{Field: fe.Field(), Message: MsgTelefoneInvalido})
		default:
			formatErrs = multierr.Append(formatErrs, &FieldError{Field: fe.Field(), Message: fe.Error()})
		}
	}

	return multierr.Append(models.ErrInvalidInput, formatErrs)
}

// Message renders a validation error as the text sent to clients.
func Message(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, ErrMissingFields) {
		return MsgCamposObrigatorios
	}

	var msgs []string

	for _, e := range multierr.Errors(err) {
		var fe *FieldError
		if errors.As(e, &fe) {
			msgs = append(msgs, fe.Message)
		}
	}

	if len(msgs) == 0 {
		return MsgCamposObrigatorios
	}

	return strings.Join(msgs, "; ")
}
