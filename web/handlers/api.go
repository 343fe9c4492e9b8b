package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Vector/usuarios-api/models"
	webutils "github.com/Vector/usuarios-api/web/utils"
)

const (
	MsgUsuarioDuplicado     = "Usuário já cadastrado!"
	MsgUsuarioNaoEncontrado = "Usuário não encontrado"
	MsgUsuarioDeletado      = "Usuário deletado com sucesso!"
	MsgRequisicaoInvalida   = "Requisição inválida: o corpo deve ser um objeto JSON"
	MsgErroInterno          = "Erro interno"
	MsgRecursoNaoEncontrado = "Recurso não encontrado"
	MsgMetodoNaoPermitido   = "Método não permitido"

	maxBodyBytes = 1 << 20
)

var errMalformedBody = errors.New("malformed body")

// List returns every usuario matching the optional query filters. No match is
// an empty array, never a 404.
func (h *APIHandlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Deps.App.List(r.Context(), selectParams(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, items)
}

// Verify answers 400 with exists=true when at least one usuario matches the
// filters and 200 with exists=false otherwise.
func (h *APIHandlers) Verify(w http.ResponseWriter, r *http.Request) {
	exists, err := h.Deps.App.Verify(r.Context(), selectParams(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if exists {
		renderJSON(w, http.StatusBadRequest, models.VerifyResponse{Exists: true, Message: MsgUsuarioDuplicado})
		return
	}

	renderJSON(w, http.StatusOK, models.VerifyResponse{Exists: false})
}

func (h *APIHandlers) Create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeUsuario(w, r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if err := webutils.ValidateUsuario(&in, true); err != nil {
		h.renderError(w, r, err)
		return
	}

	u, err := h.Deps.App.Create(r.Context(), in)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, u)
}

func (h *APIHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := usuarioID(r)
	if !ok {
		renderJSON(w, http.StatusNotFound, models.APIError{Message: MsgUsuarioNaoEncontrado})
		return
	}

	u, err := h.Deps.App.Get(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, u)
}

// Update checks that the usuario exists before looking at the body, so an
// unknown id is a 404 even when the payload is invalid.
func (h *APIHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := usuarioID(r)
	if !ok {
		renderJSON(w, http.StatusNotFound, models.APIError{Message: MsgUsuarioNaoEncontrado})
		return
	}

	if _, err := h.Deps.App.Get(r.Context(), id); err != nil {
		h.renderError(w, r, err)
		return
	}

	in, err := decodeUsuario(w, r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if err := webutils.ValidateUsuario(&in, false); err != nil {
		h.renderError(w, r, err)
		return
	}

	u, err := h.Deps.App.Update(r.Context(), id, in)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, u)
}

func (h *APIHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := usuarioID(r)
	if !ok {
		renderJSON(w, http.StatusNotFound, models.APIError{Message: MsgUsuarioNaoEncontrado})
		return
	}

	if err := h.Deps.App.Delete(r.Context(), id); err != nil {
		h.renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, models.MessageResponse{Message: MsgUsuarioDeletado})
}

// renderError maps service and validation errors to status codes. Storage
// details never reach the client.
func (h *APIHandlers) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errMalformedBody):
		renderJSON(w, http.StatusBadRequest, models.APIError{Message: MsgRequisicaoInvalida})
	case errors.Is(err, models.ErrNotFound):
		renderJSON(w, http.StatusNotFound, models.APIError{Message: MsgUsuarioNaoEncontrado})
	case errors.Is(err, models.ErrAlreadyExists):
		renderJSON(w, http.StatusBadRequest, models.APIError{Message: MsgUsuarioDuplicado})
	case errors.Is(err, models.ErrInvalidInput):
		renderJSON(w, http.StatusBadRequest, models.APIError{Message: webutils.Message(err)})
	default:
		h.Deps.Logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		renderJSON(w, http.StatusInternalServerError, models.APIError{Message: MsgErroInterno})
	}
}

// decodeUsuario accepts only a single JSON object. Arrays, scalars, invalid
// JSON and fields of the wrong type are all errMalformedBody.
func decodeUsuario(w http.ResponseWriter, r *http.Request) (models.UsuarioInput, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return models.UsuarioInput{}, errMalformedBody
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return models.UsuarioInput{}, errMalformedBody
	}

	var in models.UsuarioInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return models.UsuarioInput{}, errMalformedBody
	}

	in.Normalize()

	return in, nil
}

func selectParams(r *http.Request) models.SelectParams {
	q := r.URL.Query()

	return models.SelectParams{
		Nome:     q.Get("nome"),
		Endereco: q.Get("endereco"),
		Email:    q.Get("email"),
		Telefone: q.Get("telefone"),
	}
}

func usuarioID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// NotFound is the router fallback for unknown paths.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	renderJSON(w, http.StatusNotFound, models.APIError{Message: MsgRecursoNaoEncontrado})
}

// MethodNotAllowed is the router fallback for known paths hit with the wrong verb.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	renderJSON(w, http.StatusMethodNotAllowed, models.APIError{Message: MsgMetodoNaoPermitido})
}
