package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Vector/usuarios-api/web/handlers"
)

// RegisterHandlers wires every route on router. /usuarios/verificar is
// registered before /usuarios/{id} and ids only match digits, so the two
// never shadow each other.
func RegisterHandlers(router *mux.Router, hg *handlers.HandlerGroup) {
	router.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	router.HandleFunc("/health", hg.Web.HealthCheck).Methods(http.MethodGet).Name("health")
	router.HandleFunc("/apispec_1.json", hg.Web.APISpec).Methods(http.MethodGet).Name("apispec")
	router.HandleFunc("/swagger/", hg.Web.Redoc).Methods(http.MethodGet).Name("docs")
	router.Handle("/swagger", http.RedirectHandler("/swagger/", http.StatusMovedPermanently)).Methods(http.MethodGet)

	api := router.PathPrefix("/usuarios").Subrouter()
	api.HandleFunc("", hg.API.List).Methods(http.MethodGet).Name("usuarios-list")
	api.HandleFunc("", hg.API.Create).Methods(http.MethodPost).Name("usuarios-create")
	api.HandleFunc("/verificar", hg.API.Verify).Methods(http.MethodGet).Name("usuarios-verify")
	api.HandleFunc("/{id:[0-9]+}", hg.API.Get).Methods(http.MethodGet).Name("usuarios-get")
	api.HandleFunc("/{id:[0-9]+}", hg.API.Update).Methods(http.MethodPut).Name("usuarios-update")
	api.HandleFunc("/{id:[0-9]+}", hg.API.Delete).Methods(http.MethodDelete).Name("usuarios-delete")
}
