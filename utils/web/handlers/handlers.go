package handlers

import (
	"net/http"

	"github.com/sisoputnfrba/tp-osf-memoria-virtual/utils/web/server"
)

// HandshakeHandler se usa para chequear la conexión al servidor: responde siempre message.
//
// Ejemplo:
//
//	mux.HandleFunc("GET /", handlers.HandshakeHandler("Bienvenido al módulo de Memoria"))
func HandshakeHandler(message string) func(http.ResponseWriter, *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		server.SendJsonResponse(writer, message)
	}
}

// HealthHandler responde message mientras check no falle. Si falla responde 503 con el error.
//
// Ejemplo:
//
//	mux.HandleFunc("GET /memoria", handlers.HealthHandler("Memoria en funcionamiento", memory.Halted))
func HealthHandler(message string, check func() error) func(http.ResponseWriter, *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		if err := check(); err != nil {
			http.Error(writer, err.Error(), http.StatusServiceUnavailable)
			return
		}
		server.SendJsonResponse(writer, message)
	}
}
