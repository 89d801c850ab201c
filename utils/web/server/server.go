package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// InitServer levanta el servidor en el puerto indicado y bloquea hasta que termina.
// Con handler nil se usa http.DefaultServeMux.
//
// Ejemplo:
//
//	func main() {
//		err := server.InitServer(models.MemoryConfig.PortMemory, mux)
//		if err != nil {
//			slog.Error(fmt.Sprintf("error initializing server: %v", err))
//			panic(err)
//		}
//	}
func InitServer(port int, handler http.Handler) error {
	addr := ":" + strconv.Itoa(port)
	slog.Info(fmt.Sprintf("Servidor escuchando en %s", addr))

	err := http.ListenAndServe(addr, handler)
	if err != nil {
		slog.Error(fmt.Sprintf("Error al escuchar en el puerto %s: %v", addr, err))
	}
	return err
}

// SendJsonResponse retorna la respuesta del servidor en formato JSON.
//
// Ejemplo:
//
//	func HandshakeHandler(message string) func(http.ResponseWriter, *http.Request) {
//		return func(writer http.ResponseWriter, request *http.Request) {
//			server.SendJsonResponse(writer, message)
//		}
//	}
func SendJsonResponse(writer http.ResponseWriter, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		http.Error(writer, "Error al convertir datos a JSON", http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusOK)
	writer.Write(response)
}
