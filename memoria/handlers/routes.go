package handlers

import (
	"net/http"

	"github.com/sisoputnfrba/tp-osf-memoria-virtual/utils/web/handlers"
)

// RegisterRoutes publica los endpoints de memoria en mux.
func RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", handlers.HandshakeHandler("Bienvenido al módulo de Memoria"))
	mux.HandleFunc("GET /memoria", handlers.HealthHandler("Memoria en funcionamiento 🚀", func() error { return memory.Halted() }))
	mux.HandleFunc("GET /memoria/tareas", GetTasksHandler)
	mux.HandleFunc("POST /memoria/tareas", CreateTaskHandler)
	mux.HandleFunc("POST /memoria/acceso", AccessHandler)
	mux.HandleFunc("POST /memoria/fallo", PageFaultHandler)
	mux.HandleFunc("GET /memoria/estado", StateHandler)
	mux.HandleFunc("POST /memoria/dump", DumpMemoryHandler)
	mux.HandleFunc("GET /memoria/mapa", FrameMapHandler)
}
