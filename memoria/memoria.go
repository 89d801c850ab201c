package main

import (
	"fmt"
	"log/slog"
	"net/http"

	memoryHandler "github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/handlers"
	"github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/helpers"
	"github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/models"
	"github.com/sisoputnfrba/tp-osf-memoria-virtual/utils/web/server"
)

const (
	//NO borrar el comentario de ConfigPath
	ConfigPath = "memoria/configs/memoria.json" //"./configs/memoria.json"
	LogPath    = "./logs/memoria.log"           //"./memoria.log"
)

func main() {
	memory, mmu, closeDisk := helpers.InitMemory(ConfigPath, LogPath)
	defer closeDisk()

	memoryHandler.Setup(memory, mmu, models.MemoryConfig)

	mux := http.NewServeMux()
	memoryHandler.RegisterRoutes(mux)
	slog.Info("Memoria lista")

	err := server.InitServer(models.MemoryConfig.PortMemory, mux)
	if err != nil {
		slog.Error(fmt.Sprintf("error initializing server: %v", err))
		panic(err)
	}
}
