package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// InitConfig lee el archivo de configuración JSON y lo vuelca en config. Si falla, entra en pánico:
// sin configuración el módulo no puede arrancar.
//
// Parámetros:
//   - filePath: ubicación del archivo de configuración
//   - config: puntero a la estructura destino
//
// Ejemplo:
//
//	var memoryConfig *models.Config
//	config.InitConfig("./configs/memoria.json", &memoryConfig)
func InitConfig(filePath string, config interface{}) {
	if err := setupConfig(filePath, config); err != nil {
		panic(fmt.Errorf("error al configurar el archivo %s: %w", filePath, err))
	}
}

func setupConfig(filePath string, config interface{}) error {
	configFile, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer configFile.Close()

	jsonParser := json.NewDecoder(configFile)
	jsonParser.DisallowUnknownFields()

	return jsonParser.Decode(config)
}
