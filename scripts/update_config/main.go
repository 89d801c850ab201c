package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Para su uso se debe posicionar en la raíz del proyecto
// ./update_config pageable_frames 64 swap_slots 40
// ./update_config tlb_replacement LRU log_level DEBUG

func main() {
	// Verificar que se pasen argumentos en pares: clave1 valor1 clave2 valor2 ...
	if len(os.Args) < 3 || len(os.Args)%2 != 1 {
		fmt.Println("Uso: update_config <clave_1> <valor_1> [<clave_2> <valor_2> ...]")
		fmt.Println("Ejemplo: update_config pageable_frames 64 tlb_entries 16")
		return
	}

	updates := parseUpdates(os.Args[1:])

	paths, err := filepath.Glob(filepath.Join("memoria", "configs", "*.json"))
	if err != nil {
		fmt.Printf("Error al buscar configs: %v\n", err)
		return
	}
	for _, path := range paths {
		changed, err := updateConfigFile(path, updates)
		switch {
		case err != nil:
			fmt.Printf("  Error en %s: %v\n", path, err)
		case len(changed) == 0:
			fmt.Printf("  No se encontraron claves a actualizar en %s.\n", path)
		default:
			fmt.Printf("  %s actualizado: %v\n", path, changed)
		}
	}
}

// parseUpdates arma clave -> valor. Los valores que son JSON válido (números, booleanos)
// conservan su tipo; el resto queda como string.
func parseUpdates(args []string) map[string]interface{} {
	updates := make(map[string]interface{})
	for i := 0; i+1 < len(args); i += 2 {
		var parsedValue interface{}
		if err := json.Unmarshal([]byte(args[i+1]), &parsedValue); err != nil {
			parsedValue = args[i+1]
		}
		updates[args[i]] = parsedValue
	}
	return updates
}

// updateConfigFile pisa solo las claves que ya existen en el archivo y retorna cuáles cambió.
func updateConfigFile(path string, updates map[string]interface{}) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("JSON inválido: %w", err)
	}

	var changed []string
	for key, value := range updates {
		if _, ok := data[key]; ok {
			data[key] = value
			changed = append(changed, key)
		}
	}
	if len(changed) == 0 {
		return nil, nil
	}
	sort.Strings(changed)

	newJSON, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, err
	}
	return changed, os.WriteFile(path, append(newJSON, '\n'), 0644)
}
