package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sisoputnfrba/tp-osf-memoria-virtual/utils/disk"
)

// Arma la imagen de disco que usa memoria: cada task se copia a partir de su sector.
// ./mkdisk disk/disk.img 480 tareas/proceso1.bin 8 tareas/proceso2.bin 88

type placement struct {
	path   string
	sector int
}

func main() {
	if len(os.Args) < 3 || len(os.Args)%2 != 1 {
		fmt.Println("Uso: mkdisk <imagen> <sectores> [<archivo> <sector> ...]")
		return
	}

	sectors, err := strconv.Atoi(os.Args[2])
	if err != nil || sectors <= 0 {
		fmt.Println("Cantidad de sectores inválida:", os.Args[2])
		os.Exit(1)
	}

	var placements []placement
	for i := 3; i+1 < len(os.Args); i += 2 {
		sector, err := strconv.Atoi(os.Args[i+1])
		if err != nil || sector < 0 {
			fmt.Println("Sector inválido:", os.Args[i+1])
			os.Exit(1)
		}
		placements = append(placements, placement{path: os.Args[i], sector: sector})
	}

	device, err := disk.OpenFileDisk(os.Args[1], sectors)
	if err != nil {
		fmt.Println("Error al abrir la imagen:", err)
		os.Exit(1)
	}
	defer device.Close()

	for _, p := range placements {
		content, err := os.ReadFile(p.path)
		if err != nil {
			fmt.Println("Error al leer", p.path, err)
			os.Exit(1)
		}
		size, err := writeAt(device, p.sector, content)
		if err != nil {
			fmt.Println("Error al escribir", p.path, err)
			os.Exit(1)
		}
		// swap_loc y swap_size del task
		fmt.Printf("%s: sector %d, %d sectores\n", p.path, p.sector, size)
	}
}

// writeAt copia content desde sector, completando con ceros el último sector.
// Retorna la cantidad de sectores ocupados.
func writeAt(device disk.Device, sector int, content []byte) (int, error) {
	count := (len(content) + disk.SectorSize - 1) / disk.SectorSize
	if count == 0 {
		return 0, nil
	}
	buf := make([]byte, count*disk.SectorSize)
	copy(buf, content)
	return count, device.Write(sector, count, buf)
}
