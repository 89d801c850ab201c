package services

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/models"
)

// DumpPhysical escribe las palabras de 32 bits entre start y end, con un encabezado por
// página. Con includeZero en false se omiten las palabras en cero.
func DumpPhysical(phys *PhysicalMemory, writer io.Writer, start, end uint32, includeZero bool) error {
	if end > phys.Size() {
		end = phys.Size()
	}

	out := bufio.NewWriter(writer)
	pageNumber := 0

	for paddr := start; paddr < end; paddr += 4 {
		if paddr%models.PageSize == 0 {
			fmt.Fprintf(out, "========================== PAGINA %02d ==========================\n", pageNumber)
			pageNumber++
		}

		value := phys.ReadWord(paddr)
		if !includeZero && value == 0 {
			continue
		}
		fmt.Fprintf(out, "%04d - Dirección: 0x%08x ~~~~~ Valor: 0x%08x\n",
			((paddr-start)/4)%models.PageEntries, paddr, value)
	}

	return out.Flush()
}

// ExecuteDumpMemory vuelca el pool de marcos a un archivo de texto y el mapa de marcos a un PNG
// dentro de dumpPath. Retorna las rutas generadas.
func ExecuteDumpMemory(m *Memory, dumpPath string, includeZero bool) (string, string, error) {
	slog.Info("## Memory Dump solicitado")

	if err := os.MkdirAll(dumpPath, os.ModePerm); err != nil {
		return "", "", fmt.Errorf("no se pudo crear el directorio de dumps: %w", err)
	}

	name := GetDumpName(time.Now())
	textPath := filepath.Join(dumpPath, name+".dmp")
	imagePath := filepath.Join(dumpPath, name+".png")

	file, err := os.Create(textPath)
	if err != nil {
		return "", "", fmt.Errorf("error al crear archivo de dump: %w", err)
	}
	defer file.Close()

	end := models.MaxPhysicalMemory(len(m.frames))
	if err := DumpPhysical(m.phys, file, models.MemStart, end, includeZero); err != nil {
		return "", "", fmt.Errorf("fallo al escribir el dump: %w", err)
	}

	if err := SaveFrameMap(m.Frames(), m.SwapSlots(), imagePath); err != nil {
		return "", "", err
	}

	slog.Info("Memory Dump completado", "archivo", textPath, "mapa", imagePath)
	return textPath, imagePath, nil
}

func GetDumpName(now time.Time) string {
	return fmt.Sprintf("memoria-%s", now.Format("20060102-150405.000"))
}
