package helpers

import (
	"fmt"
	"log/slog"
	"os"

	cpuServices "github.com/sisoputnfrba/tp-osf-memoria-virtual/cpu/services"
	"github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/models"
	"github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/services"
	"github.com/sisoputnfrba/tp-osf-memoria-virtual/utils/config"
	"github.com/sisoputnfrba/tp-osf-memoria-virtual/utils/disk"
	"github.com/sisoputnfrba/tp-osf-memoria-virtual/utils/log"
)

// crea un directorio en el path especificado.
func CreateDirectory(dir string) {
	err := os.MkdirAll(dir, os.ModePerm)

	if err != nil {
		slog.Error(fmt.Sprintf("Error al crear el directorio %s: %v", dir, err))
		return
	}

	slog.Debug(fmt.Sprintf("Directorio %s creado o ya existía.", dir))
}

// OpenDisk abre la imagen de disco configurada. Sin disk_image_path el disco vive en memoria.
func OpenDisk(config *models.Config) (disk.Device, func() error, error) {
	if config.DiskImagePath == "" {
		slog.Debug("Disco en memoria", "sectores", config.DiskSectors)
		return disk.NewMemDisk(config.DiskSectors), func() error { return nil }, nil
	}

	device, err := disk.OpenFileDisk(config.DiskImagePath, config.DiskSectors)
	if err != nil {
		return nil, nil, fmt.Errorf("no se pudo abrir el disco %s: %w", config.DiskImagePath, err)
	}
	slog.Debug(fmt.Sprintf("Disco: %s", config.DiskImagePath), "sectores", config.DiskSectors)
	return device, device.Close, nil
}

// Setup arma memoria, TLB y MMU sobre un config ya cargado.
func Setup(config *models.Config, device disk.Device) (*services.Memory, *cpuServices.MMU, error) {
	tlb := cpuServices.NewTLB(config.TlbEntries, config.TlbReplacement)

	memory, err := services.Init(config, device, tlb)
	if err != nil {
		return nil, nil, err
	}
	return memory, cpuServices.NewMMU(memory.Physical(), memory, tlb), nil
}

// InitMemory carga config y logger, abre el disco y levanta el subsistema de memoria.
func InitMemory(configPath string, logPath string) (*services.Memory, *cpuServices.MMU, func() error) {
	config.InitConfig(configPath, &models.MemoryConfig)
	log.InitLogger(logPath, models.MemoryConfig.LogLevel)

	slog.Debug(fmt.Sprintf("Port Memory: %d", models.MemoryConfig.PortMemory))
	CreateDirectory(models.MemoryConfig.DumpPath)

	device, closeDisk, err := OpenDisk(models.MemoryConfig)
	if err != nil {
		panic(err)
	}

	memory, mmu, err := Setup(models.MemoryConfig, device)
	if err != nil {
		closeDisk()
		panic(err)
	}
	return memory, mmu, closeDisk
}
