package models

import "fmt"

// Config de memoria. El layout (marcos, slots de swap, sector inicial de swap) se lee una sola
// vez al arrancar y no cambia en ejecución.
type Config struct {
	PortMemory      int    `json:"port_memory"`
	LogLevel        string `json:"log_level"`
	PageableFrames  int    `json:"pageable_frames"`
	SwapSlots       int    `json:"swap_slots"`
	SwapStartSector int    `json:"swap_start_sector"`
	DiskImagePath   string `json:"disk_image_path"`
	DiskSectors     int    `json:"disk_sectors"`
	DumpPath        string `json:"dump_path"`
	TlbEntries      int    `json:"tlb_entries"`
	TlbReplacement  string `json:"tlb_replacement"`
}

var MemoryConfig *Config

// DefaultConfig devuelve el layout por defecto: 33 marcos, 20 slots de swap desde el sector 320.
func DefaultConfig() *Config {
	return &Config{
		PortMemory:      8002,
		LogLevel:        "INFO",
		PageableFrames:  DefaultPageableFrames,
		SwapSlots:       DefaultSwapSlots,
		SwapStartSector: DefaultSwapStartSector,
		DiskSectors:     DefaultSwapStartSector + DefaultSwapSlots*SectorsPerPage,
		TlbEntries:      8,
		TlbReplacement:  "FIFO",
	}
}

// Validate chequea que el layout sea representable. No puede detectar que la región de swap
// pise la imagen de los procesos: eso es responsabilidad de quien arma el disco.
func (c *Config) Validate() error {
	if c.PageableFrames <= 0 {
		return fmt.Errorf("pageable_frames debe ser positivo, vino %d", c.PageableFrames)
	}
	if MaxPhysicalMemory(c.PageableFrames) > PageTableSpan {
		return fmt.Errorf("pageable_frames %d excede lo que mapea una sola tabla de páginas", c.PageableFrames)
	}
	if c.SwapSlots <= 0 {
		return fmt.Errorf("swap_slots debe ser positivo, vino %d", c.SwapSlots)
	}
	// El sector 0 codificaría la entrada 0, que es el centinela de "página nunca cargada"
	if c.SwapStartSector <= 0 || c.SwapStartSector%SectorsPerPage != 0 {
		return fmt.Errorf("swap_start_sector debe ser positivo y múltiplo de %d, vino %d", SectorsPerPage, c.SwapStartSector)
	}
	swapEnd := c.SwapStartSector + c.SwapSlots*SectorsPerPage
	if uint64(swapEnd)*SectorSize > 1<<32 {
		return fmt.Errorf("la región de swap termina en el sector %d, fuera de lo codificable en una entrada", swapEnd)
	}
	if c.DiskSectors < swapEnd {
		return fmt.Errorf("el disco tiene %d sectores y la región de swap termina en %d", c.DiskSectors, swapEnd)
	}
	switch c.TlbReplacement {
	case "", "FIFO", "LRU":
	default:
		return fmt.Errorf("tlb_replacement %q no soportado", c.TlbReplacement)
	}
	return nil
}
