package models

import "github.com/sisoputnfrba/tp-osf-memoria-virtual/utils/disk"

// Datos físicos de una página y de las entradas de directorio/tabla (x86 de 32 bits).
const (
	PageSize       = 4096
	PageEntries    = PageSize / 4
	SectorSize     = disk.SectorSize
	SectorsPerPage = PageSize / SectorSize
	PageTableSpan  = PageSize * PageEntries

	// MaxAccessSize acota un acceso pedido por HTTP: lo que cubre una tabla de páginas.
	MaxAccessSize = PageTableSpan

	EntryPresent   uint32 = 1 << 0
	EntryWritable  uint32 = 1 << 1
	EntryUser      uint32 = 1 << 2
	EntryBaseMask  uint32 = 0xfffff000
	PageOffsetMask uint32 = 0x00000fff

	DirectoryBits uint32 = 22
	TableBits     uint32 = 12
	DirectoryMask uint32 = 0xffc00000
	TableMask     uint32 = 0x003ff000

	// NoPage es el valor de una entrada de tabla que nunca fue cargada.
	NoPage uint32 = 0
)

// Layout de la memoria física simulada.
const (
	MemStart      uint32 = 0x100000 // 1MB, primer marco paginable
	VideoAddr     uint32 = 0xb8000
	BaseMemoryEnd uint32 = 640 * 1024

	DefaultPageableFrames  = 33
	DefaultSwapSlots       = 20
	DefaultSwapStartSector = 320
)

// MaxPhysicalMemory es el límite (exclusivo) de la memoria física para una cantidad de marcos.
// Se reserva una página extra por encima del pool.
func MaxPhysicalMemory(frames int) uint32 {
	return MemStart + uint32(frames+1)*PageSize
}
