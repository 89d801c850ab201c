package services

import "github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/models"

// DirectoryIndex devuelve el índice en el directorio de páginas (10 bits altos).
func DirectoryIndex(vaddr uint32) uint32 {
	return (vaddr & models.DirectoryMask) >> models.DirectoryBits
}

// TableIndex devuelve el índice en la tabla de páginas (10 bits del medio).
func TableIndex(vaddr uint32) uint32 {
	return (vaddr & models.TableMask) >> models.TableBits
}

func PageOffset(vaddr uint32) uint32 {
	return vaddr & models.PageOffsetMask
}

func PageBase(addr uint32) uint32 {
	return addr & models.EntryBaseMask
}

// VirtualAddress arma la dirección virtual de una página a partir de sus dos índices.
func VirtualAddress(directoryIndex, tableIndex uint32) uint32 {
	return directoryIndex<<models.DirectoryBits | tableIndex<<models.TableBits
}

// MakeEntry arma una entrada presente y escribible que apunta a paddr.
// Con user la página queda accesible desde modo usuario.
func MakeEntry(paddr uint32, user bool) uint32 {
	access := models.EntryWritable | models.EntryPresent
	if user {
		access |= models.EntryUser
	}
	return (paddr &^ models.PageOffsetMask) | access
}

func EntryBase(entry uint32) uint32 {
	return entry & models.EntryBaseMask
}

func IsPresent(entry uint32) bool {
	return entry&models.EntryPresent != 0
}

func IsUser(entry uint32) bool {
	return entry&models.EntryUser != 0
}

func IsWritable(entry uint32) bool {
	return entry&models.EntryWritable != 0
}

// SwapEntry codifica en una entrada no presente la dirección en disco de una página desalojada.
func SwapEntry(sector uint32) uint32 {
	return (sector * models.SectorSize) &^ models.EntryPresent
}

// SwapSector recupera el sector de disco de una entrada codificada con SwapEntry.
func SwapSector(entry uint32) uint32 {
	return EntryBase(entry) / models.SectorSize
}
