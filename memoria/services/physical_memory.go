package services

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/models"
)

// PhysicalMemory simula la memoria física: un arreglo de bytes desde la dirección 0.
// Las entradas de directorio y tabla se guardan como palabras little-endian de 32 bits.
type PhysicalMemory struct {
	mu   sync.RWMutex
	data []byte
}

func NewPhysicalMemory(size uint32) *PhysicalMemory {
	return &PhysicalMemory{data: make([]byte, size)}
}

func (p *PhysicalMemory) Size() uint32 {
	return uint32(len(p.data))
}

func (p *PhysicalMemory) check(paddr uint32, length int) {
	if uint64(paddr)+uint64(length) > uint64(len(p.data)) {
		panic(fmt.Sprintf("acceso fuera de la memoria física: 0x%08x (+%d)", paddr, length))
	}
}

func (p *PhysicalMemory) ReadWord(paddr uint32) uint32 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	p.check(paddr, 4)
	return binary.LittleEndian.Uint32(p.data[paddr:])
}

func (p *PhysicalMemory) WriteWord(paddr uint32, value uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.check(paddr, 4)
	binary.LittleEndian.PutUint32(p.data[paddr:], value)
}

// Entry lee la entrada index de la tabla (o directorio) que empieza en table.
func (p *PhysicalMemory) Entry(table uint32, index uint32) uint32 {
	if index >= models.PageEntries {
		panic(fmt.Sprintf("índice de entrada fuera de rango: %d", index))
	}
	return p.ReadWord(table + index*4)
}

func (p *PhysicalMemory) SetEntry(table uint32, index uint32, value uint32) {
	if index >= models.PageEntries {
		panic(fmt.Sprintf("índice de entrada fuera de rango: %d", index))
	}
	p.WriteWord(table+index*4, value)
}

// Read copia len(buf) bytes desde paddr.
func (p *PhysicalMemory) Read(paddr uint32, buf []byte) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	p.check(paddr, len(buf))
	copy(buf, p.data[paddr:])
}

// Write copia buf a partir de paddr.
func (p *PhysicalMemory) Write(paddr uint32, buf []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.check(paddr, len(buf))
	copy(p.data[paddr:], buf)
}

func (p *PhysicalMemory) ZeroPage(paddr uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.check(paddr, models.PageSize)
	clear(p.data[paddr : paddr+models.PageSize])
}
