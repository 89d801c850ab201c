package disk

import "sync"

// MemDisk es un disco en memoria. Lo usan los tests y el simulador cuando no hay imagen.
type MemDisk struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemDisk crea un disco vacío (todo en cero) con la cantidad de sectores indicada.
func NewMemDisk(sectors int) *MemDisk {
	return &MemDisk{data: make([]byte, sectors*SectorSize)}
}

func (d *MemDisk) Read(sector, count int, buf []byte) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err := checkRange(d.Sectors(), sector, count, buf); err != nil {
		return err
	}
	copy(buf, d.data[sector*SectorSize:(sector+count)*SectorSize])
	return nil
}

func (d *MemDisk) Write(sector, count int, buf []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := checkRange(d.Sectors(), sector, count, buf); err != nil {
		return err
	}
	copy(d.data[sector*SectorSize:], buf[:count*SectorSize])
	return nil
}

func (d *MemDisk) Sectors() int {
	return len(d.data) / SectorSize
}
