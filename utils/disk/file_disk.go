package disk

import (
	"fmt"
	"os"
	"sync"
)

// FileDisk es un disco respaldado por un archivo de imagen.
type FileDisk struct {
	mu      sync.Mutex
	file    *os.File
	sectors int
}

// OpenFileDisk abre (o crea) la imagen y la extiende hasta sectors sectores si es más chica.
func OpenFileDisk(path string, sectors int) (*FileDisk, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("no se pudo abrir la imagen de disco %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	size := int64(sectors) * SectorSize
	if info.Size() < size {
		if err := file.Truncate(size); err != nil {
			file.Close()
			return nil, fmt.Errorf("no se pudo extender la imagen de disco: %w", err)
		}
	}

	return &FileDisk{file: file, sectors: sectors}, nil
}

func (d *FileDisk) Read(sector, count int, buf []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := checkRange(d.sectors, sector, count, buf); err != nil {
		return err
	}
	if _, err := d.file.ReadAt(buf[:count*SectorSize], int64(sector)*SectorSize); err != nil {
		return fmt.Errorf("error leyendo sector %d: %w", sector, err)
	}
	return nil
}

func (d *FileDisk) Write(sector, count int, buf []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := checkRange(d.sectors, sector, count, buf); err != nil {
		return err
	}
	if _, err := d.file.WriteAt(buf[:count*SectorSize], int64(sector)*SectorSize); err != nil {
		return fmt.Errorf("error escribiendo sector %d: %w", sector, err)
	}
	return nil
}

func (d *FileDisk) Sectors() int {
	return d.sectors
}

// Close sincroniza y cierra la imagen.
func (d *FileDisk) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.file.Sync(); err != nil {
		d.file.Close()
		return err
	}
	return d.file.Close()
}
