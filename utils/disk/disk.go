// Package disk simula el dispositivo de bloques: lecturas y escrituras sincrónicas por sector.
package disk

import (
	"errors"
	"fmt"
)

// SectorSize es el tamaño de un sector en bytes.
const SectorSize = 512

// ErrOutOfRange indica un acceso fuera de los sectores del dispositivo.
var ErrOutOfRange = errors.New("sector fuera de rango")

// Device es un dispositivo de bloques sincrónico. buf debe tener al menos count*SectorSize bytes.
type Device interface {
	Read(sector, count int, buf []byte) error
	Write(sector, count int, buf []byte) error
	Sectors() int
}

func checkRange(sectors, sector, count int, buf []byte) error {
	if sector < 0 || count < 0 || sector+count > sectors {
		return fmt.Errorf("%w: sector %d, cantidad %d, total %d", ErrOutOfRange, sector, count, sectors)
	}
	if len(buf) < count*SectorSize {
		return fmt.Errorf("buffer de %d bytes insuficiente para %d sectores", len(buf), count)
	}
	return nil
}
