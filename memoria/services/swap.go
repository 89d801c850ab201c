package services

import (
	"fmt"
	"log/slog"

	"github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/models"
	"github.com/sisoputnfrba/tp-osf-memoria-virtual/utils/disk"
)

// SwapSpace administra el pool fijo de páginas de swap en disco.
// No tiene lock propio: lo usan el asignador de marcos y el manejador de page faults
// con sus locks tomados.
type SwapSpace struct {
	device disk.Device
	start  uint32
	slots  []models.SwapSlot
	inUse  int
	zero   []byte
}

// NewSwapSpace arma count slots consecutivos de SectorsPerPage sectores desde startSector.
func NewSwapSpace(device disk.Device, startSector uint32, count int) *SwapSpace {
	swap := &SwapSpace{
		device: device,
		start:  startSector,
		slots:  make([]models.SwapSlot, count),
		zero:   make([]byte, models.PageSize),
	}

	sector := startSector
	for i := range swap.slots {
		swap.slots[i] = models.SwapSlot{Sector: sector, Free: true}
		sector += models.SectorsPerPage
	}
	return swap
}

// AcquireSlot reserva el primer slot libre y retorna su sector.
func (s *SwapSpace) AcquireSlot() (uint32, error) {
	for i := range s.slots {
		if s.slots[i].Free {
			s.slots[i].Free = false
			s.inUse++
			slog.Debug("Slot de swap reservado", "sector", s.slots[i].Sector, "en_uso", s.inUse)
			return s.slots[i].Sector, nil
		}
	}
	return 0, fmt.Errorf("%w: %d en uso", models.ErrSwapExhausted, s.inUse)
}

// ReleaseSlot libera el slot que empieza en sector.
func (s *SwapSpace) ReleaseSlot(sector uint32) error {
	index, err := s.slotIndex(sector)
	if err != nil {
		return err
	}
	if s.slots[index].Free {
		return fmt.Errorf("%w: el slot del sector %d ya estaba libre", models.ErrInvalidDiskAddress, sector)
	}

	s.slots[index].Free = true
	s.inUse--
	slog.Debug("Slot de swap liberado", "sector", sector, "en_uso", s.inUse)
	return nil
}

// Write guarda una página completa en el slot.
func (s *SwapSpace) Write(sector uint32, page []byte) error {
	if _, err := s.slotIndex(sector); err != nil {
		return err
	}
	if err := s.device.Write(int(sector), models.SectorsPerPage, page); err != nil {
		return fmt.Errorf("%w: escribiendo swap en sector %d: %v", models.ErrDisk, sector, err)
	}
	return nil
}

// Read recupera una página completa del slot.
func (s *SwapSpace) Read(sector uint32, page []byte) error {
	if _, err := s.slotIndex(sector); err != nil {
		return err
	}
	if err := s.device.Read(int(sector), models.SectorsPerPage, page); err != nil {
		return fmt.Errorf("%w: leyendo swap en sector %d: %v", models.ErrDisk, sector, err)
	}
	return nil
}

// Clear pone en cero el slot en disco.
func (s *SwapSpace) Clear(sector uint32) error {
	return s.Write(sector, s.zero)
}

func (s *SwapSpace) InUse() int {
	return s.inUse
}

// Slots devuelve una copia del estado de los slots.
func (s *SwapSpace) Slots() []models.SwapSlot {
	slots := make([]models.SwapSlot, len(s.slots))
	copy(slots, s.slots)
	return slots
}

func (s *SwapSpace) slotIndex(sector uint32) (int, error) {
	if sector < s.start || (sector-s.start)%models.SectorsPerPage != 0 {
		return 0, fmt.Errorf("%w: sector %d no es el inicio de un slot de swap", models.ErrInvalidDiskAddress, sector)
	}
	index := int((sector - s.start) / models.SectorsPerPage)
	if index >= len(s.slots) {
		return 0, fmt.Errorf("%w: sector %d fuera de la región de swap", models.ErrInvalidDiskAddress, sector)
	}
	return index, nil
}
