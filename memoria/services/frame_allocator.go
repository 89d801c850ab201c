package services

import (
	"fmt"
	"log/slog"

	"github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/models"
)

// acquireFrame entrega un marco vacío cuyo dueño es la entrada index de owner.
// Si no hay marcos libres desaloja uno; solo falla si todos están pinneados o no hay swap.
func (m *Memory) acquireFrame(pinned bool, owner models.FrameID, index uint32) (models.FrameID, uint32, error) {
	m.poolLock.Acquire()
	defer m.poolLock.Release()

	id, free, err := m.selectFrame()
	if err != nil {
		return models.NoFrame, 0, err
	}

	if free {
		m.freeFrames--
	} else if err := m.evict(id); err != nil {
		return models.NoFrame, 0, err
	}
	if pinned {
		m.pinnedFrames++
	}

	frame := &m.frames[id]
	frame.Owner = owner
	frame.Index = index
	frame.Pinned = pinned
	frame.Free = false
	frame.Age = 0

	slog.Info("Marco asignado",
		"marco", int(id),
		"pinned", pinned,
		"marcos_libres", m.freeFrames,
		"marcos_pinneados", m.pinnedFrames,
		"paginas_en_swap", m.swap.InUse())
	return id, frame.PAddr, nil
}

// selectFrame recorre el pool una vez. Corta en el primer marco libre; si no hay, elige
// como víctima el marco no pinneado con más edad (el primero en alcanzar el máximo).
// Cada marco no pinneado que se saltea suma uno de edad.
func (m *Memory) selectFrame() (models.FrameID, bool, error) {
	victim := models.NoFrame
	var score uint32

	for i := range m.frames {
		frame := &m.frames[i]
		if frame.Free {
			return models.FrameID(i), true, nil
		}
		if !frame.Pinned {
			frame.Age++
		}
		if frame.Age > score {
			score = frame.Age
			victim = models.FrameID(i)
		}
	}

	if victim == models.NoFrame {
		return models.NoFrame, false, fmt.Errorf("%w: %d marcos", models.ErrNoEvictableFrame, len(m.frames))
	}
	return victim, false, nil
}

// evict manda a swap el contenido del marco y deja su entrada de tabla apuntando al disco.
// El slot se reserva antes de tocar nada: si no hay swap el marco y su tabla quedan intactos.
func (m *Memory) evict(id models.FrameID) error {
	frame := &m.frames[id]
	table := m.frames[frame.Owner]
	directory := m.frames[table.Owner].PAddr
	vaddr := VirtualAddress(table.Index, frame.Index)

	sector, err := m.swap.AcquireSlot()
	if err != nil {
		return err
	}

	m.residentMu.Lock()
	defer m.residentMu.Unlock()

	m.tlb.Invalidate(directory, vaddr)

	page := make([]byte, models.PageSize)
	m.phys.Read(frame.PAddr, page)

	if err := m.swap.Clear(sector); err != nil {
		m.swap.ReleaseSlot(sector)
		return err
	}
	if err := m.swap.Write(sector, page); err != nil {
		m.swap.ReleaseSlot(sector)
		return err
	}

	m.phys.SetEntry(table.PAddr, frame.Index, SwapEntry(sector))
	m.phys.ZeroPage(frame.PAddr)
	m.evictions++

	slog.Debug("Marco desalojado",
		"marco", int(id),
		"edad", frame.Age,
		"direccion_virtual", fmt.Sprintf("0x%08x", vaddr),
		"directorio", fmt.Sprintf("0x%08x", directory),
		"sector_swap", sector)
	return nil
}
