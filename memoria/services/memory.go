package services

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/models"
	"github.com/sisoputnfrba/tp-osf-memoria-virtual/utils/disk"
	"github.com/sisoputnfrba/tp-osf-memoria-virtual/utils/lock"
)

// Invalidator invalida la traducción cacheada (TLB) de una página de un espacio de direcciones.
type Invalidator interface {
	Invalidate(directory uint32, vaddr uint32)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(uint32, uint32) {}

// Memory es el subsistema de memoria virtual: pool de marcos, swap, page faults y
// construcción de espacios de direcciones.
//
// Locks: pagingLock (bloqueante) solo al crear espacios de direcciones; faultLock (spinlock)
// en el camino de page faults; poolLock (spinlock) en la búsqueda/desalojo de marcos;
// residentMu entre el desalojo y los accesos de la MMU.
// Orden: pagingLock|faultLock -> poolLock -> residentMu. El I/O de disco es sincrónico dentro
// de los locks.
type Memory struct {
	config *models.Config
	phys   *PhysicalMemory
	disk   disk.Device
	tlb    Invalidator

	pagingLock lock.Lock
	faultLock  lock.Spinlock
	poolLock   lock.Spinlock

	// Protegidos por poolLock
	frames       []models.Frame
	freeFrames   int
	pinnedFrames int
	evictions    int
	swap         *SwapSpace

	// Protegido por faultLock
	pageFaults int

	// residentMu separa las copias sobre marcos mapeados (lectura) del desalojo (escritura):
	// un marco traducido no cambia de dueño mientras se copia.
	residentMu sync.RWMutex

	kernelDirectory uint32

	haltMu  sync.Mutex
	haltErr error
}

// Init levanta el subsistema: arma el pool de marcos y de swap, y crea el directorio del
// kernel con el mapeo común. Se llama una sola vez, antes de crear cualquier task.
func Init(config *models.Config, device disk.Device, tlb Invalidator) (*Memory, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuración de memoria inválida: %w", err)
	}
	if device.Sectors() < config.SwapStartSector+config.SwapSlots*models.SectorsPerPage {
		return nil, fmt.Errorf("el disco tiene %d sectores, no alcanza para la región de swap", device.Sectors())
	}
	if tlb == nil {
		tlb = noopInvalidator{}
	}

	m := &Memory{
		config:     config,
		phys:       NewPhysicalMemory(models.MaxPhysicalMemory(config.PageableFrames)),
		disk:       device,
		tlb:        tlb,
		frames:     make([]models.Frame, config.PageableFrames),
		freeFrames: config.PageableFrames,
		swap:       NewSwapSpace(device, uint32(config.SwapStartSector), config.SwapSlots),
	}

	// Los marcos quedan contiguos desde MemStart, ya en cero
	for i := range m.frames {
		m.frames[i] = models.Frame{
			PAddr: models.MemStart + uint32(i)*models.PageSize,
			Owner: models.NoFrame,
			Free:  true,
		}
	}

	directory, paddr, err := m.acquireFrame(true, models.NoFrame, 0)
	if err != nil {
		return nil, err
	}
	if err := m.makeCommonMap(paddr, directory, false); err != nil {
		return nil, err
	}
	m.kernelDirectory = paddr

	slog.Info("Memoria inicializada",
		"marcos", config.PageableFrames,
		"slots_swap", config.SwapSlots,
		"sector_swap", config.SwapStartSector,
		"directorio_kernel", fmt.Sprintf("0x%08x", paddr))
	return m, nil
}

// KernelDirectory es el directorio compartido por el kernel y todos los threads.
func (m *Memory) KernelDirectory() uint32 {
	return m.kernelDirectory
}

// Physical expone la memoria física para la MMU y los dumps.
func (m *Memory) Physical() *PhysicalMemory {
	return m.phys
}

// Resident ejecuta fn sin que ningún marco pueda desalojarse mientras tanto. La MMU traduce
// y copia adentro de fn; los page faults se atienden afuera.
func (m *Memory) Resident(fn func()) {
	m.residentMu.RLock()
	defer m.residentMu.RUnlock()
	fn()
}

// Stats recorre el pool y arma los contadores.
func (m *Memory) Stats() models.Stats {
	m.faultLock.Acquire()
	faults := m.pageFaults
	m.faultLock.Release()

	m.poolLock.Acquire()
	defer m.poolLock.Release()

	stats := models.Stats{
		TotalFrames: len(m.frames),
		SwapSlots:   len(m.swap.slots),
		PagesInSwap: m.swap.InUse(),
		Evictions:   m.evictions,
		PageFaults:  faults,
	}
	for _, frame := range m.frames {
		switch {
		case frame.Free:
			stats.FreeFrames++
		case frame.Pinned:
			stats.PinnedFrames++
		default:
			stats.EvictableFrames++
		}
	}
	return stats
}

// Frames devuelve una copia de la metadata de los marcos.
func (m *Memory) Frames() []models.Frame {
	m.poolLock.Acquire()
	defer m.poolLock.Release()

	frames := make([]models.Frame, len(m.frames))
	copy(frames, m.frames)
	return frames
}

// SwapSlots devuelve una copia del estado del swap.
func (m *Memory) SwapSlots() []models.SwapSlot {
	m.poolLock.Acquire()
	defer m.poolLock.Release()

	return m.swap.Slots()
}

// Halted retorna el error fatal que detuvo la memoria, o nil.
func (m *Memory) Halted() error {
	m.haltMu.Lock()
	defer m.haltMu.Unlock()

	return m.haltErr
}

func (m *Memory) checkHalted() error {
	if err := m.Halted(); err != nil {
		return fmt.Errorf("%w: %w", models.ErrHalted, err)
	}
	return nil
}

// halt registra el primer error fatal. A partir de ahí toda operación falla con ErrHalted.
func (m *Memory) halt(err error) error {
	m.haltMu.Lock()
	defer m.haltMu.Unlock()

	if m.haltErr == nil {
		m.haltErr = err
		slog.Error("HALT: error fatal en memoria", "error", err)
	}
	return err
}

// frameAt traduce la dirección física de un marco del pool a su identificador.
func (m *Memory) frameAt(paddr uint32) models.FrameID {
	if paddr < models.MemStart || (paddr-models.MemStart)%models.PageSize != 0 {
		panic(fmt.Sprintf("0x%08x no es un marco del pool", paddr))
	}
	id := int((paddr - models.MemStart) / models.PageSize)
	if id >= len(m.frames) {
		panic(fmt.Sprintf("0x%08x está fuera del pool de marcos", paddr))
	}
	return models.FrameID(id)
}

// IsFatal informa si err corresponde a una condición que detiene la memoria.
func IsFatal(err error) bool {
	return errors.Is(err, models.ErrNoEvictableFrame) ||
		errors.Is(err, models.ErrSwapExhausted) ||
		errors.Is(err, models.ErrUnsupportedFault) ||
		errors.Is(err, models.ErrInvalidDiskAddress) ||
		errors.Is(err, models.ErrDisk) ||
		errors.Is(err, models.ErrHalted)
}
