package services

import (
	"fmt"
	"log/slog"

	"github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/models"
)

// HandlePageFault atiende el page fault que la MMU dejó registrado en el task
// (FaultAddr y ErrorCode). Solo se soportan faults por página no presente:
//
//   - falta la tabla: se instala una tabla nueva (pinneada) y el acceso tiene que volver a
//     fallar para cargar la página;
//   - falta la página: se carga desde la imagen del task (primera referencia) o desde swap.
//
// Cualquier otro fault, o quedarse sin marcos o sin swap, detiene la memoria.
func (m *Memory) HandlePageFault(task *models.Task) (models.FaultKind, error) {
	if err := m.checkHalted(); err != nil {
		return 0, err
	}

	m.faultLock.Acquire()
	defer m.faultLock.Release()

	task.PageFaultCount++
	m.pageFaults++

	present := task.ErrorCode&models.EntryPresent != 0
	write := task.ErrorCode&models.EntryWritable != 0
	user := task.ErrorCode&models.EntryUser != 0

	slog.Debug(fmt.Sprintf("## PID: %d - Page fault %d", task.PID, task.PageFaultCount),
		"direccion", fmt.Sprintf("0x%08x", task.FaultAddr),
		"codigo", task.ErrorCode,
		"directorio", fmt.Sprintf("0x%08x", task.PageDirectory),
		"presente", present, "escritura", write, "usuario", user)

	if present {
		return 0, m.halt(fmt.Errorf("%w: violación de protección en 0x%08x (pid %d, código %d)",
			models.ErrUnsupportedFault, task.FaultAddr, task.PID, task.ErrorCode))
	}

	kind, err := m.notPresentFault(task)
	if err != nil {
		return 0, m.halt(err)
	}

	slog.Debug(fmt.Sprintf("## PID: %d - Page fault resuelto", task.PID), "resultado", kind.String())
	return kind, nil
}

func (m *Memory) notPresentFault(task *models.Task) (models.FaultKind, error) {
	directory := task.PageDirectory
	directoryIndex := DirectoryIndex(task.FaultAddr)
	directoryEntry := m.phys.Entry(directory, directoryIndex)

	if !IsPresent(directoryEntry) {
		return models.FaultTableInstalled, m.installTable(directory, directoryIndex)
	}

	table := EntryBase(directoryEntry)
	tableIndex := TableIndex(task.FaultAddr)
	entry := m.phys.Entry(table, tableIndex)

	if IsPresent(entry) {
		return 0, fmt.Errorf("%w: la página 0x%08x ya está presente (pid %d)",
			models.ErrUnsupportedFault, PageBase(task.FaultAddr), task.PID)
	}

	// La pila nunca se desaloja: desalojar necesita una pila donde correr
	pinned := PageBase(task.FaultAddr) == PageBase(task.UserStack)

	_, paddr, err := m.acquireFrame(pinned, m.frameAt(table), tableIndex)
	if err != nil {
		return 0, err
	}

	page := make([]byte, models.PageSize)
	kind := models.FaultDemandLoaded
	if entry == models.NoPage {
		err = m.demandLoad(task, page)
	} else {
		kind = models.FaultSwappedIn
		err = m.swapIn(entry, page)
	}
	if err != nil {
		return 0, err
	}

	m.phys.Write(paddr, page)
	m.phys.SetEntry(table, tableIndex, MakeEntry(paddr, true))
	return kind, nil
}

// installTable reserva un marco pinneado para una tabla nueva y lo enlaza en el directorio.
func (m *Memory) installTable(directory uint32, directoryIndex uint32) error {
	_, table, err := m.acquireFrame(true, m.frameAt(directory), directoryIndex)
	if err != nil {
		return err
	}

	m.phys.SetEntry(directory, directoryIndex, MakeEntry(table, true))
	slog.Debug("Tabla de páginas instalada",
		"directorio", fmt.Sprintf("0x%08x", directory),
		"indice", directoryIndex,
		"tabla", fmt.Sprintf("0x%08x", table))
	return nil
}

// demandLoad lee de la imagen del task la página que contiene FaultAddr. La imagen empieza
// en StartPC y ocupa SwapSize sectores desde SwapLoc; lo que queda fuera se completa con ceros.
func (m *Memory) demandLoad(task *models.Task, page []byte) error {
	vpage := PageBase(task.FaultAddr)
	if vpage < task.StartPC {
		slog.Debug("Página fuera de la imagen, se entrega en cero", "pid", task.PID, "pagina", fmt.Sprintf("0x%08x", vpage))
		return nil
	}

	offset := (vpage - task.StartPC) / models.SectorSize
	if offset >= task.SwapSize {
		slog.Debug("Página fuera de la imagen, se entrega en cero", "pid", task.PID, "pagina", fmt.Sprintf("0x%08x", vpage))
		return nil
	}

	count := min(uint32(models.SectorsPerPage), task.SwapSize-offset)
	start := task.SwapLoc + offset
	if err := m.disk.Read(int(start), int(count), page); err != nil {
		return fmt.Errorf("%w: carga por demanda del pid %d en sector %d: %v", models.ErrDisk, task.PID, start, err)
	}

	slog.Debug("Página cargada por demanda", "pid", task.PID, "pagina", fmt.Sprintf("0x%08x", vpage), "sector", start, "sectores", count)
	return nil
}

// swapIn recupera del swap la página codificada en entry y libera su slot.
func (m *Memory) swapIn(entry uint32, page []byte) error {
	sector := SwapSector(entry)

	m.poolLock.Acquire()
	defer m.poolLock.Release()

	if err := m.swap.Read(sector, page); err != nil {
		return err
	}
	return m.swap.ReleaseSlot(sector)
}
