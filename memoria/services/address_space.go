package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/models"
)

// ErrInvalidTask indica un descriptor de task que no se puede mapear. No detiene la memoria.
var ErrInvalidTask = errors.New("task inválido")

// BuildAddressSpace completa task.PageDirectory. Los threads comparten el directorio del
// kernel; cada proceso recibe un directorio propio con el mapeo común instalado.
func (m *Memory) BuildAddressSpace(task *models.Task) error {
	if err := m.checkHalted(); err != nil {
		return err
	}

	m.pagingLock.Acquire()
	defer m.pagingLock.Release()

	if task.IsThread {
		task.PageDirectory = m.kernelDirectory
		slog.Debug(fmt.Sprintf("## PID: %d - Thread usa el directorio del kernel", task.PID))
		return nil
	}

	if PageOffset(task.StartPC) != 0 {
		return fmt.Errorf("%w: pid %d con start_pc 0x%08x no alineado a página", ErrInvalidTask, task.PID, task.StartPC)
	}
	if DirectoryIndex(task.StartPC) == 0 || DirectoryIndex(task.UserStack) == 0 {
		return fmt.Errorf("%w: pid %d superpone su imagen o su pila con el mapeo del kernel", ErrInvalidTask, task.PID)
	}

	directory, paddr, err := m.acquireFrame(true, models.NoFrame, 0)
	if err != nil {
		return m.halt(err)
	}
	if err := m.makeCommonMap(paddr, directory, true); err != nil {
		return m.halt(err)
	}
	task.PageDirectory = paddr

	slog.Info(fmt.Sprintf("## PID: %d - Espacio de direcciones creado", task.PID),
		"directorio", fmt.Sprintf("0x%08x", paddr))
	return nil
}

// makeCommonMap instala en el directorio el mapeo que comparten todos los espacios de
// direcciones, para que el kernel y los manejadores de interrupciones sigan accesibles sin
// cambiar de directorio. Todo se mapea identidad sobre una sola tabla pinneada:
// la memoria base (640KB), la memoria de video y el resto de la memoria física.
// Solo la memoria de video queda accesible en modo usuario, y solo si user es true.
func (m *Memory) makeCommonMap(directory uint32, directoryFrame models.FrameID, user bool) error {
	index := DirectoryIndex(0)
	_, table, err := m.acquireFrame(true, directoryFrame, index)
	if err != nil {
		return err
	}

	for addr := uint32(0); addr < models.BaseMemoryEnd; addr += models.PageSize {
		m.phys.SetEntry(table, TableIndex(addr), MakeEntry(addr, false))
	}

	m.phys.SetEntry(table, TableIndex(models.VideoAddr), MakeEntry(models.VideoAddr, user))

	maxPhysical := models.MaxPhysicalMemory(m.config.PageableFrames)
	for addr := models.MemStart; addr < maxPhysical; addr += models.PageSize {
		m.phys.SetEntry(table, TableIndex(addr), MakeEntry(addr, false))
	}

	m.phys.SetEntry(directory, index, MakeEntry(table, user))
	return nil
}
