package services

import (
	"fmt"
	"log/slog"

	"github.com/sisoputnfrba/tp-osf-memoria-virtual/cpu/models"
	memoriaModels "github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/models"
	memoria "github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/services"
)

// Bus es el acceso de la MMU a la memoria física.
type Bus interface {
	Entry(table uint32, index uint32) uint32
	Read(paddr uint32, buf []byte)
	Write(paddr uint32, buf []byte)
}

// FaultHandler atiende un page fault ya registrado en el task. Resident ejecuta fn sin que
// se desaloje ningún marco: la traducción y la copia tienen que ocurrir juntas adentro.
type FaultHandler interface {
	HandlePageFault(task *memoriaModels.Task) (memoriaModels.FaultKind, error)
	Resident(fn func())
}

// MMU traduce direcciones virtuales recorriendo las tablas de dos niveles del task.
// Ante un fault registra FaultAddr y ErrorCode en el task, llama al handler y reintenta.
type MMU struct {
	bus     Bus
	handler FaultHandler
	tlb     *TLB
}

func NewMMU(bus Bus, handler FaultHandler, tlb *TLB) *MMU {
	if tlb == nil {
		tlb = NewTLB(0, models.FIFO)
	}
	return &MMU{bus: bus, handler: handler, tlb: tlb}
}

func (m *MMU) TLB() *TLB {
	return m.tlb
}

// Translate devuelve la dirección física de vaddr para el task, atendiendo los page faults
// que haga falta. Falla si el handler falla o si el acceso no se resuelve en
// MaxFaultsPerAccess faults. La dirección puede quedar vieja apenas retorna: para copiar
// datos usar Read o Write.
func (m *MMU) Translate(task *memoriaModels.Task, vaddr uint32, write bool, user bool) (uint32, error) {
	var paddr uint32
	err := m.resolve(task, vaddr, write, user, func(resolved uint32) { paddr = resolved })
	return paddr, err
}

// resolve traduce vaddr y llama a use con la dirección física antes de que el marco pueda
// desalojarse.
func (m *MMU) resolve(task *memoriaModels.Task, vaddr uint32, write bool, user bool, use func(paddr uint32)) error {
	for faults := 0; ; faults++ {
		var errorCode uint32
		var ok bool
		m.handler.Resident(func() {
			var paddr uint32
			paddr, errorCode, ok = m.walk(task, vaddr, write, user)
			if ok {
				use(paddr)
			}
		})
		if ok {
			return nil
		}
		if faults == models.MaxFaultsPerAccess {
			return fmt.Errorf("%w: pid %d dirección 0x%08x", models.ErrTooManyFaults, task.PID, vaddr)
		}

		task.FaultAddr = vaddr
		task.ErrorCode = errorCode
		kind, err := m.handler.HandlePageFault(task)
		if err != nil {
			return err
		}
		slog.Debug(fmt.Sprintf("PID: %d - Reintento de acceso - Dirección: 0x%08x", task.PID, vaddr),
			"fault", kind.String())
	}
}

// walk resuelve vaddr sin atender faults. Si no puede, retorna el código de error que
// reportaría el hardware: P si la entrada estaba presente (violación de protección),
// W si era escritura, US si el acceso era de usuario.
func (m *MMU) walk(task *memoriaModels.Task, vaddr uint32, write bool, user bool) (uint32, uint32, bool) {
	errorCode := uint32(0)
	if write {
		errorCode |= memoriaModels.EntryWritable
	}
	if user {
		errorCode |= memoriaModels.EntryUser
	}

	if entry, ok := m.tlb.Lookup(task.PageDirectory, vaddr); ok {
		if allowed(entry.User, entry.Writable, write, user) {
			slog.Debug(fmt.Sprintf("PID: %d - TLB HIT - Pagina: 0x%08x", task.PID, entry.Page))
			return entry.Frame | memoria.PageOffset(vaddr), 0, true
		}
		return 0, errorCode | memoriaModels.EntryPresent, false
	}
	slog.Debug(fmt.Sprintf("PID: %d - TLB MISS - Pagina: 0x%08x", task.PID, memoria.PageBase(vaddr)))

	directoryEntry := m.bus.Entry(task.PageDirectory, memoria.DirectoryIndex(vaddr))
	if !memoria.IsPresent(directoryEntry) {
		return 0, errorCode, false
	}
	entry := m.bus.Entry(memoria.EntryBase(directoryEntry), memoria.TableIndex(vaddr))
	if !memoria.IsPresent(entry) {
		return 0, errorCode, false
	}

	userOK := memoria.IsUser(directoryEntry) && memoria.IsUser(entry)
	writable := memoria.IsWritable(directoryEntry) && memoria.IsWritable(entry)
	if !allowed(userOK, writable, write, user) {
		return 0, errorCode | memoriaModels.EntryPresent, false
	}

	m.tlb.Insert(models.TLBEntry{
		Directory: task.PageDirectory,
		Page:      vaddr,
		Frame:     memoria.EntryBase(entry),
		User:      userOK,
		Writable:  writable,
	})
	return memoria.EntryBase(entry) | memoria.PageOffset(vaddr), 0, true
}

func allowed(entryUser, entryWritable, write, user bool) bool {
	if user && !entryUser {
		return false
	}
	return !write || entryWritable
}

// Read copia len(buf) bytes desde vaddr, cruzando páginas si hace falta. Retorna la
// dirección física donde se leyó el primer byte.
func (m *MMU) Read(task *memoriaModels.Task, vaddr uint32, buf []byte, user bool) (uint32, error) {
	return m.access(task, vaddr, buf, false, user)
}

// Write copia data a partir de vaddr, cruzando páginas si hace falta. Retorna la dirección
// física donde se escribió el primer byte.
func (m *MMU) Write(task *memoriaModels.Task, vaddr uint32, data []byte, user bool) (uint32, error) {
	return m.access(task, vaddr, data, true, user)
}

func (m *MMU) access(task *memoriaModels.Task, vaddr uint32, buf []byte, write bool, user bool) (uint32, error) {
	if uint64(vaddr)+uint64(len(buf)) > 1<<32 {
		return 0, fmt.Errorf("%w: 0x%08x + %d", models.ErrInvalidAddress, vaddr, len(buf))
	}

	var first uint32
	for done := 0; done == 0 || done < len(buf); {
		current := vaddr + uint32(done)
		chunk := min(len(buf)-done, int(memoriaModels.PageSize-memoria.PageOffset(current)))

		part := buf[done : done+chunk]
		err := m.resolve(task, current, write, user, func(paddr uint32) {
			if done == 0 {
				first = paddr
			}
			if write {
				m.bus.Write(paddr, part)
			} else {
				m.bus.Read(paddr, part)
			}
		})
		if err != nil {
			return 0, err
		}
		if chunk == 0 {
			break
		}
		done += chunk
	}
	return first, nil
}
