package models

import "errors"

// FrameID identifica un marco del pool. Nunca se expone un puntero al registro del marco.
type FrameID int

// NoFrame indica "sin dueño": lo usan los directorios, que no cuelgan de ninguna tabla.
const NoFrame FrameID = -1

// Frame es la metadata de un marco físico. Se crea al iniciar y solo se recicla.
type Frame struct {
	PAddr  uint32  // dirección física, fija desde el arranque
	Owner  FrameID // marco de la tabla/directorio que apunta a este marco
	Index  uint32  // índice de la entrada dentro de Owner
	Pinned bool    // nunca se desaloja
	Free   bool
	Age    uint32 // cuántas búsquedas lo salteó sin poder desalojarlo
}

// SwapSlot es la metadata de una página de swap en disco.
type SwapSlot struct {
	Sector uint32 // primer sector del slot
	Free   bool
}

// Task es la parte del descriptor de un task que usa memoria.
//
// FaultAddr y ErrorCode los escribe la MMU justo antes de despachar cada fault;
// el resto se completa al crear el task y no cambia.
type Task struct {
	PID            int    `json:"pid"`
	IsThread       bool   `json:"is_thread"`
	PageDirectory  uint32 `json:"page_directory"`
	FaultAddr      uint32 `json:"fault_addr"`
	ErrorCode      uint32 `json:"error_code"`
	SwapLoc        uint32 `json:"swap_loc"`  // primer sector de la imagen del task
	SwapSize       uint32 `json:"swap_size"` // sectores de la imagen
	StartPC        uint32 `json:"start_pc"`  // dirección virtual donde empieza la imagen
	UserStack      uint32 `json:"user_stack"`
	PageFaultCount int    `json:"page_fault_count"`
}

// Stats son los contadores del pool de marcos y del swap.
type Stats struct {
	TotalFrames     int `json:"total_frames"`
	FreeFrames      int `json:"free_frames"`
	PinnedFrames    int `json:"pinned_frames"`
	EvictableFrames int `json:"evictable_frames"`
	SwapSlots       int `json:"swap_slots"`
	PagesInSwap     int `json:"pages_in_swap"`
	Evictions       int `json:"evictions"`
	PageFaults      int `json:"page_faults"`
}

// FaultKind es el estado en que terminó un page fault atendido.
type FaultKind int

const (
	// FaultTableInstalled: faltaba la tabla; el acceso va a volver a fallar por la página.
	FaultTableInstalled FaultKind = iota
	// FaultDemandLoaded: primera referencia, la página se leyó de la imagen del task.
	FaultDemandLoaded
	// FaultSwappedIn: la página se recuperó del swap.
	FaultSwappedIn
)

func (k FaultKind) String() string {
	switch k {
	case FaultTableInstalled:
		return "TABLA_INSTALADA"
	case FaultDemandLoaded:
		return "CARGA_POR_DEMANDA"
	case FaultSwappedIn:
		return "SWAP_IN"
	default:
		return "DESCONOCIDO"
	}
}

// Errores fatales: cualquiera de ellos detiene la memoria.
var (
	ErrNoEvictableFrame   = errors.New("no hay marcos libres ni desalojables: todos están pinneados")
	ErrSwapExhausted      = errors.New("no quedan páginas de swap libres")
	ErrUnsupportedFault   = errors.New("page fault no soportado")
	ErrInvalidDiskAddress = errors.New("dirección de disco inválida")
	ErrDisk               = errors.New("error de disco")
	ErrHalted             = errors.New("memoria detenida por un error fatal")
)
