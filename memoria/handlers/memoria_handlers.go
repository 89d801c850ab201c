package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	cpuModels "github.com/sisoputnfrba/tp-osf-memoria-virtual/cpu/models"
	cpuServices "github.com/sisoputnfrba/tp-osf-memoria-virtual/cpu/services"
	"github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/models"
	"github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/services"
	"github.com/sisoputnfrba/tp-osf-memoria-virtual/utils/list"
	"github.com/sisoputnfrba/tp-osf-memoria-virtual/utils/web/server"
)

// registeredTask es un task del registro. mu protege el descriptor: el handler de faults
// escribe FaultAddr, ErrorCode y PageFaultCount mientras atiende un acceso.
type registeredTask struct {
	mu   sync.Mutex
	task *models.Task
}

var (
	memory   *services.Memory
	mmu      *cpuServices.MMU
	dumpPath string
	tasks    *list.ArrayList[*registeredTask]

	// Serializa el chequeo de PID duplicado con el alta en el registro
	createMutex sync.Mutex
)

// Setup deja listos los handlers para operar sobre memory y mmu. Descarta los tasks previos.
func Setup(m *services.Memory, unit *cpuServices.MMU, config *models.Config) {
	memory = m
	mmu = unit
	dumpPath = config.DumpPath
	tasks = &list.ArrayList[*registeredTask]{}
}

func findTask(pid int) (*registeredTask, bool) {
	entry, _, found := tasks.Find(func(e *registeredTask) bool { return e.task.PID == pid })
	return entry, found
}

// acquireTask busca el task y toma su descriptor. Un task no admite dos operaciones a la vez:
// si ya está tomado responde 409.
func acquireTask(w http.ResponseWriter, pid int) (*registeredTask, bool) {
	entry, found := findTask(pid)
	if !found {
		http.Error(w, "Task not found", http.StatusNotFound)
		return nil, false
	}
	if !entry.mu.TryLock() {
		slog.Warn("Task ya está siendo procesado en memoria", "PID", pid)
		http.Error(w, "Task already being processed", http.StatusConflict)
		return nil, false
	}
	return entry, true
}

// statusFor traduce un error de memoria a un código HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrHalted):
		return http.StatusServiceUnavailable
	case services.IsFatal(err):
		return http.StatusInternalServerError
	case errors.Is(err, services.ErrInvalidTask),
		errors.Is(err, cpuModels.ErrInvalidAddress),
		errors.Is(err, cpuModels.ErrTooManyFaults):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	var request models.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		slog.Error("Invalid request", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	createMutex.Lock()
	defer createMutex.Unlock()

	if _, exists := findTask(request.PID); exists {
		slog.Warn("El task ya existe", "PID", request.PID)
		http.Error(w, "Task already exists", http.StatusConflict)
		return
	}

	task := &models.Task{
		PID:       request.PID,
		IsThread:  request.IsThread,
		SwapLoc:   request.SwapLoc,
		SwapSize:  request.SwapSize,
		StartPC:   request.StartPC,
		UserStack: request.UserStack,
	}
	if err := memory.BuildAddressSpace(task); err != nil {
		slog.Error("Error creando el espacio de direcciones", "PID", request.PID, "error", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	created := *task
	tasks.Add(&registeredTask{task: task})
	slog.Info(fmt.Sprintf("## PID: %d - Task creado - Directorio: 0x%08x", created.PID, created.PageDirectory))
	server.SendJsonResponse(w, created)
}

// GetTasksHandler responde copias de los descriptores, tomadas con cada task bloqueado.
func GetTasksHandler(w http.ResponseWriter, r *http.Request) {
	entries := tasks.GetAll()
	snapshot := make([]models.Task, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		snapshot = append(snapshot, *entry.task)
		entry.mu.Unlock()
	}
	server.SendJsonResponse(w, snapshot)
}

func AccessHandler(w http.ResponseWriter, r *http.Request) {
	var request models.AccessRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		slog.Error("Invalid request", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	size := request.Size
	if request.Write {
		size = len(request.Data)
	}
	if size < 0 || size > models.MaxAccessSize {
		slog.Warn("Tamaño de acceso inválido", "PID", request.PID, "tamaño", size)
		http.Error(w, fmt.Sprintf("Invalid size %d (max %d)", size, models.MaxAccessSize), http.StatusBadRequest)
		return
	}

	entry, ok := acquireTask(w, request.PID)
	if !ok {
		return
	}
	defer entry.mu.Unlock()
	task := entry.task

	response := models.AccessResponse{PID: task.PID, Address: request.Address}
	user := !request.Kernel

	var paddr uint32
	var err error
	if request.Write {
		paddr, err = mmu.Write(task, request.Address, request.Data, user)
		if err == nil {
			slog.Info(fmt.Sprintf("## PID: %d - Escritura - Dir. Física: 0x%08x - Tamaño: %d", task.PID, paddr, size))
		}
	} else {
		response.Data = make([]byte, size)
		paddr, err = mmu.Read(task, request.Address, response.Data, user)
		if err == nil {
			slog.Info(fmt.Sprintf("## PID: %d - Lectura - Dir. Física: 0x%08x - Tamaño: %d", task.PID, paddr, size))
		}
	}
	if err != nil {
		slog.Error("Error en el acceso a memoria", "PID", task.PID, "direccion", fmt.Sprintf("0x%08x", request.Address), "error", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	response.PhysicalAddress = paddr
	response.PageFaultCount = task.PageFaultCount
	server.SendJsonResponse(w, response)
}

func PageFaultHandler(w http.ResponseWriter, r *http.Request) {
	var request models.FaultRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		slog.Error("Invalid request", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	entry, ok := acquireTask(w, request.PID)
	if !ok {
		return
	}
	defer entry.mu.Unlock()
	task := entry.task

	task.FaultAddr = request.Address
	task.ErrorCode = request.ErrorCode
	kind, err := memory.HandlePageFault(task)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	server.SendJsonResponse(w, models.FaultResponse{
		PID:            task.PID,
		Result:         kind.String(),
		PageFaultCount: task.PageFaultCount,
	})
}

func StateHandler(w http.ResponseWriter, r *http.Request) {
	hits, misses := mmu.TLB().Counters()
	response := models.StateResponse{
		Stats:     memory.Stats(),
		Tasks:     tasks.Size(),
		TLBHits:   hits,
		TLBMisses: misses,
		TLBLoaded: mmu.TLB().Len(),
	}
	if err := memory.Halted(); err != nil {
		response.Halted = err.Error()
	}
	server.SendJsonResponse(w, response)
}

func DumpMemoryHandler(w http.ResponseWriter, r *http.Request) {
	var request models.DumpRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	textPath, imagePath, err := services.ExecuteDumpMemory(memory, dumpPath, request.IncludeZero)
	if err != nil {
		slog.Error("Error en el memory dump", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	server.SendJsonResponse(w, models.DumpResponse{Dump: textPath, Map: imagePath})
}

// FrameMapHandler devuelve el mapa de marcos y swap como PNG.
func FrameMapHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	if err := services.EncodeFrameMap(memory.Frames(), memory.SwapSlots(), w); err != nil {
		slog.Error("Error generando el mapa de marcos", "error", err)
	}
}
