package models

// TaskRequest describe el task a crear. PageDirectory lo completa memoria.
type TaskRequest struct {
	PID       int    `json:"pid"`
	IsThread  bool   `json:"is_thread"`
	SwapLoc   uint32 `json:"swap_loc"`
	SwapSize  uint32 `json:"swap_size"`
	StartPC   uint32 `json:"start_pc"`
	UserStack uint32 `json:"user_stack"`
}

// AccessRequest simula un acceso de la CPU a una dirección virtual del task.
// En escritura se usa Data; en lectura Size. Kernel en true hace el acceso en modo supervisor.
type AccessRequest struct {
	PID     int    `json:"pid"`
	Address uint32 `json:"address"`
	Size    int    `json:"size"`
	Write   bool   `json:"write"`
	Data    []byte `json:"data"`
	Kernel  bool   `json:"kernel"`
}

type AccessResponse struct {
	PID             int    `json:"pid"`
	Address         uint32 `json:"address"`
	PhysicalAddress uint32 `json:"physical_address"`
	Data            []byte `json:"data,omitempty"`
	PageFaultCount  int    `json:"page_fault_count"`
}

// FaultRequest despacha un page fault tal como lo reportaría el hardware.
type FaultRequest struct {
	PID       int    `json:"pid"`
	Address   uint32 `json:"address"`
	ErrorCode uint32 `json:"error_code"`
}

type FaultResponse struct {
	PID            int    `json:"pid"`
	Result         string `json:"result"`
	PageFaultCount int    `json:"page_fault_count"`
}

type StateResponse struct {
	Stats     Stats  `json:"stats"`
	Tasks     int    `json:"tasks"`
	TLBHits   int    `json:"tlb_hits"`
	TLBMisses int    `json:"tlb_misses"`
	TLBLoaded int    `json:"tlb_loaded"`
	Halted    string `json:"halted,omitempty"`
}

type DumpRequest struct {
	IncludeZero bool `json:"include_zero"`
}

type DumpResponse struct {
	Dump string `json:"dump"`
	Map  string `json:"map"`
}
