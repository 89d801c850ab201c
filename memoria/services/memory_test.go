package services

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/models"
	"github.com/sisoputnfrba/tp-osf-memoria-virtual/utils/disk"
)

const (
	imageStart  uint32 = 0x01000000
	imageStack  uint32 = 0x01100000
	imageSector uint32 = 8
	imagePages         = 8
)

type invalidation struct {
	directory uint32
	vaddr     uint32
}

type recordingTLB struct {
	invalidations []invalidation
}

func (r *recordingTLB) Invalidate(directory uint32, vaddr uint32) {
	r.invalidations = append(r.invalidations, invalidation{directory, vaddr})
}

func newTestMemory(t *testing.T, frames, slots int) (*Memory, *disk.MemDisk, *recordingTLB) {
	t.Helper()

	config := &models.Config{
		PageableFrames:  frames,
		SwapSlots:       slots,
		SwapStartSector: models.DefaultSwapStartSector,
		DiskSectors:     models.DefaultSwapStartSector + slots*models.SectorsPerPage,
		TlbReplacement:  "FIFO",
	}
	device := disk.NewMemDisk(config.DiskSectors)
	tlb := &recordingTLB{}

	memory, err := Init(config, device, tlb)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return memory, device, tlb
}

// writeImage graba en disco una imagen de pages páginas: cada página lleva el byte marker+p.
func writeImage(t *testing.T, device disk.Device, sector uint32, pages int, marker byte) {
	t.Helper()
	for p := 0; p < pages; p++ {
		page := bytes.Repeat([]byte{marker + byte(p)}, models.PageSize)
		if err := device.Write(int(sector)+p*models.SectorsPerPage, models.SectorsPerPage, page); err != nil {
			t.Fatalf("writing image: %v", err)
		}
	}
}

func newProcess(pid int, sector uint32) *models.Task {
	return &models.Task{
		PID:       pid,
		SwapLoc:   sector,
		SwapSize:  imagePages * models.SectorsPerPage,
		StartPC:   imageStart,
		UserStack: imageStack,
	}
}

func buildProcess(t *testing.T, memory *Memory, task *models.Task) {
	t.Helper()
	if err := memory.BuildAddressSpace(task); err != nil {
		t.Fatalf("BuildAddressSpace(pid %d) failed: %v", task.PID, err)
	}
}

// walk traduce vaddr sin TLB, como lo haría el hardware.
func walk(memory *Memory, directory uint32, vaddr uint32) (uint32, bool) {
	directoryEntry := memory.phys.Entry(directory, DirectoryIndex(vaddr))
	if !IsPresent(directoryEntry) {
		return 0, false
	}
	entry := memory.phys.Entry(EntryBase(directoryEntry), TableIndex(vaddr))
	if !IsPresent(entry) {
		return 0, false
	}
	return EntryBase(entry) | PageOffset(vaddr), true
}

// tryAccess simula el reintento de la instrucción: despacha faults hasta que la traducción resuelve.
func tryAccess(memory *Memory, task *models.Task, vaddr uint32) (uint32, []models.FaultKind, error) {
	var kinds []models.FaultKind
	for faults := 0; faults <= 3; faults++ {
		if paddr, ok := walk(memory, task.PageDirectory, vaddr); ok {
			return paddr, kinds, nil
		}
		task.FaultAddr = vaddr
		task.ErrorCode = models.EntryUser
		kind, err := memory.HandlePageFault(task)
		if err != nil {
			return 0, kinds, err
		}
		kinds = append(kinds, kind)
	}
	return 0, kinds, errors.New("demasiados page faults")
}

func access(t *testing.T, memory *Memory, task *models.Task, vaddr uint32) uint32 {
	t.Helper()
	paddr, _, err := tryAccess(memory, task, vaddr)
	if err != nil {
		t.Fatalf("access 0x%08x (pid %d) failed: %v", vaddr, task.PID, err)
	}
	return paddr
}

func readByte(memory *Memory, paddr uint32) byte {
	buf := make([]byte, 1)
	memory.phys.Read(paddr, buf)
	return buf[0]
}

func checkConservation(t *testing.T, memory *Memory) models.Stats {
	t.Helper()
	stats := memory.Stats()
	if stats.FreeFrames+stats.PinnedFrames+stats.EvictableFrames != stats.TotalFrames {
		t.Errorf("frame conservation broken: %+v", stats)
	}
	if stats.FreeFrames != memory.freeFrames || stats.PinnedFrames != memory.pinnedFrames {
		t.Errorf("counters (free %d, pinned %d) disagree with pool scan %+v",
			memory.freeFrames, memory.pinnedFrames, stats)
	}
	return stats
}

func TestInit_KernelDirectory(t *testing.T) {
	memory, _, _ := newTestMemory(t, 8, 4)

	if memory.KernelDirectory() != models.MemStart {
		t.Errorf("Expected kernel directory at 0x%08x, got 0x%08x", models.MemStart, memory.KernelDirectory())
	}

	stats := checkConservation(t, memory)
	if stats.PinnedFrames != 2 || stats.FreeFrames != 6 {
		t.Errorf("Expected 2 pinned and 6 free frames after init, got %+v", stats)
	}

	directoryEntry := memory.phys.Entry(memory.KernelDirectory(), 0)
	if !IsPresent(directoryEntry) || IsUser(directoryEntry) {
		t.Errorf("Kernel directory entry 0 should be present and supervisor-only: 0x%08x", directoryEntry)
	}
	video := memory.phys.Entry(EntryBase(directoryEntry), TableIndex(models.VideoAddr))
	if !IsPresent(video) || IsUser(video) {
		t.Errorf("Kernel video mapping should be present and supervisor-only: 0x%08x", video)
	}
}

func TestInit_InvalidConfig(t *testing.T) {
	config := models.DefaultConfig()
	config.PageableFrames = 0
	if _, err := Init(config, disk.NewMemDisk(config.DiskSectors), nil); err == nil {
		t.Error("Expected error for invalid config, got nil")
	}

	config = models.DefaultConfig()
	if _, err := Init(config, disk.NewMemDisk(10), nil); err == nil {
		t.Error("Expected error for a disk smaller than the swap region, got nil")
	}
}

func TestBuildAddressSpace_Thread(t *testing.T) {
	memory, _, _ := newTestMemory(t, 8, 4)
	before := memory.Stats()

	thread := &models.Task{PID: 1, IsThread: true}
	if err := memory.BuildAddressSpace(thread); err != nil {
		t.Fatalf("BuildAddressSpace failed: %v", err)
	}

	if thread.PageDirectory != memory.KernelDirectory() {
		t.Errorf("Thread should share the kernel directory, got 0x%08x", thread.PageDirectory)
	}
	if after := memory.Stats(); after != before {
		t.Errorf("Thread creation should not allocate frames: before %+v after %+v", before, after)
	}
}

func TestBuildAddressSpace_CommonMap(t *testing.T) {
	memory, _, _ := newTestMemory(t, 8, 4)
	process := newProcess(2, imageSector)
	buildProcess(t, memory, process)

	if process.PageDirectory == memory.KernelDirectory() {
		t.Fatal("Process must get its own directory")
	}
	stats := checkConservation(t, memory)
	if stats.PinnedFrames != 4 {
		t.Errorf("Expected 4 pinned frames (2 kernel + 2 process), got %d", stats.PinnedFrames)
	}

	directoryEntry := memory.phys.Entry(process.PageDirectory, 0)
	if !IsPresent(directoryEntry) || !IsUser(directoryEntry) {
		t.Fatalf("Process directory entry 0 should be present and user: 0x%08x", directoryEntry)
	}
	table := EntryBase(directoryEntry)

	maxPhysical := models.MaxPhysicalMemory(8)
	tests := []struct {
		name    string
		addr    uint32
		present bool
		user    bool
	}{
		{"memoria base", 0x00001000, true, false},
		{"fin memoria base", models.BaseMemoryEnd - models.PageSize, true, false},
		{"hueco antes de video", models.BaseMemoryEnd, false, false},
		{"video", models.VideoAddr, true, true},
		{"inicio del pool", models.MemStart, true, false},
		{"última página física", maxPhysical - models.PageSize, true, false},
		{"fuera de memoria", maxPhysical, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := memory.phys.Entry(table, TableIndex(tt.addr))
			if IsPresent(entry) != tt.present {
				t.Fatalf("present = %v, want %v (entry 0x%08x)", IsPresent(entry), tt.present, entry)
			}
			if !tt.present {
				return
			}
			if EntryBase(entry) != tt.addr {
				t.Errorf("Expected identity mapping, got base 0x%08x", EntryBase(entry))
			}
			if IsUser(entry) != tt.user {
				t.Errorf("user = %v, want %v", IsUser(entry), tt.user)
			}
		})
	}

	// El directorio del kernel no cambió
	kernelVideo := memory.phys.Entry(EntryBase(memory.phys.Entry(memory.KernelDirectory(), 0)), TableIndex(models.VideoAddr))
	if IsUser(kernelVideo) {
		t.Error("Building a process must not make the kernel video mapping user-accessible")
	}
}

func TestBuildAddressSpace_InvalidTask(t *testing.T) {
	memory, _, _ := newTestMemory(t, 8, 4)

	unaligned := newProcess(3, imageSector)
	unaligned.StartPC = imageStart + 12
	if err := memory.BuildAddressSpace(unaligned); !errors.Is(err, ErrInvalidTask) {
		t.Errorf("Expected ErrInvalidTask, got %v", err)
	}

	overlapping := newProcess(4, imageSector)
	overlapping.StartPC = 0x00200000
	if err := memory.BuildAddressSpace(overlapping); !errors.Is(err, ErrInvalidTask) {
		t.Errorf("Expected ErrInvalidTask, got %v", err)
	}

	if memory.Halted() != nil {
		t.Error("An invalid task must not halt memory")
	}
}
