package services

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/sisoputnfrba/tp-osf-memoria-virtual/cpu/models"
	memoria "github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/services"
)

// TLB cachea traducciones de página por (directorio, página virtual).
// Con capacidad 0 queda desactivada: toda búsqueda es un miss y no guarda nada.
type TLB struct {
	mu        sync.Mutex
	entries   []models.TLBEntry
	capacity  int
	algorithm string // "FIFO" o "LRU"
	counter   int64  // para LRU, contador incremental
	hits      int
	misses    int
}

func NewTLB(capacity int, algorithm string) *TLB {
	if algorithm == "" {
		algorithm = models.FIFO
	}
	return &TLB{
		entries:   make([]models.TLBEntry, 0, max(capacity, 0)),
		capacity:  capacity,
		algorithm: algorithm,
	}
}

func (t *TLB) Lookup(directory uint32, vaddr uint32) (models.TLBEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	page := memoria.PageBase(vaddr)
	for i := range t.entries {
		if t.entries[i].Directory == directory && t.entries[i].Page == page {
			if t.algorithm == models.LRU {
				t.counter++
				t.entries[i].LastUsed = t.counter
			}
			t.hits++
			return t.entries[i], true
		}
	}

	t.misses++
	return models.TLBEntry{}, false
}

// Insert agrega la traducción. Si la página ya estaba cacheada se pisa; si la TLB está
// llena se reemplaza la víctima según el algoritmo.
func (t *TLB) Insert(entry models.TLBEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.capacity <= 0 {
		return
	}

	t.counter++
	entry.Page = memoria.PageBase(entry.Page)
	entry.LastUsed = t.counter

	for i := range t.entries {
		if t.entries[i].Directory == entry.Directory && t.entries[i].Page == entry.Page {
			t.entries[i] = entry
			return
		}
	}

	if len(t.entries) < t.capacity {
		t.entries = append(t.entries, entry)
		return
	}

	victimIndex := 0
	if t.algorithm == models.LRU {
		minUsage := t.entries[0].LastUsed
		for i, e := range t.entries {
			if e.LastUsed < minUsage {
				minUsage = e.LastUsed
				victimIndex = i
			}
		}
	} else {
		// FIFO: la más vieja está al principio
		copy(t.entries, t.entries[1:])
		victimIndex = len(t.entries) - 1
	}

	slog.Debug(fmt.Sprintf("TLB reemplazo: Reemplazando página 0x%08x (dir 0x%08x) por página 0x%08x (dir 0x%08x)",
		t.entries[victimIndex].Page, t.entries[victimIndex].Directory, entry.Page, entry.Directory))
	t.entries[victimIndex] = entry
}

// Invalidate descarta la traducción de la página que contiene vaddr en ese directorio.
// Lo llama memoria cada vez que desaloja un marco.
func (t *TLB) Invalidate(directory uint32, vaddr uint32) {
	t.removeWhere(func(e models.TLBEntry) bool {
		return e.Directory == directory && e.Page == memoria.PageBase(vaddr)
	})
}

func (t *TLB) removeWhere(match func(models.TLBEntry) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	filtered := t.entries[:0]
	for _, entry := range t.entries {
		if !match(entry) {
			filtered = append(filtered, entry)
		}
	}
	t.entries = filtered
}

func (t *TLB) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Counters devuelve hits y misses acumulados.
func (t *TLB) Counters() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hits, t.misses
}
