package services

import (
	"testing"

	"github.com/sisoputnfrba/tp-osf-memoria-virtual/cpu/models"
)

const (
	dirA uint32 = 0x00100000
	dirB uint32 = 0x00101000
)

func entry(directory, page, frame uint32) models.TLBEntry {
	return models.TLBEntry{Directory: directory, Page: page, Frame: frame, User: true, Writable: true}
}

func TestTLB_LookupIsTaggedByDirectory(t *testing.T) {
	tlb := NewTLB(4, models.FIFO)
	tlb.Insert(entry(dirA, 0x01000000, 0x00105000))

	got, ok := tlb.Lookup(dirA, 0x01000abc)
	if !ok || got.Frame != 0x00105000 {
		t.Fatalf("Expected hit for dirA, got %+v (ok %v)", got, ok)
	}
	if _, ok := tlb.Lookup(dirB, 0x01000abc); ok {
		t.Error("Expected miss for another directory with the same page")
	}

	hits, misses := tlb.Counters()
	if hits != 1 || misses != 1 {
		t.Errorf("Expected 1 hit and 1 miss, got %d and %d", hits, misses)
	}
}

func TestTLB_FIFOReplacement(t *testing.T) {
	tlb := NewTLB(2, models.FIFO)
	tlb.Insert(entry(dirA, 0x1000, 0xa000))
	tlb.Insert(entry(dirA, 0x2000, 0xb000))
	tlb.Lookup(dirA, 0x1000)
	tlb.Insert(entry(dirA, 0x3000, 0xc000))

	if _, ok := tlb.Lookup(dirA, 0x1000); ok {
		t.Error("FIFO should evict the first loaded entry even if it was used")
	}
	for _, page := range []uint32{0x2000, 0x3000} {
		if _, ok := tlb.Lookup(dirA, page); !ok {
			t.Errorf("Expected page 0x%x cached", page)
		}
	}
}

func TestTLB_LRUReplacement(t *testing.T) {
	tlb := NewTLB(2, models.LRU)
	tlb.Insert(entry(dirA, 0x1000, 0xa000))
	tlb.Insert(entry(dirA, 0x2000, 0xb000))
	tlb.Lookup(dirA, 0x1000)
	tlb.Insert(entry(dirA, 0x3000, 0xc000))

	if _, ok := tlb.Lookup(dirA, 0x2000); ok {
		t.Error("LRU should evict the least recently used entry")
	}
	if _, ok := tlb.Lookup(dirA, 0x1000); !ok {
		t.Error("Expected recently used page to stay cached")
	}
}

func TestTLB_InsertOverwritesSamePage(t *testing.T) {
	tlb := NewTLB(2, models.FIFO)
	tlb.Insert(entry(dirA, 0x1000, 0xa000))
	tlb.Insert(entry(dirA, 0x1000, 0xf000))

	if tlb.Len() != 1 {
		t.Fatalf("Expected 1 entry, got %d", tlb.Len())
	}
	if got, _ := tlb.Lookup(dirA, 0x1000); got.Frame != 0xf000 {
		t.Errorf("Expected updated frame 0xf000, got 0x%x", got.Frame)
	}
}

func TestTLB_Invalidate(t *testing.T) {
	tlb := NewTLB(4, models.FIFO)
	tlb.Insert(entry(dirA, 0x1000, 0xa000))
	tlb.Insert(entry(dirB, 0x1000, 0xb000))
	tlb.Insert(entry(dirA, 0x2000, 0xc000))

	tlb.Invalidate(dirA, 0x1234)
	if _, ok := tlb.Lookup(dirA, 0x1000); ok {
		t.Error("Expected invalidated page to miss")
	}
	if _, ok := tlb.Lookup(dirB, 0x1000); !ok {
		t.Error("Invalidation must not touch other directories")
	}

	if tlb.Len() != 2 {
		t.Errorf("Expected 2 entries after the invalidation, got %d", tlb.Len())
	}
}

func TestTLB_Disabled(t *testing.T) {
	tlb := NewTLB(0, "")
	tlb.Insert(entry(dirA, 0x1000, 0xa000))

	if _, ok := tlb.Lookup(dirA, 0x1000); ok {
		t.Error("A disabled TLB must always miss")
	}
	if tlb.Len() != 0 {
		t.Errorf("A disabled TLB must stay empty, got %d entries", tlb.Len())
	}
}
