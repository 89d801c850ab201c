package services

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/models"
)

func TestDumpPhysical(t *testing.T) {
	phys := NewPhysicalMemory(2 * models.PageSize)
	phys.WriteWord(8, 0xcafebabe)
	phys.WriteWord(models.PageSize+4, 0x00000001)

	var out bytes.Buffer
	if err := DumpPhysical(phys, &out, 0, 2*models.PageSize, false); err != nil {
		t.Fatalf("DumpPhysical failed: %v", err)
	}

	expected := strings.Join([]string{
		"========================== PAGINA 00 ==========================",
		"0002 - Dirección: 0x00000008 ~~~~~ Valor: 0xcafebabe",
		"========================== PAGINA 01 ==========================",
		"0001 - Dirección: 0x00001004 ~~~~~ Valor: 0x00000001",
		"",
	}, "\n")
	if out.String() != expected {
		t.Errorf("Unexpected dump:\n%s\nwant:\n%s", out.String(), expected)
	}
}

func TestDumpPhysical_IncludeZero(t *testing.T) {
	phys := NewPhysicalMemory(models.PageSize)

	var out bytes.Buffer
	// end más allá del tamaño se recorta
	if err := DumpPhysical(phys, &out, 0, 4*models.PageSize, true); err != nil {
		t.Fatalf("DumpPhysical failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1+models.PageEntries {
		t.Errorf("Expected header plus %d words, got %d lines", models.PageEntries, len(lines))
	}
}

func TestGetDumpName(t *testing.T) {
	now := time.Date(2025, 6, 1, 13, 4, 5, 123000000, time.UTC)
	if got := GetDumpName(now); got != "memoria-20250601-130405.123" {
		t.Errorf("Unexpected dump name %q", got)
	}
}

func TestExecuteDumpMemory(t *testing.T) {
	memory, device, _ := newTestMemory(t, 8, 4)
	writeImage(t, device, imageSector, imagePages, 0x20)
	process := newProcess(2, imageSector)
	buildProcess(t, memory, process)
	access(t, memory, process, imageStart)

	dir := t.TempDir()
	textPath, imagePath, err := ExecuteDumpMemory(memory, filepath.Join(dir, "dumps"), false)
	if err != nil {
		t.Fatalf("ExecuteDumpMemory failed: %v", err)
	}

	content, err := os.ReadFile(textPath)
	if err != nil {
		t.Fatalf("reading dump: %v", err)
	}
	if !strings.Contains(string(content), "Valor: 0x20202020") {
		t.Error("Expected the loaded code page in the dump")
	}
	pages := int((models.MaxPhysicalMemory(8) - models.MemStart) / models.PageSize)
	if got := strings.Count(string(content), "PAGINA"); got != pages {
		t.Errorf("Expected %d page headers, got %d", pages, got)
	}

	file, err := os.Open(imagePath)
	if err != nil {
		t.Fatalf("opening frame map: %v", err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("frame map is not a valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 2*mapMargin+cellColumns*cellSize {
		t.Errorf("Unexpected frame map width %d", img.Bounds().Dx())
	}
}

func TestEncodeFrameMap(t *testing.T) {
	frames := []models.Frame{{Free: true}, {Pinned: true}, {Age: 3}}
	slots := []models.SwapSlot{{Free: true}, {}}

	var out bytes.Buffer
	if err := EncodeFrameMap(frames, slots, &out); err != nil {
		t.Fatalf("EncodeFrameMap failed: %v", err)
	}
	if _, err := png.Decode(&out); err != nil {
		t.Errorf("Expected a decodable PNG: %v", err)
	}
}
