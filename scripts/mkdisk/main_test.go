package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sisoputnfrba/tp-osf-memoria-virtual/utils/disk"
)

func TestWriteAt(t *testing.T) {
	device := disk.NewMemDisk(16)
	content := bytes.Repeat([]byte{0x7f}, disk.SectorSize+10)

	count, err := writeAt(device, 3, content)
	if err != nil {
		t.Fatalf("writeAt failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 sectors, got %d", count)
	}

	buf := make([]byte, 2*disk.SectorSize)
	if err := device.Read(3, 2, buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf[:len(content)], content) {
		t.Error("Expected the content at sector 3")
	}
	if !bytes.Equal(buf[len(content):], make([]byte, len(buf)-len(content))) {
		t.Error("Expected zero padding in the last sector")
	}
}

func TestWriteAt_OutOfRange(t *testing.T) {
	device := disk.NewMemDisk(2)
	_, err := writeAt(device, 1, make([]byte, 3*disk.SectorSize))
	if !errors.Is(err, disk.ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange, got %v", err)
	}
}
