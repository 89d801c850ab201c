package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/models"
	"github.com/sisoputnfrba/tp-osf-memoria-virtual/utils/config"
)

func TestUpdateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memoria.json")
	initial := `{"port_memory": 8002, "pageable_frames": 33, "tlb_replacement": "FIFO"}`
	if err := os.WriteFile(path, []byte(initial), 0644); err != nil {
		t.Fatal(err)
	}

	updates := parseUpdates([]string{"pageable_frames", "64", "tlb_replacement", "LRU", "ip_cpu", "127.0.0.1"})
	changed, err := updateConfigFile(path, updates)
	if err != nil {
		t.Fatalf("updateConfigFile failed: %v", err)
	}
	if !reflect.DeepEqual(changed, []string{"pageable_frames", "tlb_replacement"}) {
		t.Errorf("Unexpected changed keys %v", changed)
	}

	var loaded *models.Config
	config.InitConfig(path, &loaded)
	if loaded.PageableFrames != 64 || loaded.TlbReplacement != "LRU" || loaded.PortMemory != 8002 {
		t.Errorf("Unexpected config after update: %+v", loaded)
	}
}

func TestUpdateConfigFile_NoMatchingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memoria.json")
	if err := os.WriteFile(path, []byte(`{"port_memory": 8002}`), 0644); err != nil {
		t.Fatal(err)
	}

	changed, err := updateConfigFile(path, parseUpdates([]string{"ip_kernel", "10.0.0.1"}))
	if err != nil || changed != nil {
		t.Errorf("Expected no changes, got %v (%v)", changed, err)
	}
}
