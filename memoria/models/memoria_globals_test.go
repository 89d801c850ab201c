package models

import "testing"

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"sin marcos", func(c *Config) { c.PageableFrames = 0 }},
		{"demasiados marcos", func(c *Config) { c.PageableFrames = 1024 }},
		{"sin swap", func(c *Config) { c.SwapSlots = 0 }},
		{"swap en sector 0", func(c *Config) { c.SwapStartSector = 0 }},
		{"swap desalineado", func(c *Config) { c.SwapStartSector = 321 }},
		{"disco chico", func(c *Config) { c.DiskSectors = c.SwapStartSector }},
		{"tlb desconocida", func(c *Config) { c.TlbReplacement = "CLOCK" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			if err := config.Validate(); err == nil {
				t.Errorf("Expected error for %q, got nil", tt.name)
			}
		})
	}
}

func TestMaxPhysicalMemory(t *testing.T) {
	// 33 marcos + 1 página extra por encima de 1MB
	if got := MaxPhysicalMemory(33); got != 0x122000 {
		t.Errorf("Expected 0x122000, got 0x%x", got)
	}
}
