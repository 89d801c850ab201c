package lock

import (
	"runtime"
	"sync/atomic"
)

// Spinlock es un lock de retención corta. En vez de encolar al llamador cede el procesador
// (runtime.Gosched) entre intentos, así que no depende del estado del planificador y se
// puede usar dentro del manejo de un page fault. Solo para secciones críticas cortas.
type Spinlock struct {
	state atomic.Int32
}

const (
	unlocked int32 = 0
	locked   int32 = 1
)

// Acquire reintenta hasta tomar el lock, cediendo entre intentos.
func (s *Spinlock) Acquire() {
	for !s.state.CompareAndSwap(unlocked, locked) {
		runtime.Gosched()
	}
}

// Release libera el lock. Liberar un spinlock libre es un error de programación.
func (s *Spinlock) Release() {
	if !s.state.CompareAndSwap(locked, unlocked) {
		panic("spinlock: release de un lock libre")
	}
}
