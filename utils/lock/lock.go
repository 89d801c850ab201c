// Package lock provee las dos primitivas de exclusión mutua que usa memoria:
// un lock bloqueante con cola FIFO y un spinlock que cede el procesador.
package lock

import "sync"

// Lock es un lock bloqueante estilo monitor: si está tomado, el llamador queda suspendido
// en una cola FIFO y al liberar se le pasa la posesión directamente al primero de la cola.
// No usar en el camino de page faults.
type Lock struct {
	mu      sync.Mutex
	locked  bool
	waiters []chan struct{}
}

// Acquire toma el lock o suspende al llamador hasta que se lo cedan.
func (l *Lock) Acquire() {
	l.mu.Lock()
	if !l.locked {
		l.locked = true
		l.mu.Unlock()
		return
	}

	wake := make(chan struct{})
	l.waiters = append(l.waiters, wake)
	l.mu.Unlock()

	// Al despertar ya somos dueños del lock: Release no lo marca libre
	<-wake
}

// Release libera el lock, o se lo cede al primer task en espera.
func (l *Lock) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.locked {
		panic("lock: release de un lock libre")
	}

	if len(l.waiters) == 0 {
		l.locked = false
		return
	}

	next := l.waiters[0]
	l.waiters[0] = nil
	l.waiters = l.waiters[1:]
	close(next)
}

// waiting retorna cuántos tasks están suspendidos esperando el lock.
func (l *Lock) waiting() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.waiters)
}
