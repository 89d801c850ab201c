package list

import (
	"fmt"
	"sync"
)

// List es la interfaz mínima que usan los registros de tareas de memoria.
type List[T any] interface {
	Add(item T)                                 // Agrega un elemento al final
	Find(predicate func(T) bool) (T, int, bool) // Busca el primer elemento que cumple el predicado
	Get(index int) (T, error)                   // Devuelve el elemento en el índice dado
	GetAll() []T                                // Copia de todos los elementos
	RemoveWhere(match func(T) bool) int         // Elimina los elementos que cumplen el predicado
	Size() int                                  // Cantidad de elementos
}

// ArrayList implementa List sobre un slice protegido por un RWMutex.
type ArrayList[T any] struct {
	mu    sync.RWMutex
	items []T
}

// Add inserta un elemento al final de la lista.
//
// Ejemplo:
//
//	tasks := &list.ArrayList[*models.Task]{}
//	tasks.Add(&models.Task{PID: 1})
func (list *ArrayList[T]) Add(item T) {
	list.mu.Lock()
	defer list.mu.Unlock()

	list.items = append(list.items, item)
}

// Find devuelve el primer elemento que cumple el predicado, su índice y si fue encontrado.
// Si no hay coincidencias retorna el valor "cero" de T, -1 y false.
func (list *ArrayList[T]) Find(predicate func(T) bool) (T, int, bool) {
	list.mu.RLock()
	defer list.mu.RUnlock()

	for i, item := range list.items {
		if predicate(item) {
			return item, i, true
		}
	}

	var zero T
	return zero, -1, false
}

// Get obtiene el elemento en el índice dado.
func (list *ArrayList[T]) Get(index int) (T, error) {
	list.mu.RLock()
	defer list.mu.RUnlock()

	if index < 0 || index >= len(list.items) {
		var zero T
		return zero, fmt.Errorf("index out of range: %d", index)
	}
	return list.items[index], nil
}

// GetAll retorna una copia de los elementos, para poder recorrerlos sin mantener el lock.
func (list *ArrayList[T]) GetAll() []T {
	list.mu.RLock()
	defer list.mu.RUnlock()

	items := make([]T, len(list.items))
	copy(items, list.items)
	return items
}

// RemoveWhere elimina todos los elementos que cumplen el predicado y retorna cuántos eliminó.
func (list *ArrayList[T]) RemoveWhere(match func(T) bool) int {
	list.mu.Lock()
	defer list.mu.Unlock()

	kept := list.items[:0]
	removed := 0
	for _, item := range list.items {
		if match(item) {
			removed++
			continue
		}
		kept = append(kept, item)
	}

	// Limpiamos la cola del slice para no retener referencias
	var zero T
	for i := len(kept); i < len(list.items); i++ {
		list.items[i] = zero
	}
	list.items = kept
	return removed
}

// Size retorna la cantidad de elementos de la lista.
func (list *ArrayList[T]) Size() int {
	list.mu.RLock()
	defer list.mu.RUnlock()

	return len(list.items)
}
