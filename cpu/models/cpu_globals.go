package models

import "errors"

// TLBEntry es una traducción cacheada. Se etiqueta con el directorio de páginas para que
// dos espacios de direcciones no compartan entradas.
type TLBEntry struct {
	Directory uint32 // directorio de páginas del espacio de direcciones
	Page      uint32 // dirección virtual base de la página
	Frame     uint32 // dirección física base del marco
	User      bool
	Writable  bool
	LastUsed  int64 //contador para LRU
}

// MaxFaultsPerAccess acota los reintentos de un acceso: tabla, página y un margen.
const MaxFaultsPerAccess = 3

const (
	FIFO = "FIFO"
	LRU  = "LRU"
)

// DEFINICION DE ERRORES
var ErrTooManyFaults = errors.New("el acceso no se resolvió tras varios page faults")
var ErrInvalidAddress = errors.New("invalid address")
