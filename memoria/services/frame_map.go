package services

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/fogleman/gg"

	"github.com/sisoputnfrba/tp-osf-memoria-virtual/memoria/models"
)

const (
	cellSize    = 24
	cellColumns = 16
	mapMargin   = 12
	labelHeight = 20
)

// DrawFrameMap dibuja una grilla con el estado de cada marco y de cada slot de swap:
// gris libre, rojo pinneado, verde desalojable (más oscuro cuanto más edad), azul swap en uso.
func DrawFrameMap(frames []models.Frame, slots []models.SwapSlot) image.Image {
	frameRows := (len(frames) + cellColumns - 1) / cellColumns
	slotRows := (len(slots) + cellColumns - 1) / cellColumns

	width := 2*mapMargin + cellColumns*cellSize
	height := 2*mapMargin + 2*labelHeight + (frameRows+slotRows)*cellSize + mapMargin

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	maxAge := uint32(1)
	for _, frame := range frames {
		maxAge = max(maxAge, frame.Age)
	}

	y := float64(mapMargin)
	dc.SetRGB(0, 0, 0)
	dc.DrawString(fmt.Sprintf("Marcos (%d)", len(frames)), mapMargin, y+labelHeight-6)
	y += labelHeight

	for i, frame := range frames {
		switch {
		case frame.Free:
			dc.SetRGB(0.8, 0.8, 0.8)
		case frame.Pinned:
			dc.SetRGB(0.85, 0.2, 0.2)
		default:
			shade := 0.9 - 0.6*float64(frame.Age)/float64(maxAge)
			dc.SetRGB(0.1, shade, 0.2)
		}
		drawCell(dc, i, y)
	}
	y += float64(frameRows*cellSize + mapMargin)

	dc.SetRGB(0, 0, 0)
	dc.DrawString(fmt.Sprintf("Swap (%d)", len(slots)), mapMargin, y+labelHeight-6)
	y += labelHeight

	for i, slot := range slots {
		if slot.Free {
			dc.SetRGB(0.8, 0.8, 0.8)
		} else {
			dc.SetRGB(0.2, 0.3, 0.85)
		}
		drawCell(dc, i, y)
	}

	return dc.Image()
}

func drawCell(dc *gg.Context, index int, top float64) {
	x := float64(mapMargin + (index%cellColumns)*cellSize)
	y := top + float64((index/cellColumns)*cellSize)
	dc.DrawRectangle(x+1, y+1, cellSize-2, cellSize-2)
	dc.Fill()
}

// SaveFrameMap guarda el mapa de marcos como PNG.
func SaveFrameMap(frames []models.Frame, slots []models.SwapSlot, path string) error {
	if err := gg.SavePNG(path, DrawFrameMap(frames, slots)); err != nil {
		return fmt.Errorf("no se pudo guardar el mapa de marcos: %w", err)
	}
	return nil
}

// EncodeFrameMap escribe el mapa de marcos como PNG en writer.
func EncodeFrameMap(frames []models.Frame, slots []models.SwapSlot, writer io.Writer) error {
	return png.Encode(writer, DrawFrameMap(frames, slots))
}
