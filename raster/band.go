package raster

import (
	. "github.com/ttpr0/go-accessibility/util"
)

type DType interface {
	int8 | int32 | float32 | float64
}

//*******************************************
// band
//*******************************************

// Band is a single-band raster over a Grid with an explicit nodata
// sentinel. Pipeline stages treat bands as immutable once written:
// every stage builds a fresh band and never mutates its inputs.
type Band[T DType] struct {
	grid   Grid
	nodata T
	data   Array[T]
}

// NewBand creates a band with every cell set to nodata.
func NewBand[T DType](grid Grid, nodata T) *Band[T] {
	data := NewArray[T](grid.CellCount())
	if nodata != 0 {
		for i := range data {
			data[i] = nodata
		}
	}
	return &Band[T]{
		grid:   grid,
		nodata: nodata,
		data:   data,
	}
}

func (self *Band[T]) Grid() Grid {
	return self.grid
}

func (self *Band[T]) NoData() T {
	return self.nodata
}

func (self *Band[T]) Get(x, y int32) T {
	return self.data[int(y)*int(self.grid.Width)+int(x)]
}

func (self *Band[T]) Set(x, y int32, value T) {
	self.data[int(y)*int(self.grid.Width)+int(x)] = value
}

func (self *Band[T]) IsNoData(x, y int32) bool {
	return self.Get(x, y) == self.nodata
}

// Data returns the row-major backing array.
func (self *Band[T]) Data() Array[T] {
	return self.data
}

// GetWindow copies the cells of a window into a fresh row-major array.
func (self *Band[T]) GetWindow(window Window) Array[T] {
	values := NewArray[T](int(window.Width) * int(window.Height))
	for r := int32(0); r < window.Height; r++ {
		src := int(window.Row+r)*int(self.grid.Width) + int(window.Col)
		dst := int(r) * int(window.Width)
		copy(values[dst:dst+int(window.Width)], self.data[src:src+int(window.Width)])
	}
	return values
}

// SetWindow writes a row-major array into the cells of a window.
func (self *Band[T]) SetWindow(window Window, values Array[T]) {
	for r := int32(0); r < window.Height; r++ {
		dst := int(window.Row+r)*int(self.grid.Width) + int(window.Col)
		src := int(r) * int(window.Width)
		copy(self.data[dst:dst+int(window.Width)], values[src:src+int(window.Width)])
	}
}

// ReadWindow implements WindowSource.
func (self *Band[T]) ReadWindow(window Window) (Array[T], error) {
	return self.GetWindow(window), nil
}

// WriteWindow implements WindowSink. Concurrent writes to disjoint
// windows are safe.
func (self *Band[T]) WriteWindow(window Window, values Array[T]) error {
	self.SetWindow(window, values)
	return nil
}
