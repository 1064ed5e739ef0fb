package raster

import (
	"sync"

	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// windows
//*******************************************

// Window is a rectangular sub-region of a grid, used for
// bounded-memory tile-by-tile processing.
type Window struct {
	Col    int32
	Row    int32
	Width  int32
	Height int32
}

// BlockWindows tiles a grid into row-major windows of at most
// block_width x block_height cells. Edge windows are clipped.
func BlockWindows(grid Grid, block_width, block_height int32) List[Window] {
	windows := NewList[Window](16)
	for row := int32(0); row < grid.Height; row += block_height {
		height := block_height
		if row+height > grid.Height {
			height = grid.Height - row
		}
		for col := int32(0); col < grid.Width; col += block_width {
			width := block_width
			if col+width > grid.Width {
				width = grid.Width - col
			}
			windows.Add(Window{Col: col, Row: row, Width: width, Height: height})
		}
	}
	return windows
}

// WindowSource reads raster cells window by window; implemented by
// in-memory bands and by file-backed band readers.
type WindowSource[T DType] interface {
	Grid() Grid
	NoData() T
	ReadWindow(window Window) (Array[T], error)
}

// WindowSink receives computed windows; implemented by in-memory
// bands and by file-backed band writers.
type WindowSink[T DType] interface {
	Grid() Grid
	WriteWindow(window Window, values Array[T]) error
}

// RunWindows feeds windows through a fixed worker pool over a bounded
// queue. Tasks are independent per window; the first error stops no
// other task but is returned once all workers drain.
func RunWindows(windows List[Window], workers int, task func(Window) error) error {
	if workers < 1 {
		workers = 1
	}
	queue := make(chan Window, workers)
	wg := sync.WaitGroup{}
	mu := sync.Mutex{}
	var first_err error
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for window := range queue {
				if err := task(window); err != nil {
					mu.Lock()
					if first_err == nil {
						first_err = err
					}
					mu.Unlock()
				}
			}
		}()
	}
	for _, window := range windows {
		queue <- window
	}
	close(queue)
	wg.Wait()
	return first_err
}
