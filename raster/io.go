package raster

import (
	"encoding/binary"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// band container format
//*******************************************

// Bands are stored in a little-endian binary container: a fixed
// 64-byte header (shape, transform, CRS, dtype, nodata) followed by
// the row-major cell payload. The fixed layout allows windowed reads
// and writes by seeking.

const band_magic uint32 = 0x44495247 // "GRID"
const band_version uint8 = 1
const header_size int64 = 64

type band_header struct {
	Magic   uint32
	Version uint8
	DType   uint8
	_       uint16
	Width   int32
	Height  int32
	OriginX float64
	OriginY float64
	XRes    float64
	YRes    float64
	EPSG    int32
	_       int32
	NoData  float64
}

func dtype_code[T DType]() uint8 {
	var value T
	switch any(value).(type) {
	case int8:
		return 1
	case int32:
		return 2
	case float32:
		return 3
	case float64:
		return 4
	}
	return 0
}

func elem_size[T DType]() int64 {
	var value T
	return int64(binary.Size(value))
}

func (self band_header) grid() Grid {
	return Grid{
		Width:   self.Width,
		Height:  self.Height,
		OriginX: self.OriginX,
		OriginY: self.OriginY,
		XRes:    self.XRes,
		YRes:    self.YRes,
		EPSG:    self.EPSG,
	}
}

func write_header[T DType](writer io.Writer, grid Grid, nodata T) error {
	header := band_header{
		Magic:   band_magic,
		Version: band_version,
		DType:   dtype_code[T](),
		Width:   grid.Width,
		Height:  grid.Height,
		OriginX: grid.OriginX,
		OriginY: grid.OriginY,
		XRes:    grid.XRes,
		YRes:    grid.YRes,
		EPSG:    grid.EPSG,
		NoData:  float64(nodata),
	}
	buffer := NewBufferWriter()
	Write(buffer, header)
	_, err := writer.Write(buffer.Bytes())
	return err
}

func read_header[T DType](reader io.Reader) (band_header, error) {
	data := make([]byte, header_size)
	if _, err := io.ReadFull(reader, data); err != nil {
		return band_header{}, errors.Wrap(err, "can't read band header")
	}
	header := Read[band_header](NewBufferReader(data))
	if header.Magic != band_magic {
		return header, errors.New("not a band file")
	}
	if header.DType != dtype_code[T]() {
		return header, errors.Errorf("band has dtype code %d, want %d", header.DType, dtype_code[T]())
	}
	return header, nil
}

//*******************************************
// whole-band io
//*******************************************

func WriteBand[T DType](band *Band[T], file string) error {
	f, err := os.Create(file)
	if err != nil {
		return errors.Wrap(err, "can't create band file")
	}
	defer f.Close()
	if err := write_header(f, band.Grid(), band.NoData()); err != nil {
		return errors.Wrap(err, "can't write band header")
	}
	if err := binary.Write(f, binary.LittleEndian, band.Data()); err != nil {
		return errors.Wrap(err, "can't write band data")
	}
	return nil
}

func ReadBand[T DType](file string) (*Band[T], error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrap(err, "can't open band file")
	}
	defer f.Close()
	header, err := read_header[T](f)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(header_size, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "can't seek to band data")
	}
	band := NewBand(header.grid(), T(header.NoData))
	if err := binary.Read(f, binary.LittleEndian, band.Data()); err != nil {
		return nil, errors.Wrap(err, "can't read band data")
	}
	return band, nil
}

//*******************************************
// windowed io
//*******************************************

// BandWriter writes a band window by window. Windows may be computed
// concurrently; physical writes are serialized on an internal mutex
// (one writer at a time per file).
type BandWriter[T DType] struct {
	file *os.File
	grid Grid
	mu   sync.Mutex
}

// CreateBand creates a band file with every cell set to nodata, ready
// for windowed writes.
func CreateBand[T DType](file string, grid Grid, nodata T) (*BandWriter[T], error) {
	f, err := os.Create(file)
	if err != nil {
		return nil, errors.Wrap(err, "can't create band file")
	}
	if err := write_header(f, grid, nodata); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "can't write band header")
	}
	row := NewArray[T](int(grid.Width))
	for i := range row {
		row[i] = nodata
	}
	for y := int32(0); y < grid.Height; y++ {
		if err := binary.Write(f, binary.LittleEndian, row); err != nil {
			f.Close()
			return nil, errors.Wrap(err, "can't initialize band data")
		}
	}
	return &BandWriter[T]{
		file: f,
		grid: grid,
	}, nil
}

func (self *BandWriter[T]) Grid() Grid {
	return self.grid
}

func (self *BandWriter[T]) WriteWindow(window Window, values Array[T]) error {
	if values.Length() != int(window.Width)*int(window.Height) {
		return errors.Errorf("window payload has %d values, want %d", values.Length(), int(window.Width)*int(window.Height))
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	size := elem_size[T]()
	for r := int32(0); r < window.Height; r++ {
		offset := header_size + (int64(window.Row+r)*int64(self.grid.Width)+int64(window.Col))*size
		if _, err := self.file.Seek(offset, io.SeekStart); err != nil {
			return errors.Wrap(err, "can't seek to window row")
		}
		row := values[int(r)*int(window.Width) : int(r+1)*int(window.Width)]
		if err := binary.Write(self.file, binary.LittleEndian, row); err != nil {
			return errors.Wrap(err, "can't write window row")
		}
	}
	return nil
}

func (self *BandWriter[T]) Close() error {
	return self.file.Close()
}

// BandReader reads band windows without loading the full payload.
type BandReader[T DType] struct {
	file   *os.File
	grid   Grid
	nodata T
}

func OpenBand[T DType](file string) (*BandReader[T], error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrap(err, "can't open band file")
	}
	header, err := read_header[T](f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &BandReader[T]{
		file:   f,
		grid:   header.grid(),
		nodata: T(header.NoData),
	}, nil
}

func (self *BandReader[T]) Grid() Grid {
	return self.grid
}

func (self *BandReader[T]) NoData() T {
	return self.nodata
}

// ReadWindow is safe for concurrent use: rows are fetched with ReadAt
// (positioned reads), so pool workers never race on a shared file
// offset.
func (self *BandReader[T]) ReadWindow(window Window) (Array[T], error) {
	values := NewArray[T](int(window.Width) * int(window.Height))
	size := elem_size[T]()
	for r := int32(0); r < window.Height; r++ {
		offset := header_size + (int64(window.Row+r)*int64(self.grid.Width)+int64(window.Col))*size
		section := io.NewSectionReader(self.file, offset, int64(window.Width)*size)
		row := values[int(r)*int(window.Width) : int(r+1)*int(window.Width)]
		if err := binary.Read(section, binary.LittleEndian, row); err != nil {
			return nil, errors.Wrap(err, "can't read window row")
		}
	}
	return values, nil
}

func (self *BandReader[T]) Close() error {
	return self.file.Close()
}
