package raster

import (
	"image"

	"github.com/pkg/errors"
)

const (
	// Background is sample value of background pixels in binary rasters
	Background uint8 = 0
	// Foreground is canonical sample value of foreground pixels in binary rasters
	Foreground uint8 = 255
)

var (
	// ErrInvalidInput is returned when raster dimensions, channel count or buffer size are malformed
	ErrInvalidInput = errors.New("invalid raster")
	// ErrOutOfMemory is returned when scratch storage for labeling is exhausted
	ErrOutOfMemory = errors.New("out of label storage")
)

// Raster is rectangular grid of 8-bit samples with fixed number of channels.
// Samples are stored row by row, channels interleaved.
type Raster struct {
	Width    int
	Height   int
	Channels int
	Data     []uint8
}

// New allocates zeroed raster
func New(width, height, channels int) (*Raster, error) {
	if width <= 0 || height <= 0 || channels <= 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "Can't allocate raster %dx%dx%d", width, height, channels)
	}
	return &Raster{
		Width:    width,
		Height:   height,
		Channels: channels,
		Data:     make([]uint8, width*height*channels),
	}, nil
}

// NewBinary allocates single-channel raster with given dimensions.
func NewBinary(width, height int) (*Raster, error) {
	return New(width, height, 1)
}

// Validate checks buffer length and dimensions
func (r *Raster) Validate() error {
	if r == nil {
		return errors.Wrap(ErrInvalidInput, "nil raster")
	}
	if r.Width <= 0 || r.Height <= 0 || r.Channels <= 0 {
		return errors.Wrapf(ErrInvalidInput, "bad dimensions %dx%dx%d", r.Width, r.Height, r.Channels)
	}
	if len(r.Data) != r.Width*r.Height*r.Channels {
		return errors.Wrapf(ErrInvalidInput, "buffer length %d, expected %d", len(r.Data), r.Width*r.Height*r.Channels)
	}
	return nil
}

// BytesPerLine returns row stride
func (r *Raster) BytesPerLine() int {
	return r.Width * r.Channels
}

// At returns sample of channel 0 at (x, y)
func (r *Raster) At(x, y int) uint8 {
	return r.Data[y*r.BytesPerLine()+x*r.Channels]
}

// Set writes sample of channel 0 at (x, y)
func (r *Raster) Set(x, y int, v uint8) {
	r.Data[y*r.BytesPerLine()+x*r.Channels] = v
}

// FillRect sets every sample of channel 0 inside rect (clipped to raster bounds)
func (r *Raster) FillRect(rect image.Rectangle, v uint8) {
	rect = rect.Intersect(image.Rect(0, 0, r.Width, r.Height))
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r.Set(x, y, v)
		}
	}
}

// Clone returns deep copy of raster
func (r *Raster) Clone() *Raster {
	data := make([]uint8, len(r.Data))
	copy(data, r.Data)
	return &Raster{
		Width:    r.Width,
		Height:   r.Height,
		Channels: r.Channels,
		Data:     data,
	}
}

// LabelRaster is single-channel raster of component identifiers.
// 0 is background, positive values refer to components of the same frame.
type LabelRaster struct {
	Width  int
	Height int
	Labels []int
}

// NewLabelRaster allocates zeroed label raster
func NewLabelRaster(width, height int) (*LabelRaster, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "Can't allocate label raster %dx%d", width, height)
	}
	return &LabelRaster{
		Width:  width,
		Height: height,
		Labels: make([]int, width*height),
	}, nil
}

// Validate checks buffer length and dimensions
func (l *LabelRaster) Validate() error {
	if l == nil {
		return errors.Wrap(ErrInvalidInput, "nil label raster")
	}
	if l.Width <= 0 || l.Height <= 0 {
		return errors.Wrapf(ErrInvalidInput, "bad dimensions %dx%d", l.Width, l.Height)
	}
	if len(l.Labels) != l.Width*l.Height {
		return errors.Wrapf(ErrInvalidInput, "buffer length %d, expected %d", len(l.Labels), l.Width*l.Height)
	}
	return nil
}

// At returns label at (x, y)
func (l *LabelRaster) At(x, y int) int {
	return l.Labels[y*l.Width+x]
}
