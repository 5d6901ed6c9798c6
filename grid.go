package carve

import (
	"github.com/pkg/errors"
)

// Validation errors returned by the public entry points. All of them are
// caller-input failures reported before any pixel is touched.
var (
	ErrInvalidShape  = errors.New("carve: invalid buffer shape")
	ErrInvalidConfig = errors.New("carve: invalid configuration")
)

// Perceptual luminance weights applied when collapsing color samples
// into a single channel.
const (
	lumR = 0.2125
	lumG = 0.7154
	lumB = 0.0721
)

// Grid is a dense H×W×C sample buffer stored in row-major order.
// A single channel Grid doubles as a grayscale image, an energy map
// or an additive bias map.
type Grid struct {
	Width    int
	Height   int
	Channels int
	Data     []float64
}

// NewGrid allocates a zero filled buffer of the given dimensions.
func NewGrid(width, height, channels int) *Grid {
	return &Grid{
		Width:    width,
		Height:   height,
		Channels: channels,
		Data:     make([]float64, width*height*channels),
	}
}

// At returns the sample at column x, row y and channel ch.
func (g *Grid) At(x, y, ch int) float64 {
	return g.Data[(y*g.Width+x)*g.Channels+ch]
}

// Set stores the sample at column x, row y and channel ch.
func (g *Grid) Set(x, y, ch int, v float64) {
	g.Data[(y*g.Width+x)*g.Channels+ch] = v
}

// Row returns the backing slice of row y, all channels interleaved.
func (g *Grid) Row(y int) []float64 {
	start := y * g.Width * g.Channels
	return g.Data[start : start+g.Width*g.Channels]
}

// Clone returns a deep copy of the buffer.
func (g *Grid) Clone() *Grid {
	dst := NewGrid(g.Width, g.Height, g.Channels)
	copy(dst.Data, g.Data)
	return dst
}

// Transpose swaps the buffer axes, turning rows into columns.
// It is used to express vertical seams through the horizontal seam logic.
func (g *Grid) Transpose() *Grid {
	dst := NewGrid(g.Height, g.Width, g.Channels)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			si := (y*g.Width + x) * g.Channels
			di := (x*g.Height + y) * g.Channels
			copy(dst.Data[di:di+g.Channels], g.Data[si:si+g.Channels])
		}
	}
	return dst
}

// Gray collapses the buffer to a single luminance channel. Buffers which
// already hold one channel are returned as is, so the result must be treated
// as read-only whenever the source still matters.
func (g *Grid) Gray() *Grid {
	if g.Channels == 1 {
		return g
	}
	dst := NewGrid(g.Width, g.Height, 1)
	n := g.Width * g.Height
	if g.Channels >= 3 {
		for i := 0; i < n; i++ {
			s := i * g.Channels
			dst.Data[i] = lumR*g.Data[s] + lumG*g.Data[s+1] + lumB*g.Data[s+2]
		}
		return dst
	}
	for i := 0; i < n; i++ {
		s := i * g.Channels
		var sum float64
		for ch := 0; ch < g.Channels; ch++ {
			sum += g.Data[s+ch]
		}
		dst.Data[i] = sum / float64(g.Channels)
	}
	return dst
}

// validate reports whether the buffer dimensions are coherent.
func (g *Grid) validate() error {
	if g == nil {
		return errors.Wrap(ErrInvalidShape, "source buffer is nil")
	}
	if g.Width < 1 || g.Height < 1 || g.Channels < 1 {
		return errors.Wrapf(ErrInvalidShape, "expected a non-empty buffer, got %dx%dx%d", g.Width, g.Height, g.Channels)
	}
	if len(g.Data) != g.Width*g.Height*g.Channels {
		return errors.Wrapf(ErrInvalidShape, "buffer length %d does not match %dx%dx%d", len(g.Data), g.Width, g.Height, g.Channels)
	}
	return nil
}

// Mask is a H×W boolean buffer annotating a Grid of the same size.
type Mask struct {
	Width  int
	Height int
	Data   []bool
}

// NewMask allocates an all-false mask of the given dimensions.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Data:   make([]bool, width*height),
	}
}

// At returns the flag at column x, row y.
func (m *Mask) At(x, y int) bool {
	return m.Data[y*m.Width+x]
}

// Set stores the flag at column x, row y.
func (m *Mask) Set(x, y int, v bool) {
	m.Data[y*m.Width+x] = v
}

// Transpose swaps the mask axes.
func (m *Mask) Transpose() *Mask {
	dst := NewMask(m.Height, m.Width)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			dst.Data[x*m.Height+y] = m.Data[y*m.Width+x]
		}
	}
	return dst
}

// checkMask ensures the mask annotates a width×height buffer.
func checkMask(m *Mask, width, height int) error {
	if m.Width != width || m.Height != height {
		return errors.Wrapf(ErrInvalidShape, "expected the mask shape to match the image, got %dx%d vs %dx%d",
			m.Width, m.Height, width, height)
	}
	if len(m.Data) != m.Width*m.Height {
		return errors.Wrapf(ErrInvalidShape, "mask length %d does not match %dx%d", len(m.Data), m.Width, m.Height)
	}
	return nil
}

// Seam holds one column index per row. Consecutive entries differ by
// at most one, forming a connected top-to-bottom path.
type Seam []int
