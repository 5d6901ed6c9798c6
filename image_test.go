package carve

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImage_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	img := image.NewNRGBA(image.Rect(0, 0, 5, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 40), uint8(y * 50), uint8(x + y), 0xff})
		}
	}

	g := FromImage(img)
	assert.Equal(5, g.Width)
	assert.Equal(4, g.Height)
	assert.Equal(3, g.Channels)
	assert.Equal(80.0, g.At(2, 0, 0))
	assert.Equal(150.0, g.At(0, 3, 1))
	assert.Equal(7.0, g.At(4, 3, 2))

	out := g.ToNRGBA()
	assert.Equal(img.Pix, out.Pix)
}

func TestImage_ToNRGBAClampsSamples(t *testing.T) {
	assert := assert.New(t)

	g := NewGrid(2, 1, 3)
	g.Data = []float64{-12, 300, 127.6, 0, 255, 64}

	out := g.ToNRGBA()
	assert.Equal([]uint8{0, 255, 128, 0xff, 0, 255, 64, 0xff}, out.Pix)
}

func TestImage_SingleChannelRendersGray(t *testing.T) {
	assert := assert.New(t)

	g := NewGrid(2, 1, 1)
	g.Data = []float64{10, 200}

	out := g.ToNRGBA()
	assert.Equal([]uint8{10, 10, 10, 0xff, 200, 200, 200, 0xff}, out.Pix)
}

func TestImage_GrayFromImage(t *testing.T) {
	assert := assert.New(t)

	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 0xff})
	img.SetNRGBA(1, 0, color.NRGBA{255, 255, 255, 0xff})

	g := GrayFromImage(img)
	assert.Equal(1, g.Channels)
	assert.Equal(0.0, g.At(0, 0, 0))
	assert.InDelta(255.0, g.At(1, 0, 0), 1e-9)
}

func TestImage_MaskFromImageThresholdsLuminance(t *testing.T) {
	assert := assert.New(t)

	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 0xff})
	img.SetNRGBA(1, 0, color.NRGBA{255, 255, 255, 0xff})
	img.SetNRGBA(2, 0, color.NRGBA{127, 127, 127, 0xff})

	m := MaskFromImage(img)
	assert.False(m.At(0, 0))
	assert.True(m.At(1, 0))
	assert.False(m.At(2, 0))
}

func TestImage_NonZeroMinBounds(t *testing.T) {
	assert := assert.New(t)

	img := image.NewNRGBA(image.Rect(2, 3, 6, 6))
	img.SetNRGBA(2, 3, color.NRGBA{42, 0, 0, 0xff})

	g := FromImage(img)
	assert.Equal(4, g.Width)
	assert.Equal(3, g.Height)
	assert.Equal(42.0, g.At(0, 0, 0))
}

func TestImage_YCbCrSource(t *testing.T) {
	assert := assert.New(t)

	img := image.NewYCbCr(image.Rect(0, 0, 4, 2), image.YCbCrSubsampleRatio444)
	for i := range img.Y {
		img.Y[i] = 128
		img.Cb[i] = 128
		img.Cr[i] = 128
	}

	g := FromImage(img)
	assert.Equal(4, g.Width)
	assert.Equal(2, g.Height)
	// Neutral chroma keeps the pixel gray.
	assert.Equal(g.At(0, 0, 0), g.At(0, 0, 1))
	assert.Equal(g.At(0, 0, 1), g.At(0, 0, 2))
}
