package carve

import (
	"image"
	"image/color"
)

// FromImage converts any image type to a three channel Grid with samples in
// the 0-255 range, dropping the alpha channel.
func FromImage(img image.Image) *Grid {
	src := imgToNRGBA(img)
	dx, dy := src.Bounds().Dx(), src.Bounds().Dy()
	dst := NewGrid(dx, dy, 3)

	for y := 0; y < dy; y++ {
		si := src.PixOffset(0, y)
		di := y * dx * 3
		for x := 0; x < dx; x++ {
			dst.Data[di+0] = float64(src.Pix[si+0])
			dst.Data[di+1] = float64(src.Pix[si+1])
			dst.Data[di+2] = float64(src.Pix[si+2])
			si += 4
			di += 3
		}
	}
	return dst
}

// GrayFromImage converts any image type to a single channel Grid of
// luminance samples in the 0-255 range.
func GrayFromImage(img image.Image) *Grid {
	return FromImage(img).Gray()
}

// ToNRGBA renders the buffer into a fully opaque NRGBA image, clamping and
// rounding every sample to the 0-255 range. Single channel buffers map to
// gray pixels, buffers with three or more channels to RGB.
func (g *Grid) ToNRGBA() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		di := dst.PixOffset(0, y)
		for x := 0; x < g.Width; x++ {
			var r, gr, b uint8
			if g.Channels >= 3 {
				r = clampU8(g.At(x, y, 0))
				gr = clampU8(g.At(x, y, 1))
				b = clampU8(g.At(x, y, 2))
			} else {
				r = clampU8(g.At(x, y, 0))
				gr, b = r, r
			}
			dst.Pix[di+0] = r
			dst.Pix[di+1] = gr
			dst.Pix[di+2] = b
			dst.Pix[di+3] = 0xff
			di += 4
		}
	}
	return dst
}

// MaskFromImage binarizes an image into a Mask: pixels whose luminance
// exceeds half the value range are considered marked.
func MaskFromImage(img image.Image) *Mask {
	src := imgToNRGBA(img)
	dx, dy := src.Bounds().Dx(), src.Bounds().Dy()
	dst := NewMask(dx, dy)

	for y := 0; y < dy; y++ {
		si := src.PixOffset(0, y)
		for x := 0; x < dx; x++ {
			lum := lumR*float64(src.Pix[si+0]) + lumG*float64(src.Pix[si+1]) + lumB*float64(src.Pix[si+2])
			dst.Data[y*dx+x] = lum > 127
			si += 4
		}
	}
	return dst
}

func clampU8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// imgToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
func imgToNRGBA(img image.Image) *image.NRGBA {
	srcBounds := img.Bounds()
	if srcBounds.Min.X == 0 && srcBounds.Min.Y == 0 {
		if src0, ok := img.(*image.NRGBA); ok {
			return src0
		}
	}
	srcMinX := srcBounds.Min.X
	srcMinY := srcBounds.Min.Y

	dstBounds := srcBounds.Sub(srcBounds.Min)
	dstW := dstBounds.Dx()
	dstH := dstBounds.Dy()
	dst := image.NewNRGBA(dstBounds)

	switch src := img.(type) {
	case *image.NRGBA:
		rowSize := srcBounds.Dx() * 4
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			si := src.PixOffset(srcMinX, srcMinY+dstY)
			copy(dst.Pix[di:di+rowSize], src.Pix[si:si+rowSize])
		}
	case *image.YCbCr:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				srcX := srcMinX + dstX
				srcY := srcMinY + dstY
				siy := src.YOffset(srcX, srcY)
				sic := src.COffset(srcX, srcY)
				r, g, b := color.YCbCrToRGB(src.Y[siy], src.Cb[sic], src.Cr[sic])
				dst.Pix[di+0] = r
				dst.Pix[di+1] = g
				dst.Pix[di+2] = b
				dst.Pix[di+3] = 0xff
				di += 4
			}
		}
	default:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				c := color.NRGBAModel.Convert(img.At(srcMinX+dstX, srcMinY+dstY)).(color.NRGBA)
				dst.Pix[di+0] = c.R
				dst.Pix[di+1] = c.G
				dst.Pix[di+2] = c.B
				dst.Pix[di+3] = c.A
				di += 4
			}
		}
	}
	return dst
}
