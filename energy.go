package carve

import "math"

// Additive bias folded into the energy map by the protection masks.
// Protected pixels become expensive to route through, droppable pixels
// cheaper than any natural seam.
const (
	keepMaskEnergy = 1e3
	dropMaskEnergy = 1e5
)

// gradientEnergy computes the backward energy map of a grayscale buffer
// as the sum of the absolute horizontal and vertical Sobel responses.
// See https://en.wikipedia.org/wiki/Sobel_operator
func gradientEnergy(gray *Grid) *Grid {
	energy := NewGrid(gray.Width, gray.Height, 1)
	gradientInto(gray, energy, 0, gray.Width)
	return energy
}

// gradientInto fills columns [x0,x1) of dst with the Sobel gradient magnitude
// of gray, the 3×3 kernels applied in their separable form. Border samples are
// clamped, which for a 3×3 kernel is equivalent to reflecting the image about
// its edge. dst must share the gray dimensions.
func gradientInto(gray, dst *Grid, x0, x1 int) {
	w, h := gray.Width, gray.Height
	for y := 0; y < h; y++ {
		ym, yp := y-1, y+1
		if ym < 0 {
			ym = 0
		}
		if yp > h-1 {
			yp = h - 1
		}
		top := gray.Data[ym*w : ym*w+w]
		mid := gray.Data[y*w : y*w+w]
		bot := gray.Data[yp*w : yp*w+w]
		out := dst.Data[y*w : y*w+w]

		for x := x0; x < x1; x++ {
			xm, xp := x-1, x+1
			if xm < 0 {
				xm = 0
			}
			if xp > w-1 {
				xp = w - 1
			}
			gx := (top[xp] + 2*mid[xp] + bot[xp]) - (top[xm] + 2*mid[xm] + bot[xm])
			gy := (bot[xm] + 2*bot[x] + bot[xp]) - (top[xm] + 2*top[x] + top[xp])
			out[x] = math.Abs(gx) + math.Abs(gy)
		}
	}
}

// addBias adds the auxiliary bias map elementwise to the energy map.
func addBias(energy, aux *Grid) {
	for i, v := range aux.Data {
		energy.Data[i] += v
	}
}
