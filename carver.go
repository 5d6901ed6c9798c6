package carve

// Carver extracts a batch of disjoint seams from a shrinking working copy of
// the image, translating every seam back to the coordinate space of the
// original buffer through an index map. All working buffers are owned
// exclusively by the Carver and discarded when the batch completes.
type Carver struct {
	Width  int
	Height int

	mode   EnergyMode
	static bool
	gray   *Grid
	aux    *Grid
	energy *Grid
	idx    []int32
	curW   int
	seams  *Mask
}

// NewCarver prepares a seam batch over the grayscale buffer. aux is an
// optional additive bias map carved in lockstep. A non-nil energyMap is used
// verbatim instead of the gradient and implies the static path; otherwise
// static selects between the one-shot and the incrementally maintained
// gradient energy. The forward model with a static energy is rejected by the
// Processor before a Carver is ever built.
func NewCarver(gray, aux *Grid, mode EnergyMode, energyMap *Grid, static bool) *Carver {
	c := &Carver{
		Width:  gray.Width,
		Height: gray.Height,
		mode:   mode,
		gray:   gray,
		aux:    aux,
		curW:   gray.Width,
		seams:  NewMask(gray.Width, gray.Height),
	}

	c.idx = make([]int32, c.Width*c.Height)
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			c.idx[y*c.Width+x] = int32(x)
		}
	}

	switch {
	case energyMap != nil:
		c.static = true
		c.energy = energyMap.Clone()
	case mode == EnergyForward:
		// The forward search recomputes its costs from the grayscale
		// buffer every round, no energy is cached.
	default:
		c.static = static
		c.energy = gradientEnergy(gray)
		if aux != nil {
			addBias(c.energy, aux)
		}
	}
	return c
}

// ExtractSeams removes num seams one at a time from the working buffers and
// returns the selection mask over the original image, num marks per row.
// The caller guarantees num is smaller than the working width.
func (c *Carver) ExtractSeams(num int) *Mask {
	for i := 0; i < num; i++ {
		var seam Seam
		if c.energy != nil {
			seam = backwardSeam(c.energy)
		} else {
			seam = forwardSeam(c.gray, c.aux)
		}

		for r := 0; r < c.Height; r++ {
			c.seams.Set(int(c.idx[r*c.curW+seam[r]]), r, true)
		}
		c.idx = removeIndexSeam(c.idx, c.curW, seam)

		if c.static {
			c.energy = removeSeam(c.energy, seam)
		} else {
			c.gray = removeSeam(c.gray, seam)
			if c.aux != nil {
				c.aux = removeSeam(c.aux, seam)
			}
			if c.energy != nil {
				c.energy = c.updateEnergy(seam)
			}
		}
		c.curW--
	}
	return c.seams
}

// updateEnergy rebuilds the cached energy map after a single seam removal.
// Gradient values outside the seam's column range are unaffected by the
// removal, so only the window [min(seam)-1, max(seam)+1) is recomputed from
// the carved grayscale buffer; columns left of it are copied and columns
// right of it shift by one. The result is identical to a full recomputation.
func (c *Carver) updateEnergy(seam Seam) *Grid {
	oldW := c.energy.Width
	newW := oldW - 1

	lo, hi := seam[0], seam[0]
	for _, s := range seam[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	lo--
	if lo < 0 {
		lo = 0
	}
	hi++
	if hi > newW {
		hi = newW
	}

	next := NewGrid(newW, c.Height, 1)
	for y := 0; y < c.Height; y++ {
		in := c.energy.Row(y)
		out := next.Row(y)
		copy(out[:lo], in[:lo])
		copy(out[hi:], in[hi+1:])
	}
	gradientInto(c.gray, next, lo, hi)
	if c.aux != nil {
		for y := 0; y < c.Height; y++ {
			bias := c.aux.Row(y)
			out := next.Row(y)
			for x := lo; x < hi; x++ {
				out[x] += bias[x]
			}
		}
	}
	return next
}
