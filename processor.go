package carve

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// EnergyMode selects the cost model driving the seam search.
type EnergyMode string

const (
	// EnergyBackward scores a seam by the gradient magnitude of the pixels
	// it removes, ignoring post-removal effects.
	EnergyBackward EnergyMode = "backward"
	// EnergyForward scores a seam by the intensity discontinuities its
	// removal introduces between the surviving neighbors.
	EnergyForward EnergyMode = "forward"
)

// Order selects which axis is resolved first when both change.
type Order string

const (
	WidthFirst  Order = "width-first"
	HeightFirst Order = "height-first"
)

// DefaultStepRatio caps how much of the current width a single expansion
// round may insert. Larger targets are reached over multiple rounds so each
// inserted seam stays meaningfully distinct.
const DefaultStepRatio = 0.5

// SeamCarver is an interface the Carver uses to implement the Resize
// function. It takes the source buffer as parameter and returns the
// resized buffer.
type SeamCarver interface {
	Resize(*Grid) (*Grid, error)
}

var _ SeamCarver = (*Processor)(nil)

// Resize implements the Resize method of the SeamCarver interface.
func Resize(s SeamCarver, src *Grid) (*Grid, error) {
	return s.Resize(src)
}

// Processor options. The zero value resizes nothing: a target size is
// requested by setting both NewWidth and NewHeight, an object removal by
// setting DropMask. Empty EnergyMode and Order default to the backward
// model and width-first resolution; a zero StepRatio defaults to
// DefaultStepRatio.
type Processor struct {
	NewWidth   int
	NewHeight  int
	EnergyMode EnergyMode
	Order      Order
	StepRatio  float64

	// KeepMask biases the seam search away from the marked region;
	// DropMask forces the marked region out of the image before any
	// size-targeted resize. When EnergyThreshold is set, both masks must
	// match the pruned shape.
	KeepMask *Mask
	DropMask *Mask

	// EnergyMap overrides the gradient computation with a caller-supplied
	// H×W energy buffer. The buffer is copied on entry and the copy is
	// carved in lockstep with the image, so the caller's buffer is never
	// aliased. Implies StaticEnergy.
	EnergyMap *Grid

	// StaticEnergy computes the energy once and never refreshes it while
	// seams are carved. Faster but approximate, and incompatible with the
	// forward model.
	StaticEnergy bool

	// EnergyThreshold deletes whole rows and columns whose mean energy
	// falls below the threshold before any seam logic runs. Values <= 0
	// disable the pre-pass.
	EnergyThreshold float64

	// Visualize makes ResizeAdvanced return an overlay buffer
	// highlighting every seam used during the operation.
	Visualize bool
}

// Resize rescales the source buffer to the configured target size using the
// content-aware seam carving algorithm, removing any DropMask region first.
func (p *Processor) Resize(src *Grid) (*Grid, error) {
	dst, _, err := p.run(src)
	return dst, err
}

// ResizeAdvanced behaves like Resize and additionally returns the seam
// overlay when Visualize is set, nil otherwise.
func (p *Processor) ResizeAdvanced(src *Grid) (*Grid, *Grid, error) {
	return p.run(src)
}

// RemoveObject removes the region marked by dropMask from the source image,
// routing seams around the optional keepMask region whenever possible.
//
// Deprecated: set DropMask on a Processor and call Resize instead.
func RemoveObject(src *Grid, dropMask, keepMask *Mask) (*Grid, error) {
	if dropMask == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "a drop mask is required to remove an object")
	}
	p := &Processor{
		DropMask: dropMask,
		KeepMask: keepMask,
	}
	return p.Resize(src)
}

func (p *Processor) run(src *Grid) (*Grid, *Grid, error) {
	if err := src.validate(); err != nil {
		return nil, nil, err
	}

	mode := p.EnergyMode
	if mode == "" {
		mode = EnergyBackward
	}
	if mode != EnergyBackward && mode != EnergyForward {
		return nil, nil, errors.Wrapf(ErrInvalidConfig, "expected the energy mode to be one of %q or %q, got %q",
			EnergyBackward, EnergyForward, mode)
	}

	order := p.Order
	if order == "" {
		order = WidthFirst
	}
	if order != WidthFirst && order != HeightFirst {
		return nil, nil, errors.Wrapf(ErrInvalidConfig, "expected the order to be one of %q or %q, got %q",
			WidthFirst, HeightFirst, order)
	}

	step := p.StepRatio
	if step == 0 {
		step = DefaultStepRatio
	}
	if step < 0 || step > 1 {
		return nil, nil, errors.Wrapf(ErrInvalidConfig, "expected the step ratio to be in (0,1], got %v", step)
	}

	static := p.StaticEnergy || p.EnergyMap != nil
	if mode == EnergyForward && static {
		return nil, nil, errors.Wrap(ErrInvalidConfig,
			"the forward energy model requires recomputation after every removed seam")
	}

	hasSize := p.NewWidth != 0 || p.NewHeight != 0
	if hasSize && (p.NewWidth <= 0 || p.NewHeight <= 0) {
		return nil, nil, errors.Wrapf(ErrInvalidConfig, "expected the target size to be positive, got %dx%d",
			p.NewWidth, p.NewHeight)
	}

	var emap *Grid
	if p.EnergyMap != nil {
		if err := p.EnergyMap.validate(); err != nil {
			return nil, nil, err
		}
		if p.EnergyMap.Width != src.Width || p.EnergyMap.Height != src.Height || p.EnergyMap.Channels != 1 {
			return nil, nil, errors.Wrapf(ErrInvalidShape, "expected a %dx%d single channel energy map, got %dx%dx%d",
				src.Width, src.Height, p.EnergyMap.Width, p.EnergyMap.Height, p.EnergyMap.Channels)
		}
		emap = p.EnergyMap.Clone()
	}

	cur := src
	if p.EnergyThreshold > 0 {
		base := emap
		if base == nil {
			base = gradientEnergy(cur.Gray())
		}
		pruned, prunedMap, err := pruneLowEnergy(cur, base, p.EnergyThreshold)
		if err != nil {
			return nil, nil, err
		}
		cur = pruned
		if emap != nil {
			emap = prunedMap
		}
	}

	var aux *Grid
	if p.KeepMask != nil {
		if err := checkMask(p.KeepMask, cur.Width, cur.Height); err != nil {
			return nil, nil, err
		}
		aux = NewGrid(cur.Width, cur.Height, 1)
		for i, marked := range p.KeepMask.Data {
			if marked {
				aux.Data[i] += keepMaskEnergy
			}
		}
	}
	if p.DropMask != nil {
		if err := checkMask(p.DropMask, cur.Width, cur.Height); err != nil {
			return nil, nil, err
		}
		if aux == nil {
			aux = NewGrid(cur.Width, cur.Height, 1)
		}
		for i, marked := range p.DropMask.Data {
			if marked {
				aux.Data[i] -= dropMaskEnergy
			}
		}
	}

	st := &carveState{
		mode:   mode,
		static: static,
		step:   step,
		aux:    aux,
		emap:   emap,
		dump:   p.Visualize,
	}

	if p.DropMask != nil {
		cur = st.eraseObject(cur, order)
	}

	if hasSize {
		if order == WidthFirst {
			cur = st.resizeWidth(cur, p.NewWidth)
			cur = st.resizeHeight(cur, p.NewHeight)
		} else {
			cur = st.resizeHeight(cur, p.NewHeight)
			cur = st.resizeWidth(cur, p.NewWidth)
		}
	}

	// The engine never returns the caller's buffer.
	if cur == src {
		cur = src.Clone()
	}

	var overlay *Grid
	if p.Visualize {
		overlay = overlaySeams(st.masks, cur.Width, cur.Height)
	}
	return cur, overlay, nil
}

// carveState carries the mutable side buffers of a single resize call
// through the orchestration steps, keeping them in lockstep with the image.
type carveState struct {
	mode   EnergyMode
	static bool
	step   float64
	aux    *Grid
	emap   *Grid

	dump       bool
	transposed bool
	masks      []*Mask
}

// extract runs one seam batch over the current image. A true dynamic forces
// gradient energy with per-seam recomputation regardless of the static
// configuration; the object-erase loop needs that, since a static map never
// reflects the drop bias.
func (st *carveState) extract(src *Grid, num int, dynamic bool) *Mask {
	gray := src.Gray()
	var c *Carver
	if dynamic {
		c = NewCarver(gray, st.aux, st.mode, nil, false)
	} else {
		c = NewCarver(gray, st.aux, st.mode, st.emap, st.static)
	}
	seams := c.ExtractSeams(num)
	if st.dump {
		if st.transposed {
			st.masks = append(st.masks, seams.Transpose())
		} else {
			st.masks = append(st.masks, seams)
		}
	}
	return seams
}

// reduceWidth removes delta seams in a single batch, carving the side
// buffers with the same selection mask.
func (st *carveState) reduceWidth(src *Grid, delta int, dynamic bool) *Grid {
	if delta == 0 {
		return src
	}
	seams := st.extract(src, delta, dynamic)
	dst := removeSeams(src, seams, delta)
	if st.aux != nil {
		st.aux = removeSeams(st.aux, seams, delta)
	}
	if st.emap != nil {
		st.emap = removeSeams(st.emap, seams, delta)
	}
	return dst
}

// expandWidth inserts delta seams over one or more rounds, each bounded by
// the step ratio of the current width.
func (st *carveState) expandWidth(src *Grid, delta int) *Grid {
	dst := src
	for delta > 0 {
		maxStep := int(math.Round(st.step * float64(dst.Width)))
		if maxStep < 1 {
			maxStep = 1
		}
		num := maxStep
		if delta < num {
			num = delta
		}
		seams := st.extract(dst, num, false)
		dst = insertSeams(dst, seams, num)
		if st.aux != nil {
			st.aux = insertSeams(st.aux, seams, num)
		}
		if st.emap != nil {
			st.emap = insertSeams(st.emap, seams, num)
		}
		delta -= num
	}
	return dst
}

func (st *carveState) resizeWidth(src *Grid, width int) *Grid {
	switch {
	case src.Width > width:
		return st.reduceWidth(src, src.Width-width, false)
	case src.Width < width:
		return st.expandWidth(src, width-src.Width)
	}
	return src
}

// resizeHeight reuses the width logic on the transposed buffers.
func (st *carveState) resizeHeight(src *Grid, height int) *Grid {
	src = st.transpose(src)
	st.transposed = true
	src = st.resizeWidth(src, height)
	st.transposed = false
	return st.transpose(src)
}

// eraseObject carves seams through the negatively biased region until no
// droppable pixel remains. Each batch removes the maximum per-row count of
// remaining drop pixels, an upper bound guaranteeing progress.
func (st *carveState) eraseObject(src *Grid, order Order) *Grid {
	if order == HeightFirst {
		src = st.transpose(src)
		st.transposed = true
	}
	for num := maxDropPerRow(st.aux); num > 0; num = maxDropPerRow(st.aux) {
		src = st.reduceWidth(src, num, true)
	}
	if order == HeightFirst {
		st.transposed = false
		src = st.transpose(src)
	}
	return src
}

// transpose flips the image together with the side buffers.
func (st *carveState) transpose(src *Grid) *Grid {
	if st.aux != nil {
		st.aux = st.aux.Transpose()
	}
	if st.emap != nil {
		st.emap = st.emap.Transpose()
	}
	return src.Transpose()
}

// maxDropPerRow returns the largest per-row count of negatively biased
// pixels in the aux map.
func maxDropPerRow(aux *Grid) int {
	var max int
	for y := 0; y < aux.Height; y++ {
		var n int
		for _, v := range aux.Row(y) {
			if v < 0 {
				n++
			}
		}
		if n > max {
			max = n
		}
	}
	return max
}

// pruneLowEnergy deletes every row and column of the image whose mean
// energy falls below the threshold, compacting the energy map the same way.
func pruneLowEnergy(src, energy *Grid, threshold float64) (*Grid, *Grid, error) {
	w, h := src.Width, src.Height

	keepRows := make([]bool, h)
	var numRows int
	for y := 0; y < h; y++ {
		if stat.Mean(energy.Row(y), nil) >= threshold {
			keepRows[y] = true
			numRows++
		}
	}

	colSums := make([]float64, w)
	for y := 0; y < h; y++ {
		floats.Add(colSums, energy.Row(y))
	}
	keepCols := make([]bool, w)
	var numCols int
	for x := 0; x < w; x++ {
		if colSums[x]/float64(h) >= threshold {
			keepCols[x] = true
			numCols++
		}
	}

	if numRows == 0 || numCols == 0 {
		return nil, nil, errors.Wrapf(ErrInvalidConfig, "energy threshold %v prunes the whole image", threshold)
	}
	if numRows == h && numCols == w {
		return src, energy, nil
	}

	dst := NewGrid(numCols, numRows, src.Channels)
	dstMap := NewGrid(numCols, numRows, 1)
	row := 0
	for y := 0; y < h; y++ {
		if !keepRows[y] {
			continue
		}
		in := src.Row(y)
		out := dst.Row(row)
		inMap := energy.Row(y)
		outMap := dstMap.Row(row)
		cur := 0
		for x := 0; x < w; x++ {
			if !keepCols[x] {
				continue
			}
			copy(out[cur*src.Channels:(cur+1)*src.Channels], in[x*src.Channels:(x+1)*src.Channels])
			outMap[cur] = inMap[x]
			cur++
		}
		row++
	}
	return dst, dstMap, nil
}

// overlaySeams accumulates every seam mask used during an operation into a
// single RGB buffer of the final shape, marking carved pixels in red. Masks
// recorded at a different working size are clipped to the overlap.
func overlaySeams(masks []*Mask, width, height int) *Grid {
	vis := NewGrid(width, height, 3)
	for _, m := range masks {
		mw, mh := m.Width, m.Height
		if mw > width {
			mw = width
		}
		if mh > height {
			mh = height
		}
		for y := 0; y < mh; y++ {
			for x := 0; x < mw; x++ {
				if m.At(x, y) {
					vis.Set(x, y, 0, 255)
					vis.Set(x, y, 1, 0)
					vis.Set(x, y, 2, 0)
				}
			}
		}
	}
	return vis
}
