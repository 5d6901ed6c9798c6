package carve

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// backwardSeam finds the minimum total cost top-to-bottom seam of the energy
// map using the classic row-wise dynamic program. Running costs carry an
// infinite sentinel on both ends so the inner loop needs no bounds checks;
// ties between predecessors resolve to the leftmost column.
func backwardSeam(energy *Grid) Seam {
	w, h := energy.Width, energy.Height
	cost := make([]float64, w+2)
	next := make([]float64, w+2)
	cost[0], cost[w+1] = math.Inf(1), math.Inf(1)
	next[0], next[w+1] = math.Inf(1), math.Inf(1)
	copy(cost[1:w+1], energy.Row(0))

	parent := make([]int32, h*w)
	for r := 1; r < h; r++ {
		row := energy.Row(r)
		for c := 0; c < w; c++ {
			min, from := cost[c], c-1
			if cost[c+1] < min {
				min, from = cost[c+1], c
			}
			if cost[c+2] < min {
				min, from = cost[c+2], c+1
			}
			parent[r*w+c] = int32(from)
			next[c+1] = min + row[c]
		}
		cost, next = next, cost
	}

	return backtrack(cost[1:w+1], parent, w, h)
}

// forwardSeam finds the minimum cost seam under the forward energy model:
// the cost of removing a pixel is the intensity discontinuity the removal
// introduces between its former neighbors, so the three predecessor choices
// carry different penalties. The first and last columns are replicated to
// keep the central differences defined at the borders. A nil aux skips the
// bias term.
func forwardSeam(gray, aux *Grid) Seam {
	w, h := gray.Width, gray.Height
	cost := make([]float64, w+2)
	next := make([]float64, w+2)
	cost[0], cost[w+1] = math.Inf(1), math.Inf(1)
	next[0], next[w+1] = math.Inf(1), math.Inf(1)

	row := gray.Row(0)
	for c := 0; c < w; c++ {
		cost[c+1] = math.Abs(row[clampIdx(c+1, w)] - row[clampIdx(c-1, w)])
	}

	parent := make([]int32, h*w)
	for r := 1; r < h; r++ {
		cur := gray.Row(r)
		prev := gray.Row(r - 1)
		var bias []float64
		if aux != nil {
			bias = aux.Row(r)
		}
		for c := 0; c < w; c++ {
			left := cur[clampIdx(c-1, w)]
			right := cur[clampIdx(c+1, w)]
			above := prev[c]

			mid := math.Abs(right - left)
			if bias != nil {
				mid += bias[c]
			}

			min, from := cost[c]+mid+math.Abs(above-left), c-1
			if v := cost[c+1] + mid; v < min {
				min, from = v, c
			}
			if v := cost[c+2] + mid + math.Abs(above-right); v < min {
				min, from = v, c+1
			}
			parent[r*w+c] = int32(from)
			next[c+1] = min
		}
		cost, next = next, cost
	}

	return backtrack(cost[1:w+1], parent, w, h)
}

// backtrack recovers the seam path from the bottom-row costs and the
// recorded predecessor table. floats.MinIdx returns the first minimum,
// keeping the leftmost-seam determinism of the search.
func backtrack(bottom []float64, parent []int32, w, h int) Seam {
	seam := make(Seam, h)
	c := floats.MinIdx(bottom)
	for r := h - 1; r >= 0; r-- {
		seam[r] = c
		if r > 0 {
			c = int(parent[r*w+c])
		}
	}
	return seam
}

// clampIdx clamps a column index into [0,w).
func clampIdx(c, w int) int {
	if c < 0 {
		return 0
	}
	if c > w-1 {
		return w - 1
	}
	return c
}
