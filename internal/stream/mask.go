package stream

// Mask is a per-row visibility filter for trend lines and bands. A nil Mask
// means every row is visible.
type Mask []bool

// WeightMask thresholds a component's weight against minWeight: row i is
// visible iff weight[i] >= minWeight. A length-1 weight is broadcast across
// all n rows. A nil or empty weight yields a nil mask (all visible). Any
// other length is malformed; callers must reject it first with
// ComponentParams.CheckWeight.
func WeightMask(weight []float64, minWeight float64, n int) Mask {
	if len(weight) == 0 {
		return nil
	}
	m := make(Mask, n)
	for i := range m {
		w := weight[0]
		if len(weight) > 1 {
			w = weight[i]
		}
		m[i] = w >= minWeight
	}
	return m
}

// Visible reports whether row i passes the mask.
func (m Mask) Visible(i int) bool { return m == nil || m[i] }

// Count returns the number of visible rows out of n.
func (m Mask) Count(n int) int {
	if m == nil {
		return n
	}
	c := 0
	for _, v := range m {
		if v {
			c++
		}
	}
	return c
}

// Runs returns the contiguous visible index ranges as [start, end) pairs
// over n rows. A nil mask yields a single full-range run. Bands and trend
// lines are drawn per run so masked-out gaps stay empty.
func (m Mask) Runs(n int) [][2]int {
	if m == nil {
		return [][2]int{{0, n}}
	}
	var runs [][2]int
	start := -1
	for i := 0; i < n; i++ {
		if m[i] {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, [2]int{start, i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start, n})
	}
	return runs
}
