package features

import "math"

// Series helpers over float64 slices. Unset values are NaN; any window
// containing a NaN produces NaN, so warmup propagates through derived
// columns until the frame drops those rows.

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func diff(v []float64) []float64 {
	out := nanSlice(len(v))
	for i := 1; i < len(v); i++ {
		out[i] = v[i] - v[i-1]
	}
	return out
}

func pctChange(v []float64) []float64 {
	out := nanSlice(len(v))
	for i := 1; i < len(v); i++ {
		if v[i-1] == 0 {
			continue
		}
		out[i] = v[i]/v[i-1] - 1
	}
	return out
}

func rollingMean(v []float64, window int) []float64 {
	out := nanSlice(len(v))
	for i := window - 1; i < len(v); i++ {
		sum := 0.0
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(v[j]) {
				ok = false
				break
			}
			sum += v[j]
		}
		if ok {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// rollingStd is the sample standard deviation (denominator window-1).
func rollingStd(v []float64, window int) []float64 {
	out := nanSlice(len(v))
	if window < 2 {
		return out
	}
	for i := window - 1; i < len(v); i++ {
		sum := 0.0
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(v[j]) {
				ok = false
				break
			}
			sum += v[j]
		}
		if !ok {
			continue
		}
		mean := sum / float64(window)
		ss := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := v[j] - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(window-1))
	}
	return out
}

func rollingMin(v []float64, window int) []float64 {
	out := nanSlice(len(v))
	for i := window - 1; i < len(v); i++ {
		m := math.Inf(1)
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(v[j]) {
				ok = false
				break
			}
			if v[j] < m {
				m = v[j]
			}
		}
		if ok {
			out[i] = m
		}
	}
	return out
}

func rollingMax(v []float64, window int) []float64 {
	out := nanSlice(len(v))
	for i := window - 1; i < len(v); i++ {
		m := math.Inf(-1)
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(v[j]) {
				ok = false
				break
			}
			if v[j] > m {
				m = v[j]
			}
		}
		if ok {
			out[i] = m
		}
	}
	return out
}

// ewm is an exponentially weighted mean with span-derived alpha and
// growing weights during warmup, matching the usual ewm(span=n) behavior.
// Leading NaNs are skipped; the mean starts at the first real value.
func ewm(v []float64, span int) []float64 {
	out := nanSlice(len(v))
	alpha := 2.0 / (float64(span) + 1.0)
	decay := 1.0 - alpha

	num, den := 0.0, 0.0
	started := false
	for i, x := range v {
		if math.IsNaN(x) {
			if started {
				num *= decay
				den *= decay
				out[i] = num / den
			}
			continue
		}
		num = num*decay + x
		den = den*decay + 1
		started = true
		out[i] = num / den
	}
	return out
}
