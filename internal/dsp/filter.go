package dsp

import "math"

// Filter is a raised-cosine FIR lowpass filter fed one sample at a time
// through a circular memory buffer.
type Filter struct {
	coeffs []float32
	mem    []float32
	idx    int
}

// NewFilter builds a raised-cosine lowpass filter of the given order
// (2*order+1 taps) with the given normalized cutoff frequency (in
// cycles/sample) and roll-off factor alpha.
func NewFilter(order int, cutoff, alpha float32) *Filter {
	taps := order*2 + 1
	f := &Filter{
		coeffs: make([]float32, taps),
		mem:    make([]float32, taps),
	}
	for i := 0; i < taps; i++ {
		f.coeffs[i] = rcCoeff(cutoff, i, taps, 1, alpha)
	}
	return f
}

// Forward feeds a new sample into the filter's circular memory.
func (f *Filter) Forward(sample float32) {
	f.mem[f.idx] = sample
	f.idx = (f.idx + 1) % len(f.mem)
}

// Get returns the filter's current output: the convolution of the stored
// samples against the filter's coefficients.
func (f *Filter) Get() float32 {
	var result float32
	j := 0
	for i := f.idx; i < len(f.mem); i, j = i+1, j+1 {
		result += f.mem[i] * f.coeffs[j]
	}
	for i := 0; i < f.idx; i, j = i+1, j+1 {
		result += f.mem[i] * f.coeffs[j]
	}
	return result
}

func rcCoeff(cutoff float32, stageNo, taps int, osf, alpha float32) float32 {
	const norm = 2.0 / 5.0

	order := (taps - 1) / 2
	if order == stageNo {
		return norm
	}

	t := float32(math.Abs(float64(order-stageNo))) / osf

	denom := 2 * math.Pi * float64(t) * float64(cutoff)
	rc := float32(math.Sin(denom)/denom) *
		float32(math.Cos(math.Pi*float64(alpha)*float64(t))) /
		(1 - float32(math.Pow(float64(2*alpha*t), 2)))

	hamming := float32(0.42 -
		0.5*math.Cos(2*math.Pi*float64(stageNo)/float64(taps-1)) +
		0.08*math.Cos(4*math.Pi*float64(stageNo)/float64(taps-1)))

	return norm * rc * hamming
}
