package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrShortSeries = errors.New("analysis: series too short")

// MinSeriesLength is the smallest series Spectrum accepts.
const MinSeriesLength = 8

// Spectrum returns the magnitudes of the first len(series)/2+1 frequency
// bins. The mean is removed first so bin 0 only carries numerical noise.
func Spectrum(series []float64) ([]float64, error) {
	n := len(series)
	if n < MinSeriesLength {
		return nil, ErrShortSeries
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps, nil
}

// DominantPeriod finds the strongest bin above DC and converts it to a
// period in simulation time. ok is false for a flat series.
func DominantPeriod(series []float64, sampleDt float64) (period float64, ok bool, err error) {
	if sampleDt <= 0 || math.IsNaN(sampleDt) || math.IsInf(sampleDt, 0) {
		return 0, false, errors.New("analysis: sample interval must be positive")
	}
	ps, err := Spectrum(series)
	if err != nil {
		return 0, false, err
	}

	best, peak := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > peak {
			best, peak = k, ps[k]
		}
	}
	if best == 0 || peak < 1e-9 {
		return 0, false, nil
	}

	return float64(len(series)) * sampleDt / float64(best), true, nil
}
