// Package mathx holds the small numeric helpers shared by the scorers.
package mathx

import (
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Round rounds x half away from zero to the given number of decimal places.
// Going through decimal avoids binary artefacts such as 15.200000000000001.
func Round(x float64, places int32) float64 {
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

// Mean is the arithmetic mean of xs; 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
