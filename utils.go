package priosched

import (
	"fmt"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Ttick is one unit of simulated time.
type Ttick int

func (t Ttick) String() string {
	return fmt.Sprintf("%dT", int(t))
}

type Number interface {
	constraints.Integer | constraints.Float
}

func toFloats[T Number](list []T) []float64 {
	out := make([]float64, len(list))
	for i, val := range list {
		out[i] = float64(val)
	}
	return out
}

func avg[T Number](list []T) float64 {
	if len(list) == 0 {
		return 0
	}
	return stat.Mean(toFloats(list), nil)
}

func stdDev[T Number](list []T) float64 {
	if len(list) < 2 {
		return 0
	}
	return stat.PopStdDev(toFloats(list), nil)
}

func maxOf[T Number](list []T) float64 {
	if len(list) == 0 {
		return 0
	}
	return floats.Max(toFloats(list))
}
