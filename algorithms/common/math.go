package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical and level-conversion helpers shared by the analyser and
// the detection engine. Statistics go through gonum.

// PopMeanStdDev returns the mean and population standard deviation.
// The variance is clamped at zero before the square root.
func PopMeanStdDev(data []float64) (mean, std float64) {
	if len(data) == 0 {
		return 0.0, 0.0
	}
	mean, variance := stat.PopMeanVariance(data, nil)
	return mean, math.Sqrt(math.Max(0, variance))
}

// MaxIndex returns the index of the largest element, lowest index on ties.
// It returns -1 for an empty slice.
func MaxIndex(data []float64) int {
	if len(data) == 0 {
		return -1
	}
	return floats.MaxIdx(data)
}

// DBToLinear converts a decibel magnitude to linear amplitude (10^(db/20)).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts a linear amplitude to decibels, flooring at floorDB.
func LinearToDB(amplitude, floorDB float64) float64 {
	if amplitude <= 0 {
		return floorDB
	}
	db := 20 * math.Log10(amplitude)
	if db < floorDB {
		return floorDB
	}
	return db
}

// DBSliceToLinear converts every element of db into dst, which must have the same length.
func DBSliceToLinear(dst, db []float64) {
	for i, v := range db {
		dst[i] = DBToLinear(v)
	}
}

// NormalizeDB maps db into [0, 1] over [minDB, maxDB], clamping outside values.
func NormalizeDB(db, minDB, maxDB float64) float64 {
	if maxDB <= minDB {
		return 0.0
	}
	return (Clamp(db, minDB, maxDB) - minDB) / (maxDB - minDB)
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Lerp performs linear interpolation between two values
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// IsPowerOfTwo checks if n is a power of 2
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
