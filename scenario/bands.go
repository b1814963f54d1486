package scenario

import "math"

// ISOBands are the nominal 1/3-octave centre frequencies from 20 Hz to 20 kHz
var ISOBands = []float64{
	20, 25, 31.5, 40, 50, 63, 80, 100, 125, 160, 200, 250, 315, 400, 500, 630,
	800, 1000, 1250, 1600, 2000, 2500, 3150, 4000, 5000, 6300, 8000, 10000, 12500, 16000, 20000,
}

// NearestBand returns the index and centre of the band closest to freq.
// Ties go to the lower band.
func NearestBand(freq float64) (int, float64) {
	best := 0
	for i, band := range ISOBands {
		if math.Abs(band-freq) < math.Abs(ISOBands[best]-freq) {
			best = i
		}
	}
	return best, ISOBands[best]
}

// BandsBetween returns the bands within [lo, hi]
func BandsBetween(lo, hi float64) []float64 {
	var out []float64
	for _, band := range ISOBands {
		if band >= lo && band <= hi {
			out = append(out, band)
		}
	}
	return out
}

// BandDistance counts the bands between the bands nearest to a and b
func BandDistance(a, b float64) int {
	ia, _ := NearestBand(a)
	ib, _ := NearestBand(b)
	if ia > ib {
		return ia - ib
	}
	return ib - ia
}
