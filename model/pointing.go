package model

import "math"

// CoordinateSystem tags how a pointing's (ra, dec)-like pair must be
// interpreted by the downstream beam executor. The station does not
// transform between systems; the tag is passed through verbatim.
type CoordinateSystem string

const (
	CoordJ2000   CoordinateSystem = "J2000"
	CoordAzElGeo CoordinateSystem = "AZELGEO"
)

var knownCoordinateSystems = []CoordinateSystem{
	CoordJ2000,
	CoordAzElGeo,
}

// Known reports whether c names a defined coordinate system.
func (c CoordinateSystem) Known() bool {
	for _, k := range knownCoordinateSystems {
		if c == k {
			return true
		}
	}
	return false
}

// Pointing is a sky direction in radians. RA doubles as azimuth and Dec as
// elevation when the coordinate system is AZELGEO.
type Pointing struct {
	RA  float64
	Dec float64
}

// PointingFromDegrees converts a degree-valued (ra, dec) pair to radians.
func PointingFromDegrees(raDeg, decDeg float64) Pointing {
	return Pointing{
		RA:  raDeg * math.Pi / 180,
		Dec: decDeg * math.Pi / 180,
	}
}
