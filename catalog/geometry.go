package catalog

import (
	"math"
	"time"

	"github.com/signalsfoundry/stationctl/model"
)

// Site is a geographic observatory location. Longitude is east-positive
// degrees.
type Site struct {
	Name         string
	LatitudeDeg  float64
	LongitudeDeg float64
}

// Separation pairs a calibrator with its angular distance from a target.
type Separation struct {
	Source  *Source
	Degrees float64
}

// Elevation pairs a calibrator with its elevation above the horizon.
type Elevation struct {
	Source  *Source
	Degrees float64
}

// Separations returns the angular distance between every calibrator and the
// given J2000 pointing, in catalog order.
func (c *Catalog) Separations(target model.Pointing) []Separation {
	sources := c.List()
	out := make([]Separation, 0, len(sources))
	for _, s := range sources {
		out = append(out, Separation{
			Source:  s,
			Degrees: angularSeparationDeg(target.RA*180/math.Pi, target.Dec*180/math.Pi, s.RADeg, s.DecDeg),
		})
	}
	return out
}

// Closest returns the calibrator with the smallest angular distance from
// the target, or nil for an empty catalog.
func (c *Catalog) Closest(target model.Pointing) *Separation {
	var best *Separation
	for _, sep := range c.Separations(target) {
		sep := sep
		if best == nil || sep.Degrees < best.Degrees {
			best = &sep
		}
	}
	return best
}

// Elevations returns every calibrator's elevation at the site and UTC time,
// in catalog order. Sources below the horizon come back negative.
func (c *Catalog) Elevations(site Site, t time.Time) []Elevation {
	sources := c.List()
	out := make([]Elevation, 0, len(sources))
	lst := localSiderealDeg(site.LongitudeDeg, t)
	for _, s := range sources {
		out = append(out, Elevation{
			Source:  s,
			Degrees: elevationDeg(site.LatitudeDeg, s.DecDeg, lst-s.RADeg),
		})
	}
	return out
}

// angularSeparationDeg computes the great-circle distance between two
// (ra, dec) pairs using the haversine form, which stays accurate for small
// separations.
func angularSeparationDeg(ra1, dec1, ra2, dec2 float64) float64 {
	const degToRad = math.Pi / 180

	dRA := (ra2 - ra1) * degToRad
	dDec := (dec2 - dec1) * degToRad
	d1 := dec1 * degToRad
	d2 := dec2 * degToRad

	sinDec := math.Sin(dDec / 2)
	sinRA := math.Sin(dRA / 2)
	h := sinDec*sinDec + math.Cos(d1)*math.Cos(d2)*sinRA*sinRA
	if h > 1 {
		h = 1
	}
	return 2 * math.Asin(math.Sqrt(h)) / degToRad
}

// localSiderealDeg returns the local sidereal time in degrees for an
// east-positive longitude at a UTC instant, via the standard GMST
// polynomial referenced to J2000.
func localSiderealDeg(lonEastDeg float64, t time.Time) float64 {
	j2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	days := t.UTC().Sub(j2000).Hours() / 24

	gmst := 280.46061837 + 360.98564736629*days
	lst := math.Mod(gmst+lonEastDeg, 360)
	if lst < 0 {
		lst += 360
	}
	return lst
}

// elevationDeg solves the standard altitude equation for a source at the
// given hour angle (degrees).
func elevationDeg(latDeg, decDeg, hourAngleDeg float64) float64 {
	const degToRad = math.Pi / 180

	lat := latDeg * degToRad
	dec := decDeg * degToRad
	ha := hourAngleDeg * degToRad

	sinAlt := math.Sin(lat)*math.Sin(dec) + math.Cos(lat)*math.Cos(dec)*math.Cos(ha)
	if sinAlt > 1 {
		sinAlt = 1
	} else if sinAlt < -1 {
		sinAlt = -1
	}
	return math.Asin(sinAlt) / degToRad
}
