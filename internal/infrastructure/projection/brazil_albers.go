package projection

import (
	"errors"
	"fmt"
	"math"

	"github.com/Gabrielunor/coordinator-backend/internal/domain/model"
	"github.com/Gabrielunor/coordinator-backend/internal/domain/repository"
)

// SIRGAS 2000 / Brazil Albers parameters on the GRS80 ellipsoid. The false
// origin coincides with the grid's marco zero by construction.
const (
	semiMajorAxis     = 6378137.0
	inverseFlattening = 298.257222101

	centralMeridianDeg  = -54.0
	latitudeOfOriginDeg = -12.0
	firstParallelDeg    = -2.0
	secondParallelDeg   = -22.0
	falseEasting        = 5000000.0
	falseNorthing       = 10000000.0
)

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi

	// convergenceTol bounds the latitude iteration of the inverse mapping.
	convergenceTol = 1.0e-7
	maxIterations  = 25
	poleBandTol    = 1.0e-10
)

// brazilAlbersProjector implements the equal-area conic mapping between
// SIRGAS 2000 geographic coordinates and the planar grid CRS. The cone
// constant is negative because both standard parallels sit in the southern
// hemisphere.
type brazilAlbersProjector struct {
	a       float64
	e       float64
	es      float64
	lambda0 float64
	ns0     float64
	c       float64
	rh      float64
}

// NewBrazilAlbersProjector precomputes the cone constants and returns the
// projector used by every coordinate lookup.
func NewBrazilAlbersProjector() repository.CoordinateProjector {
	f := 1.0 / inverseFlattening
	p := &brazilAlbersProjector{
		a:       semiMajorAxis,
		es:      2*f - f*f,
		lambda0: centralMeridianDeg * degToRad,
	}
	p.e = math.Sqrt(p.es)

	lat1 := firstParallelDeg * degToRad
	lat2 := secondParallelDeg * degToRad
	lat0 := latitudeOfOriginDeg * degToRad

	ms1 := p.msfnz(math.Sin(lat1), math.Cos(lat1))
	ms2 := p.msfnz(math.Sin(lat2), math.Cos(lat2))
	qs1 := p.qsfnz(math.Sin(lat1))
	qs2 := p.qsfnz(math.Sin(lat2))
	qs0 := p.qsfnz(math.Sin(lat0))

	p.ns0 = (ms1*ms1 - ms2*ms2) / (qs2 - qs1)
	p.c = ms1*ms1 + p.ns0*qs1
	p.rh = p.a * math.Sqrt(p.c-p.ns0*qs0) / p.ns0
	return p
}

func (p *brazilAlbersProjector) GlobalToPlanar(lon, lat float64) (x, y float64, err error) {
	if math.IsNaN(lon) || math.IsNaN(lat) || lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("%w: coordinates (%v, %v) are not a valid lon/lat pair", model.ErrInvalidInput, lon, lat)
	}
	qs := p.qsfnz(math.Sin(lat * degToRad))
	radicand := p.c - p.ns0*qs
	if radicand < 0 {
		return 0, 0, fmt.Errorf("latitude %v outside the projection domain", lat)
	}
	rh1 := p.a * math.Sqrt(radicand) / p.ns0
	theta := p.ns0 * adjustLon(lon*degToRad-p.lambda0)
	return rh1*math.Sin(theta) + falseEasting, p.rh - rh1*math.Cos(theta) + falseNorthing, nil
}

func (p *brazilAlbersProjector) PlanarToGlobal(x, y float64) (lon, lat float64, err error) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return 0, 0, fmt.Errorf("%w: coordinates (%v, %v) are not a finite planar pair", model.ErrInvalidInput, x, y)
	}
	px := x - falseEasting
	py := p.rh - (y - falseNorthing)

	rh1 := math.Sqrt(px*px + py*py)
	sign := 1.0
	if p.ns0 < 0 {
		rh1 = -rh1
		sign = -1.0
	}
	theta := 0.0
	if rh1 != 0 {
		theta = math.Atan2(sign*px, sign*py)
	}

	con := rh1 * p.ns0 / p.a
	qs := (p.c - con*con) / p.ns0

	// Near the poles the iteration degenerates; snap to the exact pole.
	qPole := 1 - 0.5*(1-p.es)*math.Log((1-p.e)/(1+p.e))/p.e
	var latRad float64
	if math.Abs(math.Abs(qs)-math.Abs(qPole)) <= poleBandTol {
		latRad = math.Copysign(0.5*math.Pi, qs)
	} else {
		latRad, err = p.latitudeFor(qs)
		if err != nil {
			return 0, 0, err
		}
	}
	lonRad := adjustLon(theta/p.ns0 + p.lambda0)
	return lonRad * radToDeg, latRad * radToDeg, nil
}

// latitudeFor inverts the authalic function q(phi) by Newton iteration.
func (p *brazilAlbersProjector) latitudeFor(qs float64) (float64, error) {
	phi := asinz(0.5 * qs)
	for i := 0; i < maxIterations; i++ {
		sinphi := math.Sin(phi)
		cosphi := math.Cos(phi)
		con := p.e * sinphi
		com := 1 - con*con
		dphi := 0.5 * com * com / cosphi *
			(qs/(1-p.es) - sinphi/com + 0.5/p.e*math.Log((1-con)/(1+con)))
		phi += dphi
		if math.Abs(dphi) <= convergenceTol {
			return phi, nil
		}
	}
	return 0, errors.New("inverse projection latitude did not converge")
}

// msfnz computes the meridional scale factor at a latitude.
func (p *brazilAlbersProjector) msfnz(sinphi, cosphi float64) float64 {
	con := p.e * sinphi
	return cosphi / math.Sqrt(1-con*con)
}

// qsfnz computes the authalic function q at a latitude.
func (p *brazilAlbersProjector) qsfnz(sinphi float64) float64 {
	con := p.e * sinphi
	return (1 - p.es) * (sinphi/(1-con*con) - 0.5/p.e*math.Log((1-con)/(1+con)))
}

func adjustLon(lon float64) float64 {
	for lon > math.Pi {
		lon -= 2 * math.Pi
	}
	for lon < -math.Pi {
		lon += 2 * math.Pi
	}
	return lon
}

func asinz(v float64) float64 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return math.Asin(v)
}
