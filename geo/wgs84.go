// Package geo implements the coordinate and atmospheric conversions shared
// by every protocol's GPS subframe handler: WGS-84 ECEF<->LLA round trips,
// ECEF velocity to speed/heading/climb, and the ISA barometric formula used
// to synthesize a pressure reading when a protocol has no pressure sensor.
package geo

import (
	"math"

	"github.com/golang/geo/r3"
)

const (
	wgs84A = 6378137.0
	wgs84F = 1 / 298.257223563
)

var (
	wgs84B        = wgs84A * (1 - wgs84F)
	wgs84ESqr     = (wgs84A*wgs84A - wgs84B*wgs84B) / (wgs84A * wgs84A)
	wgs84EPrimeSq = (wgs84A*wgs84A - wgs84B*wgs84B) / (wgs84B * wgs84B)
)

// LLA is a geodetic position: latitude and longitude in degrees, altitude
// in meters above the WGS-84 ellipsoid.
type LLA struct {
	Lat, Lon, Alt float64
}

// ECEFToLLA converts an earth-centered earth-fixed position (meters) to
// geodetic latitude/longitude/altitude.
func ECEFToLLA(pos r3.Vector) LLA {
	lambda := math.Atan2(pos.Y, pos.X)
	p := math.Hypot(pos.X, pos.Y)
	theta := math.Atan2(pos.Z*wgs84A, p*wgs84B)
	sinTheta, cosTheta := math.Sincos(theta)

	phi := math.Atan2(
		pos.Z+wgs84EPrimeSq*wgs84B*(sinTheta*sinTheta*sinTheta),
		p-wgs84ESqr*wgs84A*(cosTheta*cosTheta*cosTheta),
	)
	sinPhi := math.Sin(phi)
	n := wgs84A / math.Sqrt(1-wgs84ESqr*sinPhi*sinPhi)
	h := p/math.Cos(phi) - n

	return LLA{
		Lat: phi * 180 / math.Pi,
		Lon: lambda * 180 / math.Pi,
		Alt: h,
	}
}

// LLAToECEF converts a geodetic position to earth-centered earth-fixed
// Cartesian coordinates (meters).
func LLAToECEF(pos LLA) r3.Vector {
	lat := pos.Lat * math.Pi / 180
	lon := pos.Lon * math.Pi / 180

	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)

	n := wgs84A / math.Sqrt(1-wgs84ESqr*sinLat*sinLat)

	return r3.Vector{
		X: (n + pos.Alt) * cosLat * cosLon,
		Y: (n + pos.Alt) * cosLat * sinLon,
		Z: (1 - wgs84ESqr) * (n + pos.Alt) * sinLat,
	}
}

// SpeedHeadingClimb converts an ECEF velocity vector observed at the given
// geodetic latitude/longitude into ground speed (m/s), heading (degrees,
// 0..360), and vertical climb rate (m/s, positive up).
func SpeedHeadingClimb(lat, lon float64, vel r3.Vector) (speed, heading, climb float64) {
	if vel.X == 0 && vel.Y == 0 && vel.Z == 0 {
		return 0, 0, 0
	}

	latRad := lat * math.Pi / 180
	lonRad := lon * math.Pi / 180
	sinLat, cosLat := math.Sincos(latRad)
	sinLon, cosLon := math.Sincos(lonRad)

	climb = vel.X*cosLat*cosLon + vel.Y*cosLat*sinLon + vel.Z*sinLat
	vNorth := -vel.X*sinLat*cosLon - vel.Y*sinLat*sinLon + vel.Z*cosLat
	vEast := -vel.X*sinLon + vel.Y*cosLon

	speed = math.Hypot(vNorth, vEast)
	heading = math.Atan2(vEast, vNorth) * 180 / math.Pi
	if heading < 0 {
		heading += 360
	}

	return speed, heading, climb
}
