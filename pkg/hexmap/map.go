// pkg/hexmap/map.go
package hexmap

import "math"

// ToSphere projects a geographic point onto a sphere of the given radius.
// Latitude maps to the polar angle from +Y, longitude+180 to the azimuth.
func ToSphere(ll LatLng, radius float64) Vec3 {
	phi := (90 - ll.Lat) * (math.Pi / 180)
	theta := (ll.Lng + 180) * (math.Pi / 180)
	return Vec3{
		X: radius * math.Sin(phi) * math.Cos(theta),
		Y: radius * math.Cos(phi),
		Z: radius * math.Sin(phi) * math.Sin(theta),
	}
}

// FromSphere is the inverse of ToSphere for any non-zero point.
func FromSphere(p Vec3) LatLng {
	r := p.Len()
	if r == 0 {
		return LatLng{}
	}
	phi := math.Acos(clamp(p.Y/r, -1, 1))
	theta := math.Atan2(p.Z, p.X)
	lng := theta*180/math.Pi - 180
	if lng < -180 {
		lng += 360
	}
	return LatLng{Lat: 90 - phi*180/math.Pi, Lng: lng}
}

// ApproximateBoundary builds a regular hexagon of the given angular radius
// around centre. Used when the indexer cannot resolve a proper outline.
func ApproximateBoundary(center LatLng, radiusDeg float64) []LatLng {
	out := make([]LatLng, 6)
	cosLat := math.Cos(center.Lat * math.Pi / 180)
	if math.Abs(cosLat) < 1e-6 {
		cosLat = 1e-6
	}
	for i := 0; i < 6; i++ {
		angle := math.Pi/3*float64(i) + math.Pi/6
		out[i] = LatLng{
			Lat: center.Lat + radiusDeg*math.Sin(angle),
			Lng: center.Lng + radiusDeg*math.Cos(angle)/cosLat,
		}
	}
	return out
}

// FanTriangles splits a convex outline into triangles sharing the centre.
// Every triangle is a pickable sub-primitive of the same cell.
func FanTriangles(center Vec3, outline []Vec3) [][3]Vec3 {
	if len(outline) < 3 {
		return nil
	}
	tris := make([][3]Vec3, 0, len(outline))
	for i := range outline {
		next := outline[(i+1)%len(outline)]
		tris = append(tris, [3]Vec3{center, outline[i], next})
	}
	return tris
}
