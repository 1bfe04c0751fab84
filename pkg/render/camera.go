package render

import (
	"go-hex-conquest/internal/utils"
	"go-hex-conquest/pkg/hexmap"
)

// Camera is an orthographic view of the globe looking straight down at
// Focus. Screen y grows downwards.
type Camera struct {
	Focus   hexmap.LatLng
	Radius  float64 // sphere radius
	Scale   float64 // pixels per world unit
	Width   int
	Height  int
	back    hexmap.Vec3
	right   hexmap.Vec3
	up      hexmap.Vec3
	target  hexmap.Vec3
	distant float64
}

const maxFocusLat = 85

// NewCamera frames a sphere of the given radius so that it fills most of a
// width x height screen.
func NewCamera(focus hexmap.LatLng, radius float64, width, height int) *Camera {
	c := &Camera{
		Radius: radius,
		Width:  width,
		Height: height,
		Scale:  0.45 * float64(min(width, height)) / radius,
	}
	c.LookAt(focus)
	return c
}

// LookAt points the camera at ll.
func (c *Camera) LookAt(ll hexmap.LatLng) {
	ll.Lat = utils.Clamp(ll.Lat, -maxFocusLat, maxFocusLat)
	ll.Lng = utils.WrapDegrees(ll.Lng)
	c.Focus = ll

	c.back = hexmap.ToSphere(ll, 1).Normalize()
	c.right = hexmap.Vec3{Y: 1}.Cross(c.back).Normalize()
	c.up = c.back.Cross(c.right)
	c.target = c.back.Scale(c.Radius)
	c.distant = 4 * c.Radius
}

// Orbit turns the globe under the camera by the given degrees.
func (c *Camera) Orbit(dLat, dLng float64) {
	c.LookAt(hexmap.LatLng{Lat: c.Focus.Lat + dLat, Lng: c.Focus.Lng + dLng})
}

// Zoom multiplies the scale by f, keeping it positive.
func (c *Camera) Zoom(f float64) {
	if f > 0 {
		c.Scale *= f
	}
}

// Project maps a world point to screen coordinates. visible is false for
// points on the far hemisphere.
func (c *Camera) Project(p hexmap.Vec3) (x, y float64, visible bool) {
	rel := p.Sub(c.target)
	x = float64(c.Width)/2 + c.Scale*rel.Dot(c.right)
	y = float64(c.Height)/2 - c.Scale*rel.Dot(c.up)
	return x, y, p.Dot(c.back) > 0
}

// Facing reports whether a surface point faces the camera.
func (c *Camera) Facing(p hexmap.Vec3) bool {
	return p.Dot(c.back) > 0
}

// RayAt returns the ray cast into the scene from screen point (x, y).
func (c *Camera) RayAt(x, y float64) hexmap.Ray {
	dx := (x - float64(c.Width)/2) / c.Scale
	dy := -(y - float64(c.Height)/2) / c.Scale
	origin := c.target.
		Add(c.right.Scale(dx)).
		Add(c.up.Scale(dy)).
		Add(c.back.Scale(c.distant))
	return hexmap.Ray{Origin: origin, Dir: c.back.Scale(-1)}
}
