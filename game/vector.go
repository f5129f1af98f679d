package game

import "math"

// Vec3 is a point or direction in region coordinates. Y is up.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Zero is the origin.
var Zero = Vec3{}

func V(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

func (a Vec3) Scale(f float64) Vec3 { return Vec3{a.X * f, a.Y * f, a.Z * f} }

func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) Len() float64 { return math.Sqrt(a.Dot(a)) }

// Normalized returns the unit vector along a and the original length.
// A zero vector is returned unchanged with length zero.
func (a Vec3) Normalized() (Vec3, float64) {
	l := a.Len()
	if l < 1e-12 {
		return a, 0
	}
	return a.Scale(1 / l), l
}

// RotateY rotates a about the world up axis.
func (a Vec3) RotateY(angle float64) Vec3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Vec3{
		a.X*c + a.Z*s,
		a.Y,
		-a.X*s + a.Z*c,
	}
}

// Distance returns the distance between two points
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Len()
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Camera is an orthonormal orientation basis.
// Right is the lateral (beam) axis, Up is lift, Forward is the boresight.
type Camera struct {
	Right   Vec3 `json:"right"`
	Up      Vec3 `json:"up"`
	Forward Vec3 `json:"forward"`
}

// NewCamera returns the identity orientation looking down +Z.
func NewCamera() Camera {
	return Camera{
		Right:   Vec3{1, 0, 0},
		Up:      Vec3{0, 1, 0},
		Forward: Vec3{0, 0, 1},
	}
}

// CameraFromHeading returns a level orientation with the given compass
// heading (radians, 0 = +Z, positive toward +X).
func CameraFromHeading(heading float64) Camera {
	c := NewCamera()
	c.Yaw(heading)
	return c
}

// Yaw turns the boresight toward the right axis.
func (c *Camera) Yaw(a float64) {
	cs, sn := math.Cos(a), math.Sin(a)
	f := c.Forward.Scale(cs).Add(c.Right.Scale(sn))
	r := c.Right.Scale(cs).Sub(c.Forward.Scale(sn))
	c.Forward, c.Right = f, r
}

// Pitch raises the boresight toward the up axis.
func (c *Camera) Pitch(a float64) {
	cs, sn := math.Cos(a), math.Sin(a)
	f := c.Forward.Scale(cs).Add(c.Up.Scale(sn))
	u := c.Up.Scale(cs).Sub(c.Forward.Scale(sn))
	c.Forward, c.Up = f, u
}

// Roll rotates the lateral axis toward the up axis.
func (c *Camera) Roll(a float64) {
	cs, sn := math.Cos(a), math.Sin(a)
	r := c.Right.Scale(cs).Add(c.Up.Scale(sn))
	u := c.Up.Scale(cs).Sub(c.Right.Scale(sn))
	c.Right, c.Up = r, u
}

// Orthonormalize rebuilds the basis from Forward and Up.
func (c *Camera) Orthonormalize() {
	f, fl := c.Forward.Normalized()
	if fl == 0 {
		*c = NewCamera()
		return
	}
	r, rl := c.Up.Cross(f).Normalized()
	if rl == 0 {
		r = Vec3{1, 0, 0}
	}
	c.Forward = f
	c.Right = r
	c.Up = f.Cross(r)
}

// Blend moves c toward target by fraction t in [0,1].
func (c *Camera) Blend(target Camera, t float64) {
	t = Clamp(t, 0, 1)
	c.Forward = c.Forward.Add(target.Forward.Sub(c.Forward).Scale(t))
	c.Up = c.Up.Add(target.Up.Sub(c.Up).Scale(t))
	c.Orthonormalize()
}

// Project expresses a world offset in camera coordinates
// (X = right, Y = up, Z = forward).
func (c Camera) Project(v Vec3) Vec3 {
	return Vec3{v.Dot(c.Right), v.Dot(c.Up), v.Dot(c.Forward)}
}
