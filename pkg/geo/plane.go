package geo

// Vec3 is a vector in (lon, lat, elevation) space.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Plane is n·p + D = 0.
type Plane struct {
	Normal Vec3
	D      float64
}

// PlaneThrough returns the plane containing a and b whose second direction
// is horizontal and perpendicular to b-a. ok is false when the plane is
// vertical (a and b share a coordinate), since it then has no height
// for other points.
func PlaneThrough(a, b Vec3) (p Plane, ok bool) {
	v1 := b.Sub(a)
	v2 := Vec3{X: -v1.Y, Y: v1.X}
	n := v1.Cross(v2)
	if n.Z == 0 {
		return Plane{}, false
	}
	return Plane{Normal: n, D: -n.Dot(a)}, true
}

// Height solves the plane equation for z at (x, y).
func (p Plane) Height(x, y float64) float64 {
	return (-p.D - p.Normal.X*x - p.Normal.Y*y) / p.Normal.Z
}
