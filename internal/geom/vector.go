package geom

import "math"

// Vector is a 2D point or offset. Z is carried for API uniformity and is
// ignored by every 2D consumer. Vectors are values: arithmetic never mutates
// the receiver.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// V returns a 2D vector.
func V(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// V3 returns a 3D vector.
func V3(x, y, z float64) Vector {
	return Vector{X: x, Y: y, Z: z}
}

// Splat broadcasts a scalar to all three axes.
func Splat(s float64) Vector {
	return Vector{X: s, Y: s, Z: s}
}

// From normalizes loosely typed input into a Vector.
// Accepted: scalars (broadcast), slices/arrays of up to three components,
// another Vector, and partial {x,y,z} maps. Anything else is the zero vector.
func From(v any) Vector {
	switch t := v.(type) {
	case Vector:
		return t
	case *Vector:
		if t == nil {
			return Vector{}
		}
		return *t
	case float64:
		return Splat(t)
	case float32:
		return Splat(float64(t))
	case int:
		return Splat(float64(t))
	case []float64:
		return fromSlice(t)
	case [2]float64:
		return V(t[0], t[1])
	case [3]float64:
		return V3(t[0], t[1], t[2])
	case map[string]float64:
		return Vector{X: t["x"], Y: t["y"], Z: t["z"]}
	default:
		return Vector{}
	}
}

func fromSlice(s []float64) Vector {
	var out Vector
	if len(s) > 0 {
		out.X = s[0]
	}
	if len(s) > 1 {
		out.Y = s[1]
	}
	if len(s) > 2 {
		out.Z = s[2]
	}
	return out
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v * s.
func (v Vector) Scale(s float64) Vector {
	return Vector{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot returns the dot product.
func (v Vector) Dot(o Vector) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the 3D cross product.
func (v Vector) Cross(o Vector) Vector {
	return Vector{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Magnitude returns the euclidean length.
func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns the unit vector in v's direction.
// The zero vector normalizes to the zero vector.
func (v Vector) Normalize() Vector {
	mag := v.Magnitude()
	if mag == 0 {
		return Vector{}
	}
	return Vector{X: v.X / mag, Y: v.Y / mag, Z: v.Z / mag}
}

// Abs returns the component-wise absolute value.
func (v Vector) Abs() Vector {
	return Vector{X: math.Abs(v.X), Y: math.Abs(v.Y), Z: math.Abs(v.Z)}
}

// Equal reports exact component equality.
func (v Vector) Equal(o Vector) bool {
	return v.X == o.X && v.Y == o.Y && v.Z == o.Z
}

// Dist returns the 2D distance between v and o.
func (v Vector) Dist(o Vector) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// XY returns the 2D components as an array.
func (v Vector) XY() [2]float64 {
	return [2]float64{v.X, v.Y}
}

// Array returns all three components.
func (v Vector) Array() []float64 {
	return []float64{v.X, v.Y, v.Z}
}
