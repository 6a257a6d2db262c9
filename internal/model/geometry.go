package model

// Vector3 is a point or direction in the shared coordinate space
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the component-wise sum of two vectors
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// RadianRotation is a single-axis rotation in radians
type RadianRotation struct {
	Radians float64 `json:"radians"`
}
