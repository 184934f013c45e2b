package density

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Func is a scalar density function of world position and time. Negative values are
// inside the surface. Implementations must be pure so corners can be evaluated in any
// order and on any goroutine.
type Func func(p mgl32.Vec3, t float32) float32

// FieldKind selects one of the built-in density functions. The numeric values are shared
// with the density compute shader.
type FieldKind uint32

const (
	// FieldCloud is a radially bounded blob whose boundary is displaced by drifting waves.
	FieldCloud FieldKind = iota

	// FieldSphere is the signed distance to a static sphere.
	FieldSphere

	// FieldTerrain is a rolling height field.
	FieldTerrain
)

var fieldKindNames = map[FieldKind]string{
	FieldCloud:   "cloud",
	FieldSphere:  "sphere",
	FieldTerrain: "terrain",
}

func (k FieldKind) String() string {
	if name, ok := fieldKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("FieldKind(%d)", uint32(k))
}

// ParseFieldKind maps a configuration name to its FieldKind.
func ParseFieldKind(name string) (FieldKind, error) {
	for k, n := range fieldKindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown density field %q", name)
}

// Params selects and parameterizes a built-in density function.
type Params struct {
	Kind      FieldKind
	Radius    float32
	Center    mgl32.Vec3
	Amplitude float32
	Frequency float32
}

// Func returns the CPU implementation of the selected function.
func (p Params) Func() Func {
	switch p.Kind {
	case FieldSphere:
		return Sphere(p.Center, p.Radius)
	case FieldTerrain:
		return Terrain(p.Amplitude, p.Frequency)
	default:
		return Cloud(p.Radius)
	}
}

// Cloud returns the animated cloud density. The boundary stays between 0.75 and 1.25
// times radius from the origin.
//
// Parameters:
//   - radius: the nominal cloud radius in world units
//
// Returns:
//   - Func: the density function
func Cloud(radius float32) Func {
	inv := 1 / radius
	return func(p mgl32.Vec3, t float32) float32 {
		q := p.Mul(1.6 * inv)
		n := math32.Sin(q[0]*1.7+t*0.6)*math32.Cos(q[1]*1.3-t*0.4) +
			math32.Sin(q[2]*1.9+t*0.5)*math32.Cos(q[0]*1.1+t*0.3) +
			0.5*math32.Sin((q[0]+q[1]+q[2])*2.3-t*0.7)
		return p.Len()*inv - 1 - 0.1*n
	}
}

// Sphere returns the signed distance to a sphere. It ignores time.
func Sphere(center mgl32.Vec3, radius float32) Func {
	return func(p mgl32.Vec3, _ float32) float32 {
		return p.Sub(center).Len() - radius
	}
}

// Terrain returns a height field density: negative below the surface y = h(x, z, t).
//
// Parameters:
//   - amplitude: the peak height of the surface above or below y = 0
//   - frequency: the spatial frequency of the rolling hills
//
// Returns:
//   - Func: the density function
func Terrain(amplitude, frequency float32) Func {
	return func(p mgl32.Vec3, t float32) float32 {
		x, z := p[0]*frequency, p[2]*frequency
		h := math32.Sin(x+t*0.7)*math32.Cos(z-t*0.4) + 0.5*math32.Sin((x+z)*2.1+t)
		return p[1] - amplitude*h/1.5
	}
}
