package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// Scatter implements the Material interface for dielectric scattering
func (d *Dielectric) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	eta := d.etaRatio(hit.FrontFace)
	in := rayIn.Direction.Normalize()

	cosTheta := math.Min(in.Negate().Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

	direction := core.Refract(in, hit.Normal, eta)
	if eta*sinTheta > 1.0 || Reflectance(cosTheta, eta) > sampler.Get1D() {
		direction = core.Reflect(in, hit.Normal)
	}

	// Clear glass absorbs nothing
	return ScatterResult{
		Scattered:   core.NewRayAt(hit.Point, direction, rayIn.Time),
		Attenuation: core.NewVec3(1, 1, 1),
	}, true
}

// etaRatio is the incident over transmitted index: air to glass when entering
func (d *Dielectric) etaRatio(frontFace bool) float64 {
	if frontFace {
		return 1.0 / d.RefractiveIndex
	}
	return d.RefractiveIndex
}

// Reflectance is Schlick's approximation of Fresnel reflectance
func Reflectance(cosine, refIdx float64) float64 {
	r := (1 - refIdx) / (1 + refIdx)
	r0 := r * r
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
