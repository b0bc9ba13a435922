package systems

import (
	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// FieldNoise layers octaves of normalized simplex noise into a smooth [0,1]
// field.
type FieldNoise struct {
	noise       opensimplex.Noise
	octaves     int
	frequency   float64
	persistence float64
}

// NewFieldNoise creates a field sampler.
func NewFieldNoise(seed int64, octaves int, frequency, persistence float64) *FieldNoise {
	return &FieldNoise{
		noise:       opensimplex.NewNormalized(seed),
		octaves:     octaves,
		frequency:   frequency,
		persistence: persistence,
	}
}

// Sample returns the field value at (x, y) in [0,1].
func (f *FieldNoise) Sample(x, y float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	freq := f.frequency

	for i := 0; i < f.octaves; i++ {
		total += f.noise.Eval2(x*freq, y*freq) * amplitude
		maxVal += amplitude
		amplitude *= f.persistence
		freq *= 2
	}

	if maxVal == 0 {
		return 0
	}
	return total / maxVal
}

// PatchNoise marks clustered patches, used to decide where food grows.
type PatchNoise struct {
	p         *perlin.Perlin
	frequency float64
}

// NewPatchNoise creates a patch sampler with the given sampling frequency.
func NewPatchNoise(seed int64, frequency float64) *PatchNoise {
	return &PatchNoise{
		p:         perlin.NewPerlin(2.0, 2.0, 3, seed),
		frequency: frequency,
	}
}

// Sample returns the patch value at (x, y) mapped into [0,1].
func (n *PatchNoise) Sample(x, y float64) float64 {
	v := (n.p.Noise2D(x*n.frequency, y*n.frequency) + 1.0) / 2.0
	return min(max(v, 0), 1)
}
