package engine

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Generator names accepted in course configs
const (
	GeneratorWeighted = "weighted"
	GeneratorNoise    = "noise"
)

// TerrainSampler decides the initial terrain of a cell
type TerrainSampler interface {
	Sample(h Hex) Terrain
}

// SamplerFunc adapts a plain function to TerrainSampler
type SamplerFunc func(h Hex) Terrain

func (f SamplerFunc) Sample(h Hex) Terrain { return f(h) }

// Uniform paints every cell with t.
func Uniform(t Terrain) TerrainSampler {
	return SamplerFunc(func(Hex) Terrain { return t })
}

// TerrainWeight is one entry of a weighted terrain table
type TerrainWeight struct {
	Terrain Terrain `json:"terrain" yaml:"terrain"`
	Weight  int     `json:"weight" yaml:"weight"`
}

// DefaultTerrainWeights is the classic course table.
func DefaultTerrainWeights() []TerrainWeight {
	return []TerrainWeight{
		{Terrain: Grass, Weight: 55},
		{Terrain: Sand, Weight: 15},
		{Terrain: Green, Weight: 10},
		{Terrain: Rough, Weight: 8},
		{Terrain: Water, Weight: 7},
		{Terrain: Trees, Weight: 5},
	}
}

// WeightedSampler draws each cell independently from a weight table
type WeightedSampler struct {
	weights []TerrainWeight
	total   int
	rng     Rand
}

func NewWeightedSampler(weights []TerrainWeight, rng Rand) *WeightedSampler {
	s := &WeightedSampler{rng: rng}
	for _, w := range weights {
		if w.Weight <= 0 {
			continue
		}
		s.weights = append(s.weights, w)
		s.total += w.Weight
	}
	return s
}

func (s *WeightedSampler) Sample(Hex) Terrain {
	if s.total == 0 {
		return Grass
	}
	roll := s.rng.IntN(s.total)
	for _, w := range s.weights {
		if roll < w.Weight {
			return w.Terrain
		}
		roll -= w.Weight
	}
	return s.weights[len(s.weights)-1].Terrain
}

// NoiseBand maps noise values below Below onto Terrain
type NoiseBand struct {
	Below   float64 `json:"below" yaml:"below"`
	Terrain Terrain `json:"terrain" yaml:"terrain"`
}

// DefaultNoiseBands gives fairways broken up by bunkers and greens.
func DefaultNoiseBands() []NoiseBand {
	return []NoiseBand{
		{Below: 0.6, Terrain: Grass},
		{Below: 0.8, Terrain: Sand},
		{Below: 1.01, Terrain: Green},
	}
}

const DefaultNoiseScale = 0.35

// NoiseSampler derives terrain from coherent 2D noise so neighbouring cells
// tend to share a surface.
type NoiseSampler struct {
	noise opensimplex.Noise
	scale float64
	bands []NoiseBand
}

func NewNoiseSampler(seed int64, scale float64, bands []NoiseBand) *NoiseSampler {
	if scale <= 0 {
		scale = DefaultNoiseScale
	}
	if len(bands) == 0 {
		bands = DefaultNoiseBands()
	}
	return &NoiseSampler{
		noise: opensimplex.NewNormalized(seed),
		scale: scale,
		bands: bands,
	}
}

func (s *NoiseSampler) Sample(h Hex) Terrain {
	// axial to cartesian so the noise field is not skewed along r
	x := float64(h.Q) + float64(h.R)*0.5
	y := float64(h.R) * math.Sqrt(3.0) / 2.0
	v := s.noise.Eval2(x*s.scale, y*s.scale)
	for _, b := range s.bands {
		if v < b.Below {
			return b.Terrain
		}
	}
	return s.bands[len(s.bands)-1].Terrain
}

// Course is a generated board with its tee and hole
type Course struct {
	Grid  *Grid
	Start Hex
	Goal  Hex
}

// GenerateCourse builds a playable board for config. It never fails: minimums,
// placement and the green cluster all degrade gracefully on small boards.
func GenerateCourse(config *CourseConfig, rng Rand) Course {
	grid := GenerateGrid(config.Cols, config.Rows, config.sampler(rng))
	EnforceMinimums(grid, config.MinimumCounts, rng)

	start, goal := PickStartAndGoal(grid, config.MinSeparation, rng)
	GrowGreen(grid, goal, config.GreenSize, config.GreenRadius, start)
	EnforceMinimums(grid, config.MinimumCounts, rng, start, goal)

	return Course{Grid: grid, Start: start, Goal: goal}
}

func (c *CourseConfig) sampler(rng Rand) TerrainSampler {
	switch c.Generator {
	case GeneratorNoise:
		seed := int64(rng.IntN(math.MaxInt32))
		return NewNoiseSampler(seed, c.NoiseScale, c.NoiseBands)
	default:
		weights := c.TerrainWeights
		if len(weights) == 0 {
			weights = DefaultTerrainWeights()
		}
		return NewWeightedSampler(weights, rng)
	}
}
