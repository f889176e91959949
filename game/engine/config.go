package engine

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CourseMessages are the status lines shown to the player
type CourseMessages struct {
	Welcome string `json:"welcome" yaml:"welcome"`
	Blocked string `json:"blocked" yaml:"blocked"`
	Hazard  string `json:"hazard" yaml:"hazard"`
	Victory string `json:"victory" yaml:"victory"`
}

// CourseConfig describes how a course is generated and which cards it deals
type CourseConfig struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Cols        int    `json:"cols" yaml:"cols"`
	Rows        int    `json:"rows" yaml:"rows"`
	// Seed pins the board and the deal. Zero picks a new seed per engine.
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	Generator      string          `json:"generator" yaml:"generator"`
	TerrainWeights []TerrainWeight `json:"terrain_weights,omitempty" yaml:"terrain_weights,omitempty"`
	NoiseScale     float64         `json:"noise_scale,omitempty" yaml:"noise_scale,omitempty"`
	NoiseBands     []NoiseBand     `json:"noise_bands,omitempty" yaml:"noise_bands,omitempty"`

	// MinimumCounts is the floor per terrain. Nil means the defaults; an empty
	// map disables enforcement.
	MinimumCounts map[Terrain]int `json:"minimum_counts,omitempty" yaml:"minimum_counts,omitempty"`
	MinSeparation int             `json:"min_separation,omitempty" yaml:"min_separation,omitempty"`
	GreenSize     int             `json:"green_size,omitempty" yaml:"green_size,omitempty"`
	GreenRadius   int             `json:"green_radius,omitempty" yaml:"green_radius,omitempty"`

	CopiesPerCard int        `json:"copies_per_card,omitempty" yaml:"copies_per_card,omitempty"`
	Clubs         []Club     `json:"clubs,omitempty" yaml:"clubs,omitempty"`
	Modifiers     []Modifier `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`

	Messages CourseMessages `json:"messages" yaml:"messages"`
}

// DefaultMinimumCounts are the terrain floors of the classic course.
func DefaultMinimumCounts() map[Terrain]int {
	return map[Terrain]int{
		Sand:  10,
		Green: 4,
		Grass: 1,
		Water: 1,
		Rough: 1,
		Trees: 1,
	}
}

// DefaultMessages returns the stock status lines
func DefaultMessages() CourseMessages {
	return CourseMessages{
		Welcome: "Pick a club, add modifiers, then choose a direction.",
		Blocked: "Blocked by trees!",
		Hazard:  "Splash! Back to where you hit from, plus a penalty swing.",
		Victory: "You win in %d swings!",
	}
}

// DefaultCourseConfig returns the built-in classic course
func DefaultCourseConfig() *CourseConfig {
	return (&CourseConfig{
		Name:        "Classic",
		Description: "Six by four parkland course with weighted terrain",
		Cols:        6,
		Rows:        4,
		Generator:   GeneratorWeighted,
	}).WithDefaults()
}

// WithDefaults returns a copy of c with every unset field filled in.
func (c *CourseConfig) WithDefaults() *CourseConfig {
	out := *c
	if out.Generator == "" {
		out.Generator = GeneratorWeighted
	}
	if out.Generator == GeneratorWeighted && len(out.TerrainWeights) == 0 {
		out.TerrainWeights = DefaultTerrainWeights()
	}
	if out.Generator == GeneratorNoise {
		if out.NoiseScale == 0 {
			out.NoiseScale = DefaultNoiseScale
		}
		if len(out.NoiseBands) == 0 {
			out.NoiseBands = DefaultNoiseBands()
		}
	}
	if out.MinimumCounts == nil {
		out.MinimumCounts = DefaultMinimumCounts()
	} else {
		out.MinimumCounts = maps.Clone(out.MinimumCounts)
	}
	if out.MinSeparation == 0 {
		out.MinSeparation = DefaultMinSeparation
	}
	if out.GreenSize == 0 {
		out.GreenSize = DefaultGreenSize
	}
	if out.GreenRadius == 0 {
		out.GreenRadius = DefaultGreenRadius
	}
	if out.CopiesPerCard == 0 {
		out.CopiesPerCard = DefaultCopiesPerCard
	}
	if len(out.Clubs) == 0 {
		out.Clubs = DefaultClubs()
	}
	if out.Modifiers == nil {
		out.Modifiers = DefaultModifiers()
	}
	defaults := DefaultMessages()
	if out.Messages.Welcome == "" {
		out.Messages.Welcome = defaults.Welcome
	}
	if out.Messages.Blocked == "" {
		out.Messages.Blocked = defaults.Blocked
	}
	if out.Messages.Hazard == "" {
		out.Messages.Hazard = defaults.Hazard
	}
	if out.Messages.Victory == "" {
		out.Messages.Victory = defaults.Victory
	}
	return &out
}

// ValidateCourseConfig validates a course configuration for correctness and playability
func ValidateCourseConfig(config *CourseConfig) error {
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Cols < MinCourseSize || config.Cols > MaxCourseSize {
		return fmt.Errorf("config validation: cols must be between %d and %d, got %d", MinCourseSize, MaxCourseSize, config.Cols)
	}
	if config.Rows < MinCourseSize || config.Rows > MaxCourseSize {
		return fmt.Errorf("config validation: rows must be between %d and %d, got %d", MinCourseSize, MaxCourseSize, config.Rows)
	}

	switch config.Generator {
	case "", GeneratorWeighted:
		total := 0
		for _, w := range config.TerrainWeights {
			if !w.Terrain.Valid() {
				return fmt.Errorf("config validation: unknown terrain %q in terrain_weights", w.Terrain)
			}
			if w.Weight < 0 {
				return fmt.Errorf("config validation: weight for %s must not be negative", w.Terrain)
			}
			total += w.Weight
		}
		if len(config.TerrainWeights) > 0 && total == 0 {
			return fmt.Errorf("config validation: terrain_weights must have a positive total")
		}
	case GeneratorNoise:
		if config.NoiseScale < 0 {
			return fmt.Errorf("config validation: noise_scale must not be negative")
		}
		for i, b := range config.NoiseBands {
			if !b.Terrain.Valid() {
				return fmt.Errorf("config validation: unknown terrain %q in noise_bands", b.Terrain)
			}
			if i > 0 && b.Below <= config.NoiseBands[i-1].Below {
				return fmt.Errorf("config validation: noise_bands must be in ascending order of below")
			}
		}
	default:
		return fmt.Errorf("config validation: unknown generator %q", config.Generator)
	}

	for t, n := range config.MinimumCounts {
		if !t.Valid() {
			return fmt.Errorf("config validation: unknown terrain %q in minimum_counts", t)
		}
		if n < 0 {
			return fmt.Errorf("config validation: minimum count for %s must not be negative", t)
		}
	}
	if config.MinSeparation < 0 {
		return fmt.Errorf("config validation: min_separation must not be negative")
	}
	if config.GreenSize < 0 || config.GreenRadius < 0 {
		return fmt.Errorf("config validation: green_size and green_radius must not be negative")
	}
	if config.CopiesPerCard < 0 {
		return fmt.Errorf("config validation: copies_per_card must not be negative")
	}

	for _, club := range config.Clubs {
		if club.Name == "" {
			return fmt.Errorf("config validation: every club needs a name")
		}
		if club.MinRange < 1 || club.MaxRange < club.MinRange {
			return fmt.Errorf("config validation: club %s must have 1 <= min_range <= max_range, got %d-%d",
				club.Name, club.MinRange, club.MaxRange)
		}
	}
	for _, m := range config.Modifiers {
		if m.Name == "" {
			return fmt.Errorf("config validation: every modifier needs a name")
		}
		if !m.Kind.Valid() {
			return fmt.Errorf("config validation: modifier %s has unknown kind %d", m.Name, int(m.Kind))
		}
	}

	if config.Messages.Victory != "" && !strings.Contains(config.Messages.Victory, "%d") {
		return fmt.Errorf("config validation: messages.victory must contain %%d for the swing count")
	}
	return nil
}

// DecodeCourseConfig parses a course file body. format is a file extension;
// ".yaml" and ".yml" are read as YAML, anything else as JSON.
func DecodeCourseConfig(data []byte, format string) (*CourseConfig, error) {
	var config CourseConfig
	switch strings.ToLower(format) {
	case ".yaml", ".yml", "yaml", "yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	}

	if err := ValidateCourseConfig(&config); err != nil {
		return nil, err
	}
	return config.WithDefaults(), nil
}

// LoadCourseConfig loads a course configuration from a JSON or YAML file
func LoadCourseConfig(filename string) (*CourseConfig, error) {
	// COURSE_DIR replaces the default configs/ directory
	path := filename
	if dir := os.Getenv("COURSE_DIR"); dir != "" && strings.HasPrefix(filename, "configs/") {
		path = filepath.Join(dir, strings.TrimPrefix(filename, "configs/"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeCourseConfig(data, filepath.Ext(path))
}

// CourseExtensions lists the file extensions course files may use, in lookup order.
var CourseExtensions = []string{".json", ".yaml", ".yml"}

// LoadCourseByName loads a course by name from the configs directory
func LoadCourseByName(name string) (*CourseConfig, error) {
	for _, ext := range CourseExtensions {
		if strings.HasSuffix(name, ext) {
			return LoadCourseConfig(filepath.Join("configs", name))
		}
	}
	for _, ext := range CourseExtensions {
		path := filepath.Join("configs", name+ext)
		config, err := LoadCourseConfig(path)
		if err == nil {
			return config, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid course '%s': %w", name, err)
		}
	}
	return nil, fmt.Errorf("course '%s' not found", name)
}
