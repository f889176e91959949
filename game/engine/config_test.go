package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createValidCourse() *CourseConfig {
	return &CourseConfig{
		Name:        "Test Course",
		Description: "A valid test course",
		Cols:        4,
		Rows:        3,
		Generator:   GeneratorWeighted,
		TerrainWeights: []TerrainWeight{
			{Terrain: Grass, Weight: 10},
			{Terrain: Sand, Weight: 2},
		},
		Clubs: []Club{{Name: "Iron", MinRange: 2, MaxRange: 4}},
		Messages: CourseMessages{
			Victory: "Holed in %d!",
		},
	}
}

func TestValidateCourseConfig_ValidConfig(t *testing.T) {
	assert.NoError(t, ValidateCourseConfig(createValidCourse()))
	assert.NoError(t, ValidateCourseConfig(DefaultCourseConfig()))
}

func TestValidateCourseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *CourseConfig)
		errMsg string
	}{
		{"missing name", func(c *CourseConfig) { c.Name = "" }, "name is required"},
		{"cols too small", func(c *CourseConfig) { c.Cols = 0 }, "cols must be between"},
		{"rows too large", func(c *CourseConfig) { c.Rows = MaxCourseSize + 1 }, "rows must be between"},
		{"unknown generator", func(c *CourseConfig) { c.Generator = "fractal" }, "unknown generator"},
		{"unknown weighted terrain", func(c *CourseConfig) { c.TerrainWeights = []TerrainWeight{{Terrain: "lava", Weight: 1}} }, "unknown terrain"},
		{"negative weight", func(c *CourseConfig) { c.TerrainWeights = []TerrainWeight{{Terrain: Grass, Weight: -1}} }, "must not be negative"},
		{"zero total weight", func(c *CourseConfig) { c.TerrainWeights = []TerrainWeight{{Terrain: Grass, Weight: 0}} }, "positive total"},
		{"noise bands out of order", func(c *CourseConfig) {
			c.Generator = GeneratorNoise
			c.NoiseBands = []NoiseBand{{Below: 0.5, Terrain: Grass}, {Below: 0.4, Terrain: Sand}}
		}, "ascending order"},
		{"unknown minimum terrain", func(c *CourseConfig) { c.MinimumCounts = map[Terrain]int{"ice": 1} }, "unknown terrain"},
		{"negative minimum", func(c *CourseConfig) { c.MinimumCounts = map[Terrain]int{Sand: -2} }, "must not be negative"},
		{"negative separation", func(c *CourseConfig) { c.MinSeparation = -1 }, "min_separation"},
		{"club without name", func(c *CourseConfig) { c.Clubs = []Club{{MinRange: 1, MaxRange: 2}} }, "needs a name"},
		{"club range inverted", func(c *CourseConfig) { c.Clubs = []Club{{Name: "Bad", MinRange: 3, MaxRange: 2}} }, "min_range <= max_range"},
		{"club range zero", func(c *CourseConfig) { c.Clubs = []Club{{Name: "Bad", MinRange: 0, MaxRange: 2}} }, "min_range <= max_range"},
		{"modifier kind unknown", func(c *CourseConfig) { c.Modifiers = []Modifier{{Name: "Odd", Kind: ModifierKind(42)}} }, "unknown kind"},
		{"victory without count", func(c *CourseConfig) { c.Messages.Victory = "You win!" }, "must contain %d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := createValidCourse()
			tt.mutate(c)
			err := ValidateCourseConfig(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestCourseConfig_WithDefaults(t *testing.T) {
	c := createValidCourse()
	out := c.WithDefaults()

	assert.Equal(t, DefaultMinimumCounts(), out.MinimumCounts)
	assert.Equal(t, DefaultMinSeparation, out.MinSeparation)
	assert.Equal(t, DefaultGreenSize, out.GreenSize)
	assert.Equal(t, DefaultCopiesPerCard, out.CopiesPerCard)
	assert.Equal(t, DefaultModifiers(), out.Modifiers)
	assert.Equal(t, c.Clubs, out.Clubs)
	assert.Equal(t, "Holed in %d!", out.Messages.Victory)
	assert.Equal(t, DefaultMessages().Welcome, out.Messages.Welcome)

	// the receiver is left alone
	assert.Nil(t, c.MinimumCounts)
	assert.Zero(t, c.CopiesPerCard)

	empty := createValidCourse()
	empty.MinimumCounts = map[Terrain]int{}
	assert.Empty(t, empty.WithDefaults().MinimumCounts)

	noise := createValidCourse()
	noise.Generator = GeneratorNoise
	noise.TerrainWeights = nil
	out = noise.WithDefaults()
	assert.Equal(t, DefaultNoiseScale, out.NoiseScale)
	assert.Equal(t, DefaultNoiseBands(), out.NoiseBands)
}

const testCourseJSON = `{
	"name": "Test Course",
	"description": "Test description",
	"cols": 4,
	"rows": 3,
	"generator": "weighted",
	"terrain_weights": [{"terrain": "grass", "weight": 5}, {"terrain": "sand", "weight": 1}],
	"clubs": [{"name": "Iron", "min_range": 2, "max_range": 4}],
	"modifiers": [{"name": "Gust", "kind": "wind"}],
	"messages": {"victory": "Done in %d"}
}`

const testCourseYAML = `name: Links Test
description: Noise generated
cols: 5
rows: 5
generator: noise
noise_scale: 0.2
noise_bands:
  - below: 0.2
    terrain: water
  - below: 0.7
    terrain: grass
  - below: 1.01
    terrain: sand
minimum_counts:
  green: 2
modifiers:
  - name: Tailwind
    kind: tailwind
  - name: Chip
    kind: chip
`

func TestDecodeCourseConfig(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		c, err := DecodeCourseConfig([]byte(testCourseJSON), ".json")
		require.NoError(t, err)

		assert.Equal(t, "Test Course", c.Name)
		assert.Equal(t, []Modifier{{Name: "Gust", Kind: Wind}}, c.Modifiers)
		assert.Equal(t, []TerrainWeight{{Grass, 5}, {Sand, 1}}, c.TerrainWeights)
		assert.Equal(t, "Done in %d", c.Messages.Victory)
	})

	t.Run("yaml", func(t *testing.T) {
		c, err := DecodeCourseConfig([]byte(testCourseYAML), ".yaml")
		require.NoError(t, err)

		assert.Equal(t, GeneratorNoise, c.Generator)
		assert.Equal(t, 0.2, c.NoiseScale)
		require.Len(t, c.NoiseBands, 3)
		assert.Equal(t, Water, c.NoiseBands[0].Terrain)
		assert.Equal(t, map[Terrain]int{Green: 2}, c.MinimumCounts)
		assert.Equal(t, []Modifier{{Name: "Tailwind", Kind: Tailwind}, {Name: "Chip", Kind: Chip}}, c.Modifiers)
		assert.Equal(t, DefaultClubs(), c.Clubs)
	})

	t.Run("unknown modifier kind", func(t *testing.T) {
		_, err := DecodeCourseConfig([]byte(`{"name":"x","cols":2,"rows":2,"modifiers":[{"name":"?","kind":"lightning"}]}`), ".json")
		assert.Error(t, err)
	})

	t.Run("invalid course", func(t *testing.T) {
		_, err := DecodeCourseConfig([]byte(`{"name":"x","cols":0,"rows":2}`), ".json")
		assert.Error(t, err)
	})
}

func TestLoadCourseByName(t *testing.T) {
	tempDir := t.TempDir()

	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)
	require.NoError(t, os.Chdir(tempDir))
	require.NoError(t, os.MkdirAll("configs", 0755))
	require.NoError(t, os.WriteFile(filepath.Join("configs", "test.json"), []byte(testCourseJSON), 0644))
	require.NoError(t, os.WriteFile(filepath.Join("configs", "links.yaml"), []byte(testCourseYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join("configs", "broken.json"), []byte(`{"name": ""}`), 0644))

	config, err := LoadCourseByName("test")
	require.NoError(t, err)
	assert.Equal(t, "Test Course", config.Name)

	config, err = LoadCourseByName("test.json")
	require.NoError(t, err)
	assert.Equal(t, "Test Course", config.Name)

	config, err = LoadCourseByName("links")
	require.NoError(t, err)
	assert.Equal(t, "Links Test", config.Name)

	_, err = LoadCourseByName("broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid course")

	_, err = LoadCourseByName("nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadCourseConfig_CourseDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.json"), []byte(testCourseJSON), 0644))
	t.Setenv("COURSE_DIR", dir)

	config, err := LoadCourseConfig("configs/test.json")
	require.NoError(t, err)
	assert.Equal(t, "Test Course", config.Name)

	_, err = LoadCourseConfig("configs/missing.json")
	assert.True(t, os.IsNotExist(err))
}
