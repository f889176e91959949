package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input    string
		expected Direction
		wantErr  bool
	}{
		{"e", East, false},
		{"NE", NorthEast, false},
		{"north-west", NorthWest, false},
		{"west", West, false},
		{" sw ", SouthWest, false},
		{"south_east", SouthEast, false},
		{"3", West, false},
		{"up", 0, true},
		{"6", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseDirection(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrIllegalTarget)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestDirection_VectorsAreUnitSteps(t *testing.T) {
	sum := Hex{}
	for _, d := range Directions() {
		v := d.Vector()
		assert.Equal(t, 1, Distance(Hex{}, v))
		assert.Equal(t, 0, v.Q+v.R+v.S())
		sum = sum.Add(v)
	}
	assert.Equal(t, Hex{}, sum)
	assert.Equal(t, Hex{}, Direction(7).Vector())
	assert.False(t, Direction(-1).Valid())
}

func TestModifierKind_Timing(t *testing.T) {
	pre := []ModifierKind{Tailwind, Headwind, Mega, Precision, Fireball}
	post := []ModifierKind{Wind, Chip, Portal}

	for _, k := range pre {
		assert.Equal(t, PreShot, k.Timing(), k.String())
	}
	for _, k := range post {
		assert.Equal(t, PostShot, k.Timing(), k.String())
	}
	for _, m := range DefaultModifiers() {
		assert.True(t, m.Kind.Valid())
		assert.Equal(t, m.Kind.Timing(), m.Timing())
	}
}

func TestModifierKind_JSONNames(t *testing.T) {
	data, err := json.Marshal(Modifier{Name: "Portal", Kind: Portal})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Portal","kind":"portal"}`, string(data))

	var m Modifier
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Gust","kind":"WIND"}`), &m))
	assert.Equal(t, Wind, m.Kind)

	_, err = json.Marshal(ModifierKind(99))
	assert.Error(t, err)
}

func TestGameState_JSONShape(t *testing.T) {
	e := newTestEngine(board(1, 1, nil), Hex{}, Hex{Q: 1}, []Club{putter}, nil, &scriptedRand{})
	require.NoError(t, e.SelectClub(0))

	data, err := json.Marshal(e.GetState())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	preview := raw["preview"].(map[string]any)
	targets := preview["eligible_targets"].([]any)
	require.Len(t, targets, 6)
	first := targets[0].(map[string]any)
	assert.Equal(t, "e", first["direction"])

	cells := raw["cells"].([]any)
	cell := cells[0].(map[string]any)
	assert.Contains(t, cell, "q")
	assert.Contains(t, cell, "terrain")
}
