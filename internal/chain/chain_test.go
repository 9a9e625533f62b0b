package chain

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDishonestCasino_Decode(t *testing.T) {
	m := DishonestCasino()

	tests := []struct {
		obs    string
		states string
		score  float64
	}{
		{"1", "F", -2.4849066497880004},
		{"6", "L", -1.3862943611198906},
		{"123456", "FFFFFF", -11.700170467866025},
		{"66666666", "LLLLLLLL", -6.975848234644291},
		{"31245366666666662134", "FFFFFFLLLLLLLLLLFFFF", -32.199122041008806},
		{"12345123451234566666666666663214523145", "FFFFFFFFFFFFFFFLLLLLLLLLLLLLFFFFFFFFFF", -62.24043658389624},
	}

	for _, tt := range tests {
		t.Run(tt.obs, func(t *testing.T) {
			r, err := m.Decode(tt.obs)
			require.NoError(t, err)
			assert.Equal(t, tt.states, r.States)
			assert.InDelta(t, tt.score, r.Score, 1e-9)
		})
	}
}

func TestDecode_SingleRollScore(t *testing.T) {
	r, err := DishonestCasino().Decode("6")
	require.NoError(t, err)
	assert.InDelta(t, math.Log(0.5*0.5), r.Score, 1e-12)
}

func TestDecode_TieFavorsFirstState(t *testing.T) {
	m, err := New("AB", "x",
		[]float64{0.5, 0.5},
		mat.NewDense(2, 2, []float64{0.5, 0.5, 0.5, 0.5}),
		mat.NewDense(2, 1, []float64{1, 1}),
	)
	require.NoError(t, err)

	r, err := m.Decode("xxx")
	require.NoError(t, err)
	assert.Equal(t, "AAA", r.States)
}

func TestDecode_Errors(t *testing.T) {
	m := DishonestCasino()

	_, err := m.Decode("")
	assert.ErrorIs(t, err, ErrEmptyObservation)

	_, err = m.Decode("1237")
	var se *SymbolError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 3, se.Position)
	assert.Equal(t, byte('7'), se.Symbol)
	assert.Contains(t, se.Error(), "position 3")
}

func TestNew_Validation(t *testing.T) {
	trans := mat.NewDense(2, 2, []float64{0.9, 0.1, 0.2, 0.8})
	emit := mat.NewDense(2, 2, []float64{0.5, 0.5, 0.3, 0.7})

	_, err := New("AB", "xy", []float64{0.5, 0.5}, trans, emit)
	require.NoError(t, err)

	_, err = New("AB", "xy", []float64{0.6, 0.5}, trans, emit)
	assert.ErrorContains(t, err, "start")

	_, err = New("AB", "xy", []float64{1}, trans, emit)
	assert.Error(t, err)

	_, err = New("AB", "xy", []float64{0.5, 0.5}, mat.NewDense(2, 2, []float64{0.9, 0.2, 0.2, 0.8}), emit)
	assert.ErrorContains(t, err, "transitions from A")

	_, err = New("AB", "xyz", []float64{0.5, 0.5}, trans, emit)
	assert.Error(t, err)

	_, err = New("", "xy", nil, trans, emit)
	assert.Error(t, err)
}

func TestReadObservations(t *testing.T) {
	obs, err := ReadObservations(strings.NewReader("1234\r\n5666\n 12\n"))
	require.NoError(t, err)
	assert.Equal(t, "1234566612", obs)
}
