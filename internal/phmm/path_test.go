package phmm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func parsePath(s string) Path {
	p := make(Path, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'M':
			p[i] = Match
		case 'I':
			p[i] = Insert
		case 'D':
			p[i] = Delete
		}
	}
	return p
}

func TestPath_Runs(t *testing.T) {
	tests := []struct {
		path  string
		state State
		want  []int
	}{
		{"MMIMMMDM", Match, []int{2, 3, 1}},
		{"MMIMMMDM", Insert, []int{1}},
		{"IIMIIIM", Insert, []int{2, 3}},
		{"DDD", Match, nil},
		{"", Match, nil},
	}

	for _, tt := range tests {
		t.Run(tt.path+"/"+tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, parsePath(tt.path).Runs(tt.state))
		})
	}
}

func TestPath_Count(t *testing.T) {
	p := parsePath("MMIDMIM")
	assert.Equal(t, 4, p.Count(Match))
	assert.Equal(t, 2, p.Count(Insert))
	assert.Equal(t, 1, p.Count(Delete))
}

func TestPath_Positions(t *testing.T) {
	p := parsePath("IMMIIDM")
	assert.Equal(t, []int{0, 1, 2, 2, 2, 3, 4}, p.Positions())
	assert.Equal(t, "I0 M1 M2 I2 I2 D3 M4", p.Format())
}

func TestPath_String(t *testing.T) {
	assert.Equal(t, "MIDM", parsePath("MIDM").String())
	assert.Equal(t, "", Path(nil).String())
	assert.Equal(t, "State(7)", State(7).String())
}
