package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectMode(t *testing.T) {
	tests := []struct {
		name     string
		units    int
		override int
		want     Mode
	}{
		{"one unit", 1, 0, Single()},
		{"zero units", 0, 0, Single()},
		{"four units", 4, 0, Parallel(4)},
		{"override forces single", 8, 1, Single()},
		{"override raises workers", 1, 3, Parallel(3)},
		{"negative override ignored", 2, -1, Parallel(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectMode(tt.units, tt.override))
		})
	}
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "single", Single().String())
	assert.Equal(t, "parallel(4)", Parallel(4).String())
	assert.Equal(t, "unknown", Mode{}.String())
}

func TestEngine_ModeFromUnits(t *testing.T) {
	c := testChain(t, "md5")

	assert.Equal(t, Single(), New(c, WithUnits(FixedUnits(1))).Mode())
	assert.Equal(t, Parallel(6), New(c, WithUnits(FixedUnits(6))).Mode())
	assert.Equal(t, Single(), New(c, WithUnits(FixedUnits(6)), WithWorkers(1)).Mode())
}

func TestDetectUnits_Positive(t *testing.T) {
	assert.GreaterOrEqual(t, DetectUnits(), 1)
}
