package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompetitionRanks(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   []int
	}{
		{"empty", nil, []int{}},
		{"distinct", []float64{90, 80, 70}, []int{1, 2, 3}},
		{"tie at top", []float64{150, 150, 120}, []int{1, 1, 3}},
		{"tie in middle", []float64{100, 80, 80, 80, 10}, []int{1, 2, 2, 2, 5}},
		{"all equal", []float64{0, 0}, []int{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompetitionRanks(tt.scores))
		})
	}
}
