package services

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePriority(t *testing.T) {
	tests := []struct {
		name string
		a, b TeamStanding
		want string
	}{
		{
			name: "higher cumulative",
			a:    TeamStanding{TeamID: "a", Cumulative: 150, AnchorRound: 10},
			b:    TeamStanding{TeamID: "b", Cumulative: 120, AnchorRound: 90},
			want: "a",
		},
		{
			name: "anchor round breaks tie",
			a:    TeamStanding{TeamID: "a", Cumulative: 100, AnchorRound: 40},
			b:    TeamStanding{TeamID: "b", Cumulative: 100, AnchorRound: 60},
			want: "b",
		},
		{
			name: "smaller id breaks full tie",
			a:    TeamStanding{TeamID: "team-z", Cumulative: 80, AnchorRound: 30},
			b:    TeamStanding{TeamID: "team-c", Cumulative: 80, AnchorRound: 30},
			want: "team-c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePriority(tt.a, tt.b)
			assert.Equal(t, tt.want, got.PriorityTeamID)
			assert.NotEqual(t, got.PriorityTeamID, got.PairedTeamID)
		})
	}
}

func TestResolvePriorityIsSymmetric(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	pick := func() float64 { return float64(rng.IntN(4) * 10) }

	for i := 0; i < 500; i++ {
		a := TeamStanding{TeamID: fmt.Sprintf("t%d", rng.IntN(5)), Cumulative: pick(), AnchorRound: pick()}
		b := TeamStanding{TeamID: fmt.Sprintf("u%d", rng.IntN(5)), Cumulative: pick(), AnchorRound: pick()}
		assert.Equal(t, ResolvePriority(a, b), ResolvePriority(b, a), "a=%+v b=%+v", a, b)
	}
}
