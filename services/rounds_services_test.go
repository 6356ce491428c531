package services

import (
	"context"
	"testing"
	"time"

	"hackathon-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestActivateRejectsWhileAnotherRoundIsActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r1 := f.round(1, true)
	r2 := f.round(2, false)

	_, err := f.svc.Rounds.Activate(ctx, admin, r2.ID)
	require.ErrorIs(t, err, ErrConflict)

	current, err := f.svc.Rounds.ActiveRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, r1.ID, current.ID)

	_, err = f.svc.Rounds.Deactivate(ctx, admin, r1.ID)
	require.NoError(t, err)
	view, err := f.svc.Rounds.Activate(ctx, admin, r2.ID)
	require.NoError(t, err)
	assert.True(t, view.IsActive)
	assert.Equal(t, RoundStatusActive, view.Status)
}

func TestActivateAlreadyActiveRoundIsNoop(t *testing.T) {
	f := newFixture(t)
	r1 := f.round(1, true)

	view, err := f.svc.Rounds.Activate(context.Background(), admin, r1.ID)
	require.NoError(t, err)
	assert.True(t, view.IsActive)
}

func TestActivateErrors(t *testing.T) {
	f := newFixture(t)
	r1 := f.round(1, false)

	_, err := f.svc.Rounds.Activate(context.Background(), admin, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Rounds.Activate(context.Background(), teamActor("team-1"), r1.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestConcurrentActivationsLeaveOneActiveRound(t *testing.T) {
	f := newFixture(t)
	rounds := []models.Round{f.round(1, false), f.round(2, false), f.round(3, false)}

	var g errgroup.Group
	errs := make([]error, len(rounds))
	for i, r := range rounds {
		g.Go(func() error {
			_, errs[i] = f.svc.Rounds.Activate(context.Background(), admin, r.ID)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrConflict)
	}
	assert.Equal(t, 1, succeeded)
	assert.EqualValues(t, 1, f.count(&models.Round{}, "is_active = ?", true))
}

func TestDeactivateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	r1 := f.round(1, false)

	view, err := f.svc.Rounds.Deactivate(context.Background(), admin, r1.ID)
	require.NoError(t, err)
	assert.False(t, view.IsActive)
}

func TestToggleSubmission(t *testing.T) {
	f := newFixture(t)
	r1 := f.round(1, true)
	ctx := context.Background()

	view, err := f.svc.Rounds.ToggleSubmission(ctx, admin, r1.ID)
	require.NoError(t, err)
	assert.False(t, view.SubmissionEnabled)

	view, err = f.svc.Rounds.ToggleSubmission(ctx, admin, r1.ID)
	require.NoError(t, err)
	assert.True(t, view.SubmissionEnabled)

	_, err = f.svc.Rounds.ToggleSubmission(ctx, admin, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatus(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)
	earlier := now.Add(-time.Hour)

	tests := []struct {
		name  string
		round models.Round
		want  RoundStatus
	}{
		{"active wins over schedule", models.Round{IsActive: true, StartTime: &later}, RoundStatusActive},
		{"future start", models.Round{StartTime: &later}, RoundStatusUpcoming},
		{"past start", models.Round{StartTime: &earlier}, RoundStatusCompleted},
		{"no schedule", models.Round{}, RoundStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.round, now))
		})
	}
}

func TestCreateRound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := f.now.Add(time.Hour)
	end := start.Add(2 * time.Hour)

	view, err := f.svc.Rounds.CreateRound(ctx, admin, CreateRoundRequest{RoundNumber: 1, StartTime: &start, EndTime: &end})
	require.NoError(t, err)
	assert.False(t, view.IsActive)
	assert.Equal(t, RoundStatusUpcoming, view.Status)

	_, err = f.svc.Rounds.CreateRound(ctx, admin, CreateRoundRequest{RoundNumber: 1})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.Rounds.CreateRound(ctx, admin, CreateRoundRequest{RoundNumber: 2, StartTime: &end, EndTime: &start})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Rounds.CreateRound(ctx, admin, CreateRoundRequest{RoundNumber: 0})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListAndTeamRounds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	track := f.track("AI")
	r2 := f.round(2, false)
	r1 := f.round(1, true)
	team := f.team("Alpha", track.ID, r1.ID)

	all, err := f.svc.Rounds.ListRounds(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, []int{1, 2}, []int{all[0].RoundNumber, all[1].RoundNumber})
	assert.Equal(t, r2.ID, all[1].ID)

	mine, err := f.svc.Rounds.TeamRounds(ctx, teamActor(team.ID))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, r1.ID, mine[0].ID)
}

func TestActiveRoundNotFound(t *testing.T) {
	f := newFixture(t)
	f.round(1, false)

	_, err := f.svc.Rounds.ActiveRound(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubtaskAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	track := f.track("AI")
	r1 := f.round(1, true)

	st, err := f.svc.Rounds.CreateSubtask(ctx, admin, r1.ID, CreateSubtaskRequest{Title: "Chatbot", TrackID: track.ID})
	require.NoError(t, err)
	assert.True(t, st.IsActive)

	_, err = f.svc.Rounds.CreateSubtask(ctx, admin, r1.ID, CreateSubtaskRequest{Title: "Ghost", TrackID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)

	st, err = f.svc.Rounds.SetSubtaskActive(ctx, admin, st.ID, false)
	require.NoError(t, err)
	assert.False(t, st.IsActive)

	list, err := f.svc.Rounds.ListSubtasks(ctx, r1.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
