package services

import (
	"context"
	"testing"

	"hackathon-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// shown returns the batch displayed to the setup's team
func (s displaySetup) shown(t *testing.T) []models.Subtask {
	t.Helper()
	got, err := s.svc.Displays.GetOrAssign(context.Background(), teamActor(s.team.ID), s.round.ID)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	return got
}

func TestSelectIsOneShot(t *testing.T) {
	s := newDisplaySetup(t, 4)
	ctx := context.Background()
	batch := s.shown(t)

	sel, err := s.svc.Selections.Select(ctx, teamActor(s.team.ID), s.round.ID, batch[0].ID)
	require.NoError(t, err)
	assert.Equal(t, batch[0].ID, sel.SubtaskID)
	assert.Equal(t, s.now, sel.SelectedAt.UTC())

	// A second attempt conflicts whatever it asks for
	_, err = s.svc.Selections.Select(ctx, teamActor(s.team.ID), s.round.ID, batch[1].ID)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = s.svc.Selections.Select(ctx, teamActor(s.team.ID), s.round.ID, "missing")
	assert.ErrorIs(t, err, ErrConflict)

	current, err := s.svc.Selections.Current(ctx, teamActor(s.team.ID), s.round.ID)
	require.NoError(t, err)
	assert.Equal(t, batch[0].ID, current.SubtaskID)
}

func TestSelectRejections(t *testing.T) {
	s := newDisplaySetup(t, 4)
	ctx := context.Background()
	batch := s.shown(t)
	me := teamActor(s.team.ID)

	var notShown models.Subtask
	require.NoError(t, s.db.Where("round_id = ? AND id NOT IN ?", s.round.ID, ids(batch)).First(&notShown).Error)

	_, err := s.svc.Selections.Select(ctx, me, s.round.ID, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.svc.Selections.Select(ctx, me, s.round.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.svc.Selections.Select(ctx, me, s.round.ID, notShown.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	outsider := s.fixture.team("Beta", s.track.ID)
	_, err = s.svc.Selections.Select(ctx, teamActor(outsider.ID), s.round.ID, batch[0].ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.svc.Rounds.SetSubtaskActive(ctx, admin, batch[0].ID, false)
	require.NoError(t, err)
	_, err = s.svc.Selections.Select(ctx, me, s.round.ID, batch[0].ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = s.svc.Rounds.Deactivate(ctx, admin, s.round.ID)
	require.NoError(t, err)
	_, err = s.svc.Selections.Select(ctx, me, s.round.ID, batch[1].ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	assert.Zero(t, s.count(&models.TeamSubtaskSelection{}, ""))
}

func TestConcurrentSelectsRecordOne(t *testing.T) {
	s := newDisplaySetup(t, 2)
	batch := s.shown(t)
	require.Len(t, batch, 2)

	var g errgroup.Group
	errs := make([]error, len(batch))
	for i, st := range batch {
		g.Go(func() error {
			_, errs[i] = s.svc.Selections.Select(context.Background(), teamActor(s.team.ID), s.round.ID, st.ID)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrConflict)
	}
	assert.Equal(t, 1, ok)
	assert.EqualValues(t, 1, s.count(&models.TeamSubtaskSelection{}, ""))
}
