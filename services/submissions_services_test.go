package services

import (
	"context"
	"testing"
	"time"

	"hackathon-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitCreatesThenReplaces(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	track := f.track("AI")
	r1 := f.round(1, true)
	team := f.team("Alpha", track.ID, r1.ID)
	me := teamActor(team.ID)

	sub, created, err := f.svc.Submissions.Submit(ctx, me, r1.ID, SubmissionRequest{GithubLink: "https://github.com/alpha/v1"})
	require.NoError(t, err)
	assert.True(t, created)

	f.now = f.now.Add(time.Minute)
	again, created, err := f.svc.Submissions.Submit(ctx, me, r1.ID, SubmissionRequest{FileURL: "https://files/alpha.zip", Overview: "second try"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, sub.ID, again.ID)
	assert.Equal(t, "https://files/alpha.zip", again.FileURL)
	assert.Equal(t, "second try", again.Overview)
	assert.True(t, again.SubmittedAt.After(sub.SubmittedAt))
	assert.EqualValues(t, 1, f.count(&models.Submission{}, ""))
}

func TestSubmitRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	track := f.track("AI")
	r1 := f.round(1, true)
	r2 := f.round(2, false)
	team := f.team("Alpha", track.ID, r1.ID, r2.ID)
	outsider := f.team("Beta", track.ID)
	me := teamActor(team.ID)
	link := SubmissionRequest{GithubLink: "https://github.com/alpha"}

	_, _, err := f.svc.Submissions.Submit(ctx, me, r1.ID, SubmissionRequest{Overview: "no links"})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = f.svc.Submissions.Submit(ctx, me, "missing", link)
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = f.svc.Submissions.Submit(ctx, me, r2.ID, link)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, _, err = f.svc.Submissions.Submit(ctx, teamActor(outsider.ID), r1.ID, link)
	assert.ErrorIs(t, err, ErrForbidden)

	ended := f.now.Add(-time.Minute)
	require.NoError(t, f.db.Model(&r1).Update("end_time", ended).Error)
	_, _, err = f.svc.Submissions.Submit(ctx, me, r1.ID, link)
	assert.ErrorIs(t, err, ErrInvalidState)
	require.NoError(t, f.db.Model(&r1).Update("end_time", nil).Error)

	_, err = f.svc.Rounds.ToggleSubmission(ctx, admin, r1.ID)
	require.NoError(t, err)
	_, _, err = f.svc.Submissions.Submit(ctx, me, r1.ID, link)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = f.svc.Rounds.ToggleSubmission(ctx, admin, r1.ID)
	require.NoError(t, err)

	_, err = f.svc.Teams.SetLocked(ctx, admin, team.ID, true)
	require.NoError(t, err)
	_, _, err = f.svc.Submissions.Submit(ctx, me, r1.ID, link)
	assert.ErrorIs(t, err, ErrInvalidState)

	assert.Zero(t, f.count(&models.Submission{}, ""))
}

func TestListTeamSubmissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	track := f.track("AI")
	r1 := f.round(1, true)
	r2 := f.round(2, false)
	team := f.team("Alpha", track.ID, r1.ID, r2.ID)

	scoredSub := f.submission(team.ID, r1.ID)
	f.scored("judge-1", scoredSub.ID, 30)
	f.scored("judge-2", scoredSub.ID, 25)
	f.submission(team.ID, r2.ID)

	views, err := f.svc.Submissions.ListTeamSubmissions(ctx, teamActor(team.ID))
	require.NoError(t, err)
	require.Len(t, views, 2)

	byRound := map[int]SubmissionView{}
	for _, v := range views {
		byRound[v.RoundNumber] = v
	}
	require.NotNil(t, byRound[1].Score)
	assert.Equal(t, 55.0, *byRound[1].Score)
	assert.Equal(t, 2, byRound[1].NumJudges)
	assert.Nil(t, byRound[2].Score)
}

func TestListTeamSubmissionsCombinesDualScores(t *testing.T) {
	mean := func(sec, faculty float64) float64 { return (sec + faculty) / 2 }
	f := newFixture(t, WithDualScoreCombiner(mean))
	ctx := context.Background()
	track := f.track("AI")
	r4 := f.round(4, true)
	team := f.team("Alpha", track.ID, r4.ID)
	sub := f.submission(team.ID, r4.ID)
	for judge, pair := range map[string][2]float64{"judge-1": {60, 80}, "judge-2": {40, 20}} {
		score := models.Score{JudgeID: judge, SubmissionID: sub.ID, SecScore: ptr(pair[0]), FacultyScore: ptr(pair[1]), Status: models.ScoreStatusScored}
		require.NoError(t, f.db.Create(&score).Error)
	}

	views, err := f.svc.Submissions.ListTeamSubmissions(ctx, teamActor(team.ID))
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Score)
	assert.Equal(t, 100.0, *views[0].Score)
	assert.Equal(t, 2, views[0].NumJudges)

	total, err := f.svc.Scores.RoundScore(ctx, team.ID, r4.ID)
	require.NoError(t, err)
	assert.Equal(t, total, *views[0].Score)
}
