package services

import (
	"context"
	"testing"

	"hackathon-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateScore(t *testing.T) {
	s := newScoreSetup(t)
	ctx := context.Background()
	single := s.submission(s.alpha.ID, s.r1.ID)
	dual := s.submission(s.alpha.ID, s.r4.ID)
	judge := judgeActor("judge-1")

	plain, err := s.svc.Scores.UpsertScore(ctx, judge, single.ID, ScorePayload{Score: ptr(40.0), Remarks: "first"})
	require.NoError(t, err)
	split, err := s.svc.Scores.UpsertScore(ctx, judge, dual.ID, ScorePayload{SecScore: ptr(10.0), FacultyScore: ptr(20.0)})
	require.NoError(t, err)

	got, err := s.svc.Scores.UpdateScore(ctx, admin, plain.ID, ScoreUpdate{Score: ptr(60.0)})
	require.NoError(t, err)
	assert.Equal(t, 60.0, *got.Score)
	assert.Equal(t, "first", got.Remarks)

	got, err = s.svc.Scores.UpdateScore(ctx, admin, split.ID, ScoreUpdate{FacultyScore: ptr(30.0), Remarks: ptr("moderated")})
	require.NoError(t, err)
	assert.Equal(t, 10.0, *got.SecScore)
	assert.Equal(t, 30.0, *got.FacultyScore)
	assert.Equal(t, "moderated", got.Remarks)

	total, err := s.svc.Scores.RoundScore(ctx, s.alpha.ID, s.r1.ID)
	require.NoError(t, err)
	assert.Equal(t, 60.0, total)

	tests := []struct {
		name    string
		scoreID string
		update  ScoreUpdate
		want    error
	}{
		{"single rejects sec_score", plain.ID, ScoreUpdate{SecScore: ptr(5.0)}, ErrValidation},
		{"dual rejects score", split.ID, ScoreUpdate{Score: ptr(5.0)}, ErrValidation},
		{"out of range", plain.ID, ScoreUpdate{Score: ptr(101.0)}, ErrValidation},
		{"missing score", "missing", ScoreUpdate{Score: ptr(5.0)}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.svc.Scores.UpdateScore(ctx, admin, tt.scoreID, tt.update)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err = s.svc.Scores.UpdateScore(ctx, judge, plain.ID, ScoreUpdate{Score: ptr(5.0)})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetAndDeleteScore(t *testing.T) {
	s := newScoreSetup(t)
	ctx := context.Background()
	sub := s.submission(s.alpha.ID, s.r1.ID)
	score, err := s.svc.Scores.UpsertScore(ctx, judgeActor("judge-1"), sub.ID, ScorePayload{Score: ptr(70.0)})
	require.NoError(t, err)

	got, err := s.svc.Scores.GetScore(ctx, admin, score.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, got.SubmissionID)
	_, err = s.svc.Scores.GetScore(ctx, judgeActor("judge-1"), score.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, s.svc.Scores.DeleteScore(ctx, admin, score.ID))
	assert.ErrorIs(t, s.svc.Scores.DeleteScore(ctx, admin, score.ID), ErrNotFound)

	total, err := s.svc.Scores.CumulativeScore(ctx, s.alpha.ID)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSubmissionModeration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	track := f.track("AI")
	r1 := f.round(1, true)
	team := f.team("Alpha", track.ID, r1.ID)
	sub := f.submission(team.ID, r1.ID)
	f.scored("judge-1", sub.ID, 30)

	got, err := f.svc.Submissions.GetSubmission(ctx, admin, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, team.ID, got.TeamID)
	_, err = f.svc.Submissions.GetSubmission(ctx, teamActor(team.ID), sub.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err = f.svc.Submissions.UpdateSubmission(ctx, admin, sub.ID, SubmissionUpdate{FileURL: ptr("https://files/alpha.zip"), Overview: ptr("fixed")})
	require.NoError(t, err)
	assert.Equal(t, "https://files/alpha.zip", got.FileURL)
	assert.Equal(t, sub.GithubLink, got.GithubLink)
	assert.Equal(t, "fixed", got.Overview)

	got, err = f.svc.Submissions.UpdateSubmission(ctx, admin, sub.ID, SubmissionUpdate{GithubLink: ptr("")})
	require.NoError(t, err)
	assert.Empty(t, got.GithubLink)
	_, err = f.svc.Submissions.UpdateSubmission(ctx, admin, sub.ID, SubmissionUpdate{FileURL: ptr(" ")})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, f.svc.Submissions.DeleteSubmission(ctx, admin, sub.ID))
	assert.Zero(t, f.count(&models.Submission{}, ""))
	assert.Zero(t, f.count(&models.Score{}, ""))
	assert.ErrorIs(t, f.svc.Submissions.DeleteSubmission(ctx, admin, sub.ID), ErrNotFound)
}
