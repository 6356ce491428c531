package services

import (
	"context"
	"errors"
	"testing"

	"hackathon-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAssignments struct {
	assigned bool
	err      error
}

func (s stubAssignments) IsAssigned(context.Context, string, string, string) (bool, error) {
	return s.assigned, s.err
}

type scoreSetup struct {
	*fixture
	r1, r4 models.Round
	alpha  models.Team
}

func newScoreSetup(t *testing.T, opts ...Option) scoreSetup {
	f := newFixture(t, opts...)
	track := f.track("AI")
	s := scoreSetup{fixture: f}
	s.r1 = f.round(1, true)
	s.r4 = f.round(4, false)
	s.alpha = f.team("Alpha", track.ID, s.r1.ID, s.r4.ID)
	f.assign("judge-1", s.alpha.ID)
	return s
}

func TestScoreWithoutSubmission(t *testing.T) {
	s := newScoreSetup(t)

	_, err := s.svc.Scores.ScoreTeamRound(context.Background(), judgeActor("judge-1"), s.r1.ID, s.alpha.ID, ScorePayload{Score: ptr(80.0)})
	require.ErrorIs(t, err, ErrNoSubmission)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Zero(t, s.count(&models.Score{}, ""))

	_, err = s.svc.Scores.UpsertScore(context.Background(), judgeActor("judge-1"), "missing", ScorePayload{Score: ptr(80.0)})
	assert.ErrorIs(t, err, ErrNoSubmission)
	assert.Zero(t, s.count(&models.Score{}, ""))
}

func TestScoreRequiresAssignment(t *testing.T) {
	s := newScoreSetup(t)
	sub := s.submission(s.alpha.ID, s.r1.ID)

	_, err := s.svc.Scores.UpsertScore(context.Background(), judgeActor("judge-2"), sub.ID, ScorePayload{Score: ptr(50.0)})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.svc.Scores.UpsertScore(context.Background(), teamActor(s.alpha.ID), sub.ID, ScorePayload{Score: ptr(50.0)})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestScoreAssignmentChecker(t *testing.T) {
	t.Run("refuses", func(t *testing.T) {
		s := newScoreSetup(t, WithAssignmentChecker(stubAssignments{assigned: false}))
		sub := s.submission(s.alpha.ID, s.r1.ID)
		_, err := s.svc.Scores.UpsertScore(context.Background(), judgeActor("judge-1"), sub.ID, ScorePayload{Score: ptr(50.0)})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("fails", func(t *testing.T) {
		boom := errors.New("directory unavailable")
		s := newScoreSetup(t, WithAssignmentChecker(stubAssignments{err: boom}))
		sub := s.submission(s.alpha.ID, s.r1.ID)
		_, err := s.svc.Scores.UpsertScore(context.Background(), judgeActor("judge-1"), sub.ID, ScorePayload{Score: ptr(50.0)})
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, KindOf(err))
	})

	t.Run("accepts any judge", func(t *testing.T) {
		s := newScoreSetup(t, WithAssignmentChecker(stubAssignments{assigned: true}))
		sub := s.submission(s.alpha.ID, s.r1.ID)
		_, err := s.svc.Scores.UpsertScore(context.Background(), judgeActor("judge-9"), sub.ID, ScorePayload{Score: ptr(50.0)})
		assert.NoError(t, err)
	})
}

func TestUpsertScoreUpdatesInPlace(t *testing.T) {
	s := newScoreSetup(t)
	ctx := context.Background()
	sub := s.submission(s.alpha.ID, s.r1.ID)
	judge := judgeActor("judge-1")

	first, err := s.svc.Scores.UpsertScore(ctx, judge, sub.ID, ScorePayload{Score: ptr(60.0), Remarks: "solid"})
	require.NoError(t, err)
	assert.Equal(t, models.ScoreStatusScored, first.Status)
	assert.Nil(t, first.SecScore)

	second, err := s.svc.Scores.UpsertScore(ctx, judge, sub.ID, ScorePayload{Score: ptr(75.0), Remarks: "improved"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 75.0, *second.Score)
	assert.Equal(t, "improved", second.Remarks)
	assert.EqualValues(t, 1, s.count(&models.Score{}, ""))
}

func TestScorePayloadValidation(t *testing.T) {
	s := newScoreSetup(t)
	ctx := context.Background()
	single := s.submission(s.alpha.ID, s.r1.ID)
	dual := s.submission(s.alpha.ID, s.r4.ID)
	judge := judgeActor("judge-1")

	tests := []struct {
		name         string
		submissionID string
		payload      ScorePayload
		wantErr      bool
	}{
		{"single needs score", single.ID, ScorePayload{SecScore: ptr(10.0), FacultyScore: ptr(10.0)}, true},
		{"single above range", single.ID, ScorePayload{Score: ptr(101.0)}, true},
		{"single below range", single.ID, ScorePayload{Score: ptr(-1.0)}, true},
		{"single rejects sec_score", single.ID, ScorePayload{Score: ptr(50.0), SecScore: ptr(10.0)}, true},
		{"single rejects faculty_score", single.ID, ScorePayload{Score: ptr(50.0), FacultyScore: ptr(10.0)}, true},
		{"single ok", single.ID, ScorePayload{Score: ptr(100.0)}, false},
		{"dual needs both", dual.ID, ScorePayload{SecScore: ptr(10.0)}, true},
		{"dual ignores plain score", dual.ID, ScorePayload{Score: ptr(10.0)}, true},
		{"dual out of range", dual.ID, ScorePayload{SecScore: ptr(10.0), FacultyScore: ptr(120.0)}, true},
		{"dual rejects score alongside both", dual.ID, ScorePayload{Score: ptr(99.0), SecScore: ptr(40.0), FacultyScore: ptr(0.0)}, true},
		{"dual ok", dual.ID, ScorePayload{SecScore: ptr(40.0), FacultyScore: ptr(0.0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := s.svc.Scores.UpsertScore(ctx, judge, tt.submissionID, tt.payload)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			if tt.submissionID == dual.ID {
				assert.Nil(t, score.Score)
				assert.Equal(t, 40.0, *score.SecScore)
			} else {
				assert.Nil(t, score.SecScore)
				assert.Nil(t, score.FacultyScore)
			}
		})
	}
}

func TestRoundAndCumulativeScores(t *testing.T) {
	s := newScoreSetup(t)
	ctx := context.Background()
	sub1 := s.submission(s.alpha.ID, s.r1.ID)
	s.scored("judge-1", sub1.ID, 40)
	s.scored("judge-2", sub1.ID, 35)

	pending := models.Score{JudgeID: "judge-3", SubmissionID: sub1.ID, Score: ptr(100.0), Status: models.ScoreStatusPending}
	require.NoError(t, s.db.Create(&pending).Error)

	// A round the team lost access to does not count towards the total
	r2 := s.round(2, false)
	sub2 := s.submission(s.alpha.ID, r2.ID)
	s.scored("judge-1", sub2.ID, 50)

	roundScore, err := s.svc.Scores.RoundScore(ctx, s.alpha.ID, s.r1.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, roundScore)

	for i := 0; i < 2; i++ {
		total, err := s.svc.Scores.CumulativeScore(ctx, s.alpha.ID)
		require.NoError(t, err)
		assert.Equal(t, 75.0, total)
	}

	s.grant(s.alpha.ID, r2.ID)
	total, err := s.svc.Scores.CumulativeScore(ctx, s.alpha.ID)
	require.NoError(t, err)
	assert.Equal(t, 125.0, total)

	standing, err := s.svc.Scores.Standing(ctx, s.alpha.ID)
	require.NoError(t, err)
	assert.Equal(t, TeamStanding{TeamID: s.alpha.ID, Cumulative: 125, AnchorRound: 50}, standing)
}

func TestDualScoresNeedCombiner(t *testing.T) {
	ctx := context.Background()
	seed := func(s scoreSetup) {
		sub := s.submission(s.alpha.ID, s.r4.ID)
		_, err := s.svc.Scores.UpsertScore(ctx, judgeActor("judge-1"), sub.ID, ScorePayload{SecScore: ptr(60.0), FacultyScore: ptr(80.0)})
		require.NoError(t, err)
	}

	t.Run("without combiner", func(t *testing.T) {
		s := newScoreSetup(t)
		seed(s)
		total, err := s.svc.Scores.CumulativeScore(ctx, s.alpha.ID)
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("with combiner", func(t *testing.T) {
		mean := func(sec, faculty float64) float64 { return (sec + faculty) / 2 }
		s := newScoreSetup(t, WithDualScoreCombiner(mean))
		seed(s)
		total, err := s.svc.Scores.RoundScore(ctx, s.alpha.ID, s.r4.ID)
		require.NoError(t, err)
		assert.Equal(t, 70.0, total)
	})
}

func TestJudgeAssignments(t *testing.T) {
	s := newScoreSetup(t)
	ctx := context.Background()
	other := s.team("Beta", s.alpha.TrackID)

	a, err := s.svc.Scores.AssignJudge(ctx, admin, "judge-2", other.ID, &s.r1.ID)
	require.NoError(t, err)
	again, err := s.svc.Scores.AssignJudge(ctx, admin, "judge-2", other.ID, &s.r1.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, again.ID)

	teams, err := s.svc.Scores.AssignedTeams(ctx, judgeActor("judge-2"), s.r1.ID)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, other.ID, teams[0].ID)

	teams, err = s.svc.Scores.AssignedTeams(ctx, judgeActor("judge-2"), s.r4.ID)
	require.NoError(t, err)
	assert.Empty(t, teams)

	_, err = s.svc.Scores.AssignJudge(ctx, judgeActor("judge-2"), "judge-2", other.ID, nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestEvaluation(t *testing.T) {
	s := newScoreSetup(t)
	ctx := context.Background()
	judge := judgeActor("judge-1")
	task := s.subtask("Vision", s.alpha.TrackID, s.r1.ID)

	eval, err := s.svc.Scores.Evaluation(ctx, judge, ActiveRoundAlias, s.alpha.ID)
	require.NoError(t, err)
	assert.Equal(t, s.r1.ID, eval.Round.ID)
	assert.Equal(t, "AI", eval.Team.Track)
	assert.Nil(t, eval.SelectedSubtask)
	assert.Nil(t, eval.Submission)
	assert.Equal(t, models.ScoreStatusPending, eval.Status)
	assert.False(t, eval.DualScore)

	require.NoError(t, s.db.Create(&models.TeamSubtaskSelection{TeamID: s.alpha.ID, RoundID: s.r1.ID, SubtaskID: task.ID, SelectedAt: s.now}).Error)
	sub := s.submission(s.alpha.ID, s.r1.ID)
	_, err = s.svc.Scores.UpsertScore(ctx, judge, sub.ID, ScorePayload{Score: ptr(42.0), Remarks: "solid"})
	require.NoError(t, err)
	s.scored("judge-2", sub.ID, 90)

	eval, err = s.svc.Scores.Evaluation(ctx, judge, s.r1.ID, s.alpha.ID)
	require.NoError(t, err)
	require.NotNil(t, eval.SelectedSubtask)
	assert.Equal(t, task.ID, eval.SelectedSubtask.ID)
	require.NotNil(t, eval.Submission)
	assert.Equal(t, sub.ID, eval.Submission.ID)
	require.NotNil(t, eval.Score)
	assert.Equal(t, 42.0, *eval.Score)
	assert.Equal(t, "solid", eval.Remarks)
	assert.Equal(t, models.ScoreStatusScored, eval.Status)

	eval, err = s.svc.Scores.Evaluation(ctx, judge, s.r4.ID, s.alpha.ID)
	require.NoError(t, err)
	assert.True(t, eval.DualScore)
	assert.Nil(t, eval.Submission)
}

func TestEvaluationRejections(t *testing.T) {
	s := newScoreSetup(t)
	ctx := context.Background()
	judge := judgeActor("judge-1")
	other := s.team("Beta", s.alpha.TrackID, s.r1.ID)

	_, err := s.svc.Scores.Evaluation(ctx, judge, s.r1.ID, other.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.svc.Scores.Evaluation(ctx, admin, s.r1.ID, s.alpha.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.svc.Scores.Evaluation(ctx, judge, "missing", s.alpha.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.svc.Scores.Evaluation(ctx, judge, s.r1.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.db.Model(&s.r1).Update("is_active", false).Error)
	_, err = s.svc.Scores.Evaluation(ctx, judge, ActiveRoundAlias, s.alpha.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
