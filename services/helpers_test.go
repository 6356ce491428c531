package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"hackathon-api/config"
	"hackathon-api/database/dbtest"
	"hackathon-api/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var admin = Actor{ID: "admin-1", Role: RoleAdmin}

func teamActor(id string) Actor  { return Actor{ID: id, Role: RoleTeam} }
func judgeActor(id string) Actor { return Actor{ID: id, Role: RoleJudge} }

// fixture builds rows directly in a fresh database
type fixture struct {
	t   *testing.T
	db  *gorm.DB
	svc *Services
	now time.Time
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		t:   t,
		db:  dbtest.Open(t),
		now: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return f.now }),
	}
	f.svc = New(f.db, config.DefaultRoundPolicy, append(base, opts...)...)
	return f
}

func (f *fixture) track(name string) models.Track {
	f.t.Helper()
	track := models.Track{Name: name}
	require.NoError(f.t, f.db.Create(&track).Error)
	return track
}

func (f *fixture) round(number int, active bool) models.Round {
	f.t.Helper()
	round := models.Round{RoundNumber: number, IsActive: active, SubmissionEnabled: true}
	require.NoError(f.t, f.db.Create(&round).Error)
	return round
}

func (f *fixture) team(name, trackID string, roundIDs ...string) models.Team {
	f.t.Helper()
	team := models.Team{Name: name, TrackID: trackID}
	require.NoError(f.t, f.db.Create(&team).Error)
	f.grant(team.ID, roundIDs...)
	return team
}

func (f *fixture) grant(teamID string, roundIDs ...string) {
	f.t.Helper()
	for _, roundID := range roundIDs {
		require.NoError(f.t, f.db.Create(&models.TeamRound{TeamID: teamID, RoundID: roundID}).Error)
	}
}

func (f *fixture) subtask(title, trackID, roundID string) models.Subtask {
	f.t.Helper()
	subtask := models.Subtask{Title: title, Description: title, TrackID: trackID, RoundID: roundID, IsActive: true}
	require.NoError(f.t, f.db.Create(&subtask).Error)
	return subtask
}

func (f *fixture) submission(teamID, roundID string) models.Submission {
	f.t.Helper()
	sub := models.Submission{TeamID: teamID, RoundID: roundID, GithubLink: "https://github.com/example/" + teamID, SubmittedAt: f.now}
	require.NoError(f.t, f.db.Create(&sub).Error)
	return sub
}

// scored stores a scored single-value evaluation
func (f *fixture) scored(judgeID, submissionID string, value float64) {
	f.t.Helper()
	score := models.Score{JudgeID: judgeID, SubmissionID: submissionID, Score: &value, Status: models.ScoreStatusScored}
	require.NoError(f.t, f.db.Create(&score).Error)
}

func (f *fixture) assign(judgeID, teamID string) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(&models.JudgeAssignment{JudgeID: judgeID, TeamID: teamID}).Error)
}

func (f *fixture) count(model interface{}, query string, args ...interface{}) int64 {
	f.t.Helper()
	var n int64
	q := f.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(f.t, q.Count(&n).Error)
	return n
}

func ids(subtasks []models.Subtask) []string {
	out := make([]string, 0, len(subtasks))
	for _, s := range subtasks {
		out = append(out, s.ID)
	}
	return out
}

func ptr[T any](v T) *T { return &v }
