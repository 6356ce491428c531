package database

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"hackathon-api/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fixture describes reference data loaded by the seed command
type Fixture struct {
	Tracks []struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"tracks"`
	Rounds []struct {
		ID                string     `yaml:"id"`
		RoundNumber       int        `yaml:"round_number"`
		StartTime         *time.Time `yaml:"start_time"`
		EndTime           *time.Time `yaml:"end_time"`
		SubmissionEnabled bool       `yaml:"submission_enabled"`
		Instructions      string     `yaml:"instructions"`
	} `yaml:"rounds"`
	Teams []struct {
		ID               string   `yaml:"id"`
		Name             string   `yaml:"name"`
		TrackID          string   `yaml:"track_id"`
		RoundsAccessible []string `yaml:"rounds_accessible"`
	} `yaml:"teams"`
	Subtasks []struct {
		ID          string `yaml:"id"`
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		TrackID     string `yaml:"track_id"`
		RoundID     string `yaml:"round_id"`
	} `yaml:"subtasks"`
	JudgeAssignments []struct {
		JudgeID string  `yaml:"judge_id"`
		TeamID  string  `yaml:"team_id"`
		RoundID *string `yaml:"round_id"`
	} `yaml:"judge_assignments"`
}

// LoadFixture parses a YAML fixture file
func LoadFixture(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	var fixture Fixture
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &fixture, nil
}

// Populate inserts the fixture rows that do not exist yet. Rounds are always created inactive.
func Populate(db *gorm.DB, fixture *Fixture) error {
	return db.Transaction(func(tx *gorm.DB) error {
		skipExisting := tx.Clauses(clause.OnConflict{DoNothing: true}).Session(&gorm.Session{})

		for _, t := range fixture.Tracks {
			if err := skipExisting.Create(&models.Track{ID: t.ID, Name: t.Name}).Error; err != nil {
				return fmt.Errorf("track %s: %w", t.ID, err)
			}
		}
		for _, r := range fixture.Rounds {
			round := models.Round{
				ID:                r.ID,
				RoundNumber:       r.RoundNumber,
				StartTime:         r.StartTime,
				EndTime:           r.EndTime,
				SubmissionEnabled: r.SubmissionEnabled,
				Instructions:      r.Instructions,
			}
			if err := skipExisting.Create(&round).Error; err != nil {
				return fmt.Errorf("round %s: %w", r.ID, err)
			}
		}
		for _, t := range fixture.Teams {
			if err := skipExisting.Create(&models.Team{ID: t.ID, Name: t.Name, TrackID: t.TrackID}).Error; err != nil {
				return fmt.Errorf("team %s: %w", t.ID, err)
			}
			for _, roundID := range t.RoundsAccessible {
				if err := skipExisting.Create(&models.TeamRound{TeamID: t.ID, RoundID: roundID}).Error; err != nil {
					return fmt.Errorf("team %s access to %s: %w", t.ID, roundID, err)
				}
			}
		}
		for _, s := range fixture.Subtasks {
			subtask := models.Subtask{
				ID:          s.ID,
				Title:       s.Title,
				Description: s.Description,
				TrackID:     s.TrackID,
				RoundID:     s.RoundID,
				IsActive:    true,
			}
			if err := skipExisting.Create(&subtask).Error; err != nil {
				return fmt.Errorf("subtask %s: %w", s.ID, err)
			}
		}
		for _, a := range fixture.JudgeAssignments {
			assignment := models.JudgeAssignment{JudgeID: a.JudgeID, TeamID: a.TeamID, RoundID: a.RoundID}
			if err := tx.Where(models.JudgeAssignment{JudgeID: a.JudgeID, TeamID: a.TeamID}).
				FirstOrCreate(&assignment).Error; err != nil {
				return fmt.Errorf("judge assignment %s/%s: %w", a.JudgeID, a.TeamID, err)
			}
		}

		slog.Info("fixture loaded",
			slog.Int("tracks", len(fixture.Tracks)),
			slog.Int("rounds", len(fixture.Rounds)),
			slog.Int("teams", len(fixture.Teams)),
			slog.Int("subtasks", len(fixture.Subtasks)),
		)
		return nil
	})
}
