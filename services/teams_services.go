package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"hackathon-api/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// defaultTrackName is used for imported teams without a track
const defaultTrackName = "General"

// ImportResult reports a bulk team import
type ImportResult struct {
	Created int           `json:"created"`
	Errors  []ImportError `json:"errors"`
}

type ImportError struct {
	Sheet string `json:"sheet"`
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// Dashboard is a team's view of where it stands in the competition
type Dashboard struct {
	TeamID            string     `json:"team_id"`
	TeamName          string     `json:"team_name"`
	TrackID           string     `json:"track_id"`
	Track             string     `json:"track"`
	CurrentRound      *RoundView `json:"current_round"`
	CurrentRoundScore *float64   `json:"current_round_score"`
	LatestRoundScore  *float64   `json:"latest_round_score"`
	TotalScore        float64    `json:"total_score"`
	RoundsAccessible  []string   `json:"rounds_accessible"`
}

// TeamService covers the admin operations on teams
type TeamService struct {
	*core
	scores *ScoreService
}

// GetTeam returns a team with the rounds it may access. A team may only read itself.
func (s *TeamService) GetTeam(ctx context.Context, actor Actor, teamID string) (*models.Team, error) {
	if err := actor.require(RoleAdmin, RoleTeam); err != nil {
		return nil, err
	}
	if actor.Role == RoleTeam && actor.ID != teamID {
		return nil, forbidden("a team may only read its own record")
	}

	db := s.db.WithContext(ctx)
	team, err := loadTeam(db, teamID)
	if err != nil {
		return nil, err
	}
	if team.RoundsAccessible, err = accessibleRounds(db, teamID); err != nil {
		return nil, err
	}
	return team, nil
}

// ListTeams returns the teams of a track, or every team when trackID is empty
func (s *TeamService) ListTeams(ctx context.Context, actor Actor, trackID string) ([]models.Team, error) {
	if err := actor.require(RoleAdmin); err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Order("name, id")
	if trackID != "" {
		q = q.Where("track_id = ?", trackID)
	}
	var teams []models.Team
	if err := q.Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return teams, nil
}

// Dashboard returns the calling team's track, its current round and its scores.
// The current round is the active round when the team may access it.
func (s *TeamService) Dashboard(ctx context.Context, actor Actor) (*Dashboard, error) {
	if err := actor.require(RoleTeam); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	team, err := loadTeam(db, actor.ID)
	if err != nil {
		return nil, err
	}
	var track models.Track
	if err := db.Where("id = ?", team.TrackID).Limit(1).Find(&track).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	accessible, err := accessibleRounds(db, team.ID)
	if err != nil {
		return nil, err
	}

	var rounds []models.Round
	if len(accessible) > 0 {
		if err := db.Where("id IN ?", accessible).Order("round_number").Find(&rounds).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	ledgers, err := s.scores.ledgers(db, []string{team.ID})
	if err != nil {
		return nil, err
	}
	ledger := ledgers[team.ID]

	d := &Dashboard{
		TeamID:           team.ID,
		TeamName:         team.Name,
		TrackID:          team.TrackID,
		Track:            track.Name,
		TotalScore:       ledger.Total,
		RoundsAccessible: accessible,
	}
	if d.RoundsAccessible == nil {
		d.RoundsAccessible = []string{}
	}
	now := s.now()
	for i := range rounds {
		if rounds[i].IsActive {
			d.CurrentRound = &RoundView{Round: rounds[i], Status: Status(rounds[i], now)}
			if v, ok := ledger.ByRound[rounds[i].ID]; ok {
				d.CurrentRoundScore = &v
			}
		}
	}
	// Latest is the highest numbered accessible round that has been scored
	for i := len(rounds) - 1; i >= 0; i-- {
		if v, ok := ledger.ByRound[rounds[i].ID]; ok {
			d.LatestRoundScore = &v
			break
		}
	}
	return d, nil
}

// Shortlist qualifies a team for roundID. Access is only ever added.
func (s *TeamService) Shortlist(ctx context.Context, actor Actor, teamID, roundID string) (*models.Team, error) {
	if err := actor.require(RoleAdmin); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		team, err := loadTeam(tx, teamID)
		if err != nil {
			return err
		}
		if _, err := loadRound(tx, roundID); err != nil {
			return err
		}
		if err := grantRoundAccess(tx, roundID, team.ID); err != nil {
			return err
		}
		if err := tx.Model(team).Update("is_shortlisted", true).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("team shortlisted", slog.String("team_id", teamID), slog.String("round_id", roundID))
	return s.GetTeam(ctx, actor, teamID)
}

// SetLocked freezes or releases a team's submissions
func (s *TeamService) SetLocked(ctx context.Context, actor Actor, teamID string, locked bool) (*models.Team, error) {
	if err := actor.require(RoleAdmin); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	team, err := loadTeam(db, teamID)
	if err != nil {
		return nil, err
	}
	if err := db.Model(team).Update("is_locked", locked).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	team.IsLocked = locked

	s.logger.Info("team lock changed", slog.String("team_id", teamID), slog.Bool("locked", locked))
	return team, nil
}

// ImportTeams creates teams from an xlsx workbook. Each sheet needs a header row with a
// "name" column and optionally a "track" column. Missing tracks are created; rows whose
// team name is taken are reported and skipped.
func (s *TeamService) ImportTeams(ctx context.Context, actor Actor, r io.Reader) (*ImportResult, error) {
	if err := actor.require(RoleAdmin); err != nil {
		return nil, err
	}

	xlsx, err := excelize.OpenReader(r)
	if err != nil {
		return nil, validationError("failed to parse xlsx file: %v", err)
	}
	defer xlsx.Close()

	result := &ImportResult{Errors: []ImportError{}}
	db := s.db.WithContext(ctx)
	tracks := map[string]string{}

	for _, sheet := range xlsx.GetSheetList() {
		rows, err := xlsx.GetRows(sheet)
		if err != nil {
			return nil, validationError("failed to read sheet %s: %v", sheet, err)
		}
		// At least header and one data row
		if len(rows) < 2 {
			continue
		}

		nameIdx, trackIdx := -1, -1
		for i, cell := range rows[0] {
			switch strings.ToLower(strings.TrimSpace(cell)) {
			case "name", "team", "team_name":
				nameIdx = i
			case "track":
				trackIdx = i
			}
		}
		if nameIdx == -1 {
			result.Errors = append(result.Errors, ImportError{Sheet: sheet, Row: 1, Error: "missing name column"})
			continue
		}

		for i, row := range rows[1:] {
			line := i + 2
			name := cellAt(row, nameIdx)
			if name == "" {
				continue
			}
			trackName := cellAt(row, trackIdx)
			if trackName == "" {
				trackName = defaultTrackName
			}

			trackID, ok := tracks[trackName]
			if !ok {
				track := models.Track{Name: trackName}
				if err := db.Where(models.Track{Name: trackName}).FirstOrCreate(&track).Error; err != nil {
					return nil, fmt.Errorf("failed to resolve track: %w", err)
				}
				trackID = track.ID
				tracks[trackName] = trackID
			}

			var existing models.Team
			err := db.Where("name = ?", name).First(&existing).Error
			if err == nil {
				result.Errors = append(result.Errors, ImportError{Sheet: sheet, Row: line, Error: fmt.Sprintf("team name %q already exists", name)})
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("database error: %w", err)
			}

			if err := db.Create(&models.Team{Name: name, TrackID: trackID}).Error; err != nil {
				return nil, fmt.Errorf("failed to create team: %w", err)
			}
			result.Created++
		}
	}

	s.logger.Info("teams imported", slog.Int("created", result.Created), slog.Int("errors", len(result.Errors)))
	return result, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
