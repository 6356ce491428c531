package services

import (
	"context"
	"fmt"
	"io"
	"sort"

	"hackathon-api/models"
	"hackathon-api/utils"

	"github.com/xuri/excelize/v2"
)

const leaderboardSheet = "Leaderboard"

// LeaderboardEntry is one ranked team
type LeaderboardEntry struct {
	Rank            int     `json:"rank"`
	TeamID          string  `json:"team_id"`
	TeamName        string  `json:"team_name"`
	TrackID         string  `json:"track_id"`
	TrackName       string  `json:"track_name"`
	CumulativeScore float64 `json:"cumulative_score"`
}

// LeaderboardService ranks teams by cumulative score
type LeaderboardService struct {
	*core
	scores *ScoreService
}

// Leaderboard ranks the teams of a track, or every team when trackID is empty.
// Tied teams share a rank and are listed by name.
func (s *LeaderboardService) Leaderboard(ctx context.Context, trackID string) ([]LeaderboardEntry, error) {
	db := s.db.WithContext(ctx)

	q := db.Model(&models.Team{})
	if trackID != "" {
		var count int64
		if err := db.Model(&models.Track{}).Where("id = ?", trackID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if count == 0 {
			return nil, notFound("track %s not found", trackID)
		}
		q = q.Where("track_id = ?", trackID)
	}
	var teams []models.Team
	if err := q.Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if len(teams) == 0 {
		return []LeaderboardEntry{}, nil
	}

	trackNames, err := s.trackNames(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(teams))
	for _, t := range teams {
		ids = append(ids, t.ID)
	}
	ledgers, err := s.scores.ledgers(db, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(teams))
	for _, t := range teams {
		entries = append(entries, LeaderboardEntry{
			TeamID:          t.ID,
			TeamName:        t.Name,
			TrackID:         t.TrackID,
			TrackName:       trackNames[t.TrackID],
			CumulativeScore: ledgers[t.ID].Total,
		})
	}
	rank(entries)
	return entries, nil
}

// ByTrack ranks every track separately
func (s *LeaderboardService) ByTrack(ctx context.Context) (map[string][]LeaderboardEntry, error) {
	all, err := s.Leaderboard(ctx, "")
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]LeaderboardEntry)
	for _, e := range all {
		grouped[e.TrackID] = append(grouped[e.TrackID], e)
	}
	for _, entries := range grouped {
		rank(entries)
	}
	return grouped, nil
}

// Export writes the global leaderboard as an xlsx workbook
func (s *LeaderboardService) Export(ctx context.Context, w io.Writer) error {
	entries, err := s.Leaderboard(ctx, "")
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), leaderboardSheet); err != nil {
		return fmt.Errorf("failed to prepare sheet: %w", err)
	}
	header := []interface{}{"Rank", "Team", "Track", "Score"}
	if err := f.SetSheetRow(leaderboardSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, e := range entries {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{e.Rank, e.TeamName, e.TrackName, e.CumulativeScore}
		if err := f.SetSheetRow(leaderboardSheet, axis, &row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return f.Write(w)
}

func (s *LeaderboardService) trackNames(ctx context.Context) (map[string]string, error) {
	var tracks []models.Track
	if err := s.db.WithContext(ctx).Find(&tracks).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	names := make(map[string]string, len(tracks))
	for _, t := range tracks {
		names[t.ID] = t.Name
	}
	return names, nil
}

// rank sorts entries by score and assigns standard competition ranks
func rank(entries []LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.CumulativeScore != b.CumulativeScore {
			return a.CumulativeScore > b.CumulativeScore
		}
		if a.TeamName != b.TeamName {
			return a.TeamName < b.TeamName
		}
		return a.TeamID < b.TeamID
	})
	scores := make([]float64, len(entries))
	for i, e := range entries {
		scores[i] = e.CumulativeScore
	}
	for i, r := range utils.CompetitionRanks(scores) {
		entries[i].Rank = r
	}
}
